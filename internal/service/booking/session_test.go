package booking

import (
	"testing"
	"time"

	"github.com/blacktie/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var festival = domain.Event{ID: "1", Title: "Summer Music Festival 2024", Price: 89}

func strp(s string) *string { return &s }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "order-" + string(rune('0'+n))
	}
}

func TestSession_NewDefaults(t *testing.T) {
	s := NewSession(festival)

	assert.Equal(t, "1", s.EventRef())
	assert.Equal(t, domain.StepTickets, s.Step())
	assert.Equal(t, 1, s.TicketQuantity())
	assert.Equal(t, domain.Pricing{Subtotal: 89, Fees: 9, Total: 98}, s.Pricing())
	assert.Equal(t, 25.0, s.Progress())
	assert.False(t, s.Abandoned())
}

func TestSession_SetQuantityClamps(t *testing.T) {
	s := NewSession(festival)
	for n := -20; n <= 25; n++ {
		s.SetQuantity(n)
		assert.Equal(t, domain.ClampQuantity(n), s.TicketQuantity(), "n=%d", n)
		p := s.Pricing()
		assert.Equal(t, p.Subtotal+p.Fees, p.Total)
		assert.Equal(t, festival.Price*int64(s.TicketQuantity()), p.Subtotal)
	}
}

func TestSession_PricingScenario(t *testing.T) {
	s := NewSession(festival)
	s.SetQuantity(3)
	assert.Equal(t, domain.Pricing{Subtotal: 267, Fees: 27, Total: 294}, s.Pricing())
}

func TestSession_IncrementDecrement(t *testing.T) {
	s := NewSession(festival)
	s.Decrement()
	assert.Equal(t, 1, s.TicketQuantity())

	for i := 0; i < 15; i++ {
		s.Increment()
	}
	assert.Equal(t, 10, s.TicketQuantity())
	assert.Equal(t, int64(890), s.Pricing().Subtotal)
}

func TestSession_Reprice(t *testing.T) {
	s := NewSession(festival)
	s.SetQuantity(2)
	s.Reprice(100)
	assert.Equal(t, domain.Pricing{Subtotal: 200, Fees: 20, Total: 220}, s.Pricing())
}

func TestSession_AdvanceIsMonotonicAndBounded(t *testing.T) {
	s := NewSession(festival)
	prev := s.Step()
	for i := 0; i < 10; i++ {
		moved := s.Advance()
		assert.GreaterOrEqual(t, s.Step(), prev)
		assert.LessOrEqual(t, s.Step(), domain.StepConfirmation)
		if prev == domain.StepConfirmation {
			assert.False(t, moved)
		}
		prev = s.Step()
	}
	assert.Equal(t, domain.StepConfirmation, s.Step())
	assert.Equal(t, 100.0, s.Progress())
}

func TestSession_AdvanceDoesNotValidateByDefault(t *testing.T) {
	s := NewSession(festival)
	require.True(t, s.Advance())
	assert.True(t, s.Advance(), "empty contact must not block")
	assert.Equal(t, domain.StepPayment, s.Step())
	assert.Nil(t, s.Missing())
}

func TestSession_Retreat(t *testing.T) {
	s := NewSession(festival)
	s.Advance()
	s.Advance()

	assert.False(t, s.Retreat())
	assert.Equal(t, domain.StepDetails, s.Step())
	assert.False(t, s.Retreat())
	assert.Equal(t, domain.StepTickets, s.Step())

	assert.True(t, s.Retreat(), "retreat from tickets abandons")
	assert.True(t, s.Abandoned())
	assert.Equal(t, domain.StepTickets, s.Step())

	assert.False(t, s.Advance(), "abandoned session is inert")
	_, ok := s.Complete(time.Now())
	assert.False(t, ok)
}

func TestSession_RetreatFromConfirmationIsNoop(t *testing.T) {
	s := NewSession(festival)
	s.Advance()
	s.Advance()
	s.Advance()
	require.Equal(t, domain.StepConfirmation, s.Step())

	assert.False(t, s.Retreat())
	assert.Equal(t, domain.StepConfirmation, s.Step())
}

func TestSession_UpdateMerges(t *testing.T) {
	s := NewSession(festival)
	s.UpdateContact(domain.ContactPatch{FirstName: strp("John"), Email: strp("john@example.com")})
	s.UpdateContact(domain.ContactPatch{LastName: strp("Doe")})

	assert.Equal(t, domain.Contact{FirstName: "John", LastName: "Doe", Email: "john@example.com"}, s.Contact())

	s.UpdatePayment(domain.PaymentPatch{CardNumber: strp("4242 4242 4242 4242"), CVV: strp("123")})
	s.UpdatePayment(domain.PaymentPatch{CVV: strp("999"), ExpiryDate: strp("12/27")})

	assert.Equal(t, domain.Payment{CardNumber: "4242 4242 4242 4242", ExpiryDate: "12/27", CVV: "999"}, s.Payment())
}

func TestSession_CompleteFromPayment(t *testing.T) {
	var emitted []domain.ConfirmedOrder
	s := NewSession(festival,
		WithHandoff(func(o domain.ConfirmedOrder) { emitted = append(emitted, o) }),
		WithOrderIDs(sequentialIDs()),
	)
	s.SetQuantity(3)
	s.UpdateContact(domain.ContactPatch{FirstName: strp("Ada"), Email: strp("ada@example.com")})
	s.UpdatePayment(domain.PaymentPatch{CardNumber: strp("4111111111111111")})
	s.Advance()
	s.Advance()

	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	order, ok := s.Complete(now)

	require.True(t, ok)
	assert.Equal(t, domain.StepConfirmation, s.Step())
	assert.Equal(t, domain.ConfirmedOrder{
		OrderID:        "order-1",
		EventRef:       "1",
		EventTitle:     "Summer Music Festival 2024",
		TicketQuantity: 3,
		Contact:        domain.Contact{FirstName: "Ada", Email: "ada@example.com"},
		Pricing:        domain.Pricing{Subtotal: 267, Fees: 27, Total: 294},
		ConfirmedAt:    now,
	}, order)
	assert.Equal(t, []domain.ConfirmedOrder{order}, emitted)
}

func TestSession_CompleteTwiceEmitsTwice(t *testing.T) {
	count := 0
	s := NewSession(festival, WithHandoff(func(domain.ConfirmedOrder) { count++ }))
	s.Advance()
	s.Advance()

	_, ok := s.Complete(time.Now())
	require.True(t, ok)
	_, ok = s.Complete(time.Now())
	require.True(t, ok)

	assert.Equal(t, 2, count)
	assert.Equal(t, domain.StepConfirmation, s.Step())
}

func TestSession_CompleteBeforePaymentIsNoop(t *testing.T) {
	count := 0
	s := NewSession(festival, WithHandoff(func(domain.ConfirmedOrder) { count++ }))

	_, ok := s.Complete(time.Now())
	assert.False(t, ok)
	s.Advance()
	_, ok = s.Complete(time.Now())
	assert.False(t, ok)

	assert.Equal(t, 0, count)
	assert.Equal(t, domain.StepDetails, s.Step())
}

func TestSession_AdvanceToConfirmationDoesNotEmit(t *testing.T) {
	count := 0
	s := NewSession(festival, WithHandoff(func(domain.ConfirmedOrder) { count++ }))
	s.Advance()
	s.Advance()
	s.Advance()

	assert.Equal(t, domain.StepConfirmation, s.Step())
	assert.Equal(t, 0, count)
}
