package booking

import (
	"time"

	"github.com/blacktie/storefront/internal/domain"
	"github.com/google/uuid"
)

// OrderHandoff receives every order a session confirms.
type OrderHandoff func(order domain.ConfirmedOrder)

// Gate decides which required fields still block leaving a step.
// A nil Gate never blocks.
type Gate interface {
	Missing(step domain.Step, contact domain.Contact, payment domain.Payment) []string
}

// Session is the booking wizard for one event. It is not safe for concurrent
// use and never fails: out-of-range input is clamped and out-of-order
// transitions are no-ops.
type Session struct {
	eventRef   string
	eventTitle string
	unitPrice  int64

	step      domain.Step
	quantity  int
	contact   domain.Contact
	payment   domain.Payment
	pricing   domain.Pricing
	abandoned bool

	handoff OrderHandoff
	gate    Gate
	orderID func() string
}

type SessionOption func(*Session)

func WithHandoff(h OrderHandoff) SessionOption {
	return func(s *Session) {
		s.handoff = h
	}
}

func WithGate(g Gate) SessionOption {
	return func(s *Session) {
		s.gate = g
	}
}

func WithOrderIDs(next func() string) SessionOption {
	return func(s *Session) {
		s.orderID = next
	}
}

func NewSession(event domain.Event, opts ...SessionOption) *Session {
	s := &Session{
		eventRef:   event.ID,
		eventTitle: event.Title,
		unitPrice:  event.Price,
		step:       domain.StepTickets,
		quantity:   domain.MinTickets,
		orderID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reprice()
	return s
}

func (s *Session) EventRef() string        { return s.eventRef }
func (s *Session) EventTitle() string      { return s.eventTitle }
func (s *Session) UnitPrice() int64        { return s.unitPrice }
func (s *Session) Step() domain.Step       { return s.step }
func (s *Session) TicketQuantity() int     { return s.quantity }
func (s *Session) Contact() domain.Contact { return s.contact }
func (s *Session) Payment() domain.Payment { return s.payment }
func (s *Session) Pricing() domain.Pricing { return s.pricing }
func (s *Session) Abandoned() bool         { return s.abandoned }

// Progress is the share of the wizard reached, in percent.
func (s *Session) Progress() float64 {
	return float64(s.step) / float64(domain.StepCount) * 100
}

// Missing lists the fields that block leaving the current step.
func (s *Session) Missing() []string {
	if s.gate == nil {
		return nil
	}
	return s.gate.Missing(s.step, s.contact, s.payment)
}

func (s *Session) Advance() bool {
	if s.abandoned || s.step >= domain.StepConfirmation {
		return false
	}
	if len(s.Missing()) > 0 {
		return false
	}
	s.step++
	return true
}

// Retreat steps back. From the first step it abandons the session and
// reports true so the caller can leave the wizard.
func (s *Session) Retreat() (abandoned bool) {
	switch {
	case s.abandoned:
		return true
	case s.step == domain.StepConfirmation:
		return false
	case s.step == domain.StepTickets:
		s.abandoned = true
		return true
	default:
		s.step--
		return false
	}
}

func (s *Session) SetQuantity(n int) {
	s.quantity = domain.ClampQuantity(n)
	s.reprice()
}

func (s *Session) Increment() { s.SetQuantity(s.quantity + 1) }
func (s *Session) Decrement() { s.SetQuantity(s.quantity - 1) }

// Reprice applies a new unit price from the catalog.
func (s *Session) Reprice(unitPrice int64) {
	s.unitPrice = unitPrice
	s.reprice()
}

func (s *Session) UpdateContact(p domain.ContactPatch) {
	assign(&s.contact.FirstName, p.FirstName)
	assign(&s.contact.LastName, p.LastName)
	assign(&s.contact.Email, p.Email)
	assign(&s.contact.Phone, p.Phone)
}

func (s *Session) UpdatePayment(p domain.PaymentPatch) {
	assign(&s.payment.NameOnCard, p.NameOnCard)
	assign(&s.payment.CardNumber, p.CardNumber)
	assign(&s.payment.ExpiryDate, p.ExpiryDate)
	assign(&s.payment.CVV, p.CVV)
}

// Complete confirms the booking from Payment, moving to Confirmation, or
// re-emits from Confirmation. Every successful call hands a new order off;
// there is no dedup here.
func (s *Session) Complete(now time.Time) (domain.ConfirmedOrder, bool) {
	if s.abandoned {
		return domain.ConfirmedOrder{}, false
	}
	switch s.step {
	case domain.StepPayment:
		if len(s.Missing()) > 0 {
			return domain.ConfirmedOrder{}, false
		}
		s.step = domain.StepConfirmation
	case domain.StepConfirmation:
	default:
		return domain.ConfirmedOrder{}, false
	}

	order := domain.ConfirmedOrder{
		OrderID:        s.orderID(),
		EventRef:       s.eventRef,
		EventTitle:     s.eventTitle,
		TicketQuantity: s.quantity,
		Contact:        s.contact,
		Pricing:        s.pricing,
		ConfirmedAt:    now,
	}
	if s.handoff != nil {
		s.handoff(order)
	}
	return order, true
}

func (s *Session) reprice() {
	s.pricing = domain.ComputePricing(s.unitPrice, s.quantity)
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
