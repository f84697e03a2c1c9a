package domain

import "time"

type Step int

const (
	StepTickets Step = iota + 1
	StepDetails
	StepPayment
	StepConfirmation
)

const StepCount = int(StepConfirmation)

const (
	MinTickets = 1
	MaxTickets = 10

	// FeePercent is the booking fee applied on top of the subtotal.
	FeePercent = 10
)

func (s Step) String() string {
	switch s {
	case StepTickets:
		return "tickets"
	case StepDetails:
		return "details"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	default:
		return "unknown"
	}
}

type Contact struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
}

// ContactPatch carries the fields to merge into a Contact. Nil fields are left untouched.
type ContactPatch struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

type Payment struct {
	NameOnCard string `json:"name_on_card" validate:"required"`
	CardNumber string `json:"card_number" validate:"required"`
	ExpiryDate string `json:"expiry_date" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
}

type PaymentPatch struct {
	NameOnCard *string `json:"name_on_card"`
	CardNumber *string `json:"card_number"`
	ExpiryDate *string `json:"expiry_date"`
	CVV        *string `json:"cvv"`
}

type Pricing struct {
	Subtotal int64 `json:"subtotal"`
	Fees     int64 `json:"fees"`
	Total    int64 `json:"total"`
}

// ConfirmedOrder is emitted once per completion of a booking session. It never
// carries payment details.
type ConfirmedOrder struct {
	OrderID        string    `json:"order_id"`
	EventRef       string    `json:"event_ref"`
	EventTitle     string    `json:"event_title"`
	TicketQuantity int       `json:"ticket_quantity"`
	Contact        Contact   `json:"contact"`
	Pricing        Pricing   `json:"pricing"`
	ConfirmedAt    time.Time `json:"confirmed_at"`
}

func ClampQuantity(n int) int {
	if n < MinTickets {
		return MinTickets
	}
	if n > MaxTickets {
		return MaxTickets
	}
	return n
}

// ComputePricing derives the order totals. Fees are rounded half away from zero.
func ComputePricing(unitPrice int64, quantity int) Pricing {
	subtotal := unitPrice * int64(quantity)
	fees := divRoundHalfAway(subtotal*FeePercent, 100)
	return Pricing{
		Subtotal: subtotal,
		Fees:     fees,
		Total:    subtotal + fees,
	}
}

func divRoundHalfAway(n, d int64) int64 {
	q, r := n/d, n%d
	if r < 0 {
		r = -r
	}
	if 2*r >= d {
		if n < 0 {
			q--
		} else {
			q++
		}
	}
	return q
}
