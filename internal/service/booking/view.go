package booking

import "github.com/blacktie/storefront/internal/domain"

// SessionView is a snapshot of a session safe to hand to the UI. Card data is
// reduced to the last four digits; the CVV never leaves the session.
type SessionView struct {
	ID             string         `json:"id"`
	EventRef       string         `json:"event_id"`
	EventTitle     string         `json:"event_title"`
	UnitPrice      int64          `json:"unit_price"`
	Step           string         `json:"step"`
	StepNumber     int            `json:"step_number"`
	Progress       float64        `json:"progress"`
	TicketQuantity int            `json:"ticket_quantity"`
	Contact        domain.Contact `json:"contact"`
	Payment        PaymentView    `json:"payment"`
	Pricing        domain.Pricing `json:"pricing"`
	Missing        []string       `json:"missing,omitempty"`
	Abandoned      bool           `json:"abandoned"`
}

type PaymentView struct {
	NameOnCard string `json:"name_on_card"`
	CardLast4  string `json:"card_last4,omitempty"`
	ExpiryDate string `json:"expiry_date"`
	HasCVV     bool   `json:"has_cvv"`
}

func newSessionView(id string, s *Session) *SessionView {
	p := s.Payment()
	return &SessionView{
		ID:             id,
		EventRef:       s.EventRef(),
		EventTitle:     s.EventTitle(),
		UnitPrice:      s.UnitPrice(),
		Step:           s.Step().String(),
		StepNumber:     int(s.Step()),
		Progress:       s.Progress(),
		TicketQuantity: s.TicketQuantity(),
		Contact:        s.Contact(),
		Payment: PaymentView{
			NameOnCard: p.NameOnCard,
			CardLast4:  last4(p.CardNumber),
			ExpiryDate: p.ExpiryDate,
			HasCVV:     p.CVV != "",
		},
		Pricing:   s.Pricing(),
		Missing:   s.Missing(),
		Abandoned: s.Abandoned(),
	}
}

func last4(card string) string {
	digits := make([]byte, 0, len(card))
	for i := 0; i < len(card); i++ {
		if card[i] >= '0' && card[i] <= '9' {
			digits = append(digits, card[i])
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}
