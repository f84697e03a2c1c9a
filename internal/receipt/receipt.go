package receipt

import (
	"context"
	"fmt"
	"strings"

	"github.com/blacktie/storefront/internal/domain"
	"go.uber.org/zap"
)

// Sender renders order receipts. Delivery is a structured log line; a mail
// transport can replace it without touching the worker.
type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{log: log}
}

func (s *Sender) Send(_ context.Context, order domain.ConfirmedOrder) error {
	if order.Contact.Email == "" {
		s.log.Warn("receipt skipped, no email on order", zap.String("order_id", order.OrderID))
		return nil
	}

	s.log.Info("receipt sent",
		zap.String("order_id", order.OrderID),
		zap.String("to", order.Contact.Email),
		zap.String("body", Render(order)),
	)
	return nil
}

// Render formats the receipt body. Amounts are whole currency units.
func Render(order domain.ConfirmedOrder) string {
	var b strings.Builder
	name := strings.TrimSpace(order.Contact.FirstName + " " + order.Contact.LastName)
	if name == "" {
		name = "guest"
	}
	fmt.Fprintf(&b, "Hi %s,\n", name)
	fmt.Fprintf(&b, "Your booking %s is confirmed.\n", order.OrderID)
	fmt.Fprintf(&b, "Event: %s\n", order.EventTitle)
	fmt.Fprintf(&b, "Tickets: %d\n", order.TicketQuantity)
	fmt.Fprintf(&b, "Subtotal: $%d\n", order.Pricing.Subtotal)
	fmt.Fprintf(&b, "Fees: $%d\n", order.Pricing.Fees)
	fmt.Fprintf(&b, "Total: $%d\n", order.Pricing.Total)
	return b.String()
}
