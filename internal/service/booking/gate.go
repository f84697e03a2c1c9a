package booking

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/blacktie/storefront/internal/domain"
	"github.com/go-playground/validator/v10"
)

// RequiredFieldsGate blocks Details until the contact form validates and
// Payment until the card form does.
type RequiredFieldsGate struct {
	validate *validator.Validate
}

func NewRequiredFieldsGate() *RequiredFieldsGate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequiredFieldsGate{validate: v}
}

func (g *RequiredFieldsGate) Missing(step domain.Step, contact domain.Contact, payment domain.Payment) []string {
	switch step {
	case domain.StepDetails:
		return g.invalidFields(contact)
	case domain.StepPayment:
		return g.invalidFields(payment)
	default:
		return nil
	}
}

func (g *RequiredFieldsGate) invalidFields(form any) []string {
	err := g.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"form"}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	sort.Strings(fields)
	return fields
}

var _ Gate = (*RequiredFieldsGate)(nil)
