package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/propertybazaar/server/internal/model"
)

// v is the package-level validator; custom registrations happen in init before first use.
var v = validator.New()

// Struct validates s by its validate tags. Failures wrap model.ErrValidation with a readable list.
func Struct(s interface{}) error {
	return wrap(v.Struct(s))
}

// Var validates a single value against tag, e.g. Var(contact, "email")
func Var(field interface{}, tag string) error {
	return wrap(v.Var(field, tag))
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Field() == "" {
			msgs = append(msgs, fmt.Sprintf("value failed '%s'", fe.Tag()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", model.ErrValidation, strings.Join(msgs, "; "))
}
