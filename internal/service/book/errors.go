package book

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
)

// ErrValidation — общий sentinel для ошибок валидации полей.
var ErrValidation = errors.New("validation failed")

// ValidationError перечисляет все нарушения полей одной записи.
type ValidationError struct {
	Kind   domain.Kind
	Key    string
	Errors []error
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		parts = append(parts, err.Error())
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Key, strings.Join(parts, "; "))
}

// Is позволяет проверять errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Unwrap открывает доступ к конкретным доменным ошибкам (errors.Is(err, domain.ErrPhoneInvalid)).
func (e *ValidationError) Unwrap() []error {
	return e.Errors
}

type validatable interface {
	Key() string
	Validate() []error
}

func validate(kind domain.Kind, e validatable) error {
	if errs := e.Validate(); len(errs) > 0 {
		return &ValidationError{Kind: kind, Key: e.Key(), Errors: errs}
	}
	return nil
}

func validateAll[E validatable](kind domain.Kind, items []E) error {
	for _, item := range items {
		if err := validate(kind, item); err != nil {
			return err
		}
	}
	return nil
}
