package config

import (
	"fmt"

	"codeberg.org/mutker/faultplot/internal/errors"
)

// ValidationError represents a configuration validation error
type ValidationError interface {
	error
	// Field returns the name of the invalid field
	Field() string
	// Value returns the invalid value
	Value() interface{}
	// Reason returns why the value is invalid
	Reason() string
}

type fieldError struct {
	field  string
	value  interface{}
	reason string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s %s (got %v)", e.field, e.reason, e.value)
}

func (e *fieldError) Field() string      { return e.field }
func (e *fieldError) Value() interface{} { return e.value }
func (e *fieldError) Reason() string     { return e.reason }

func invalid(field string, value interface{}, reason string) error {
	return errors.New().Wrap(errors.ErrInvalidConfig, &fieldError{
		field:  field,
		value:  value,
		reason: reason,
	})
}
