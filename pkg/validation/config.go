package validation

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidConfig matches every FieldError.
var ErrInvalidConfig = errors.New("invalid configuration")

// FieldError reports one rejected configuration field.
type FieldError struct {
	Config string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Config, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Is makes every FieldError match ErrInvalidConfig.
func (e *FieldError) Is(target error) bool { return target == ErrInvalidConfig }

// ConfigValidator checks configuration fields fluently and collects every
// failure instead of stopping at the first.
type ConfigValidator struct {
	name   string
	errors []error
}

// NewConfigValidator creates a validator whose errors are prefixed with
// configName.
func NewConfigValidator(configName string) *ConfigValidator {
	return &ConfigValidator{name: configName}
}

func (cv *ConfigValidator) fail(field string, err error) {
	cv.errors = append(cv.errors, &FieldError{Config: cv.name, Field: field, Err: err})
}

// Required rejects an empty string.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.fail(field, errors.New("must be set"))
	}
	return cv
}

// RangeInt rejects values outside [min, max].
func (cv *ConfigValidator) RangeInt(field string, value, min, max int) *ConfigValidator {
	if value < min || value > max {
		cv.fail(field, fmt.Errorf("%d not in [%d, %d]", value, min, max))
	}
	return cv
}

// OneOf rejects values not listed in allowed.
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	if !slices.Contains(allowed, value) {
		cv.fail(field, fmt.Errorf("%q is not one of %v", value, allowed))
	}
	return cv
}

// Custom records the error returned by fn, if any.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.fail(field, err)
	}
	return cv
}

// When runs validations only if condition holds.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

// Errors returns the collected field errors in check order.
func (cv *ConfigValidator) Errors() []error {
	return cv.errors
}

// Validate returns every collected error joined into one, or nil.
func (cv *ConfigValidator) Validate() error {
	return errors.Join(cv.errors...)
}

// DefaultOr returns value unless it is the zero value of T.
func DefaultOr[T comparable](value, defaultValue T) T {
	var zero T
	if value == zero {
		return defaultValue
	}
	return value
}
