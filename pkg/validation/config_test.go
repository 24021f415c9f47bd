package validation

import (
	"errors"
	"testing"
)

func TestConfigValidator_CollectsAllErrors(t *testing.T) {
	cv := NewConfigValidator("Config").
		Required("engine.reference_path", "").
		RangeInt("batch.workers", 0, 1, 64).
		OneOf("logging.level", "loud", []string{"debug", "info"})

	want := []string{
		"Config.engine.reference_path: must be set",
		"Config.batch.workers: 0 not in [1, 64]",
		`Config.logging.level: "loud" is not one of [debug info]`,
	}
	if len(cv.Errors()) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), cv.Errors())
	}
	for i, err := range cv.Errors() {
		if err.Error() != want[i] {
			t.Errorf("error %d = %q, want %q", i, err, want[i])
		}
		var fe *FieldError
		if !errors.As(err, &fe) || fe.Config != "Config" {
			t.Errorf("error %d is not a FieldError: %#v", i, err)
		}
	}

	joined := cv.Validate()
	if !errors.Is(joined, ErrInvalidConfig) {
		t.Errorf("joined error should match ErrInvalidConfig")
	}
	for _, err := range cv.Errors() {
		if !errors.Is(joined, err) {
			t.Errorf("Validate() should wrap %v", err)
		}
	}
}

func TestConfigValidator_Valid(t *testing.T) {
	err := NewConfigValidator("Config").
		Required("engine.kind", "embedded").
		RangeInt("batch.workers", 4, 1, 64).
		OneOf("logging.level", "info", []string{"debug", "info"}).
		Validate()
	if err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestConfigValidator_CustomAndWhen(t *testing.T) {
	sentinel := errors.New("no such file")

	cv := NewConfigValidator("Reference").
		When(true, func(cv *ConfigValidator) {
			cv.Custom("path", func() error { return sentinel })
		}).
		When(false, func(cv *ConfigValidator) {
			cv.Required("never", "")
		})

	if len(cv.Errors()) != 1 {
		t.Fatalf("expected 1 error, got %v", cv.Errors())
	}
	err := cv.Validate()
	if !errors.Is(err, sentinel) || !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("custom error should be wrapped, got %v", err)
	}
}

func TestDefaultOr(t *testing.T) {
	if DefaultOr("", "info") != "info" {
		t.Error("empty string should take the default")
	}
	if DefaultOr("debug", "info") != "debug" {
		t.Error("set value should be kept")
	}
	if DefaultOr(0, 4) != 4 || DefaultOr(2, 4) != 2 {
		t.Error("int defaults are wrong")
	}
}
