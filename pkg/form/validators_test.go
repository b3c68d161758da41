package form

import (
	"errors"
	"testing"

	"github.com/datedmemo/datedmemo/pkg/moment"
)

func TestNotEmptyValidator(t *testing.T) {
	v := NotEmpty("")

	for _, blank := range []string{"", " ", "\t\n"} {
		err := v.Validate(blank)
		var ve ValidationError
		if !errors.As(err, &ve) || ve.Kind != EmptyField {
			t.Errorf("Validate(%q) = %v, want EmptyField", blank, err)
		}
		if ve.Message != "This field is required" {
			t.Errorf("default message = %q", ve.Message)
		}
	}

	if err := v.Validate("x"); err != nil {
		t.Errorf("Validate(x) = %v", err)
	}
}

func TestDateValidator(t *testing.T) {
	v := Date(moment.MustCompile("MM/DD/YYYY h:m A"), "bad date")

	if err := v.Validate(""); err != nil {
		t.Errorf("blank should be left to NotEmpty, got %v", err)
	}
	if err := v.Validate("01/15/2024 09:30 AM"); err != nil {
		t.Errorf("valid date rejected: %v", err)
	}

	err := v.Validate("13/45/2024 25:99 AM")
	var ve ValidationError
	if !errors.As(err, &ve) || ve.Kind != InvalidFormat || ve.Message != "bad date" {
		t.Errorf("Validate = %v", err)
	}
}

func TestCustomValidatorPassesThroughValidationError(t *testing.T) {
	v := Custom(func(string) error {
		return ValidationError{Kind: InvalidFormat, Message: "shape"}
	})
	var ve ValidationError
	if !errors.As(v.Validate("x"), &ve) || ve.Kind != InvalidFormat {
		t.Errorf("Custom rewrote ValidationError: %+v", ve)
	}
}

func TestIconsFor(t *testing.T) {
	if GlyphIcons.For(StatusNotValidated) != "" {
		t.Error("not validated fields show no icon")
	}
	if GlyphIcons.For(StatusValidating) != "glyphicon glyphicon-refresh" {
		t.Error("validating icon")
	}
}
