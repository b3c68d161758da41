package form

import (
	"github.com/datedmemo/datedmemo/internal/errors"
	"github.com/datedmemo/datedmemo/pkg/moment"
)

// Kind names a validator in a field rule.
type Kind string

const (
	KindNotEmpty Kind = "notEmpty"
	KindDate     Kind = "date"
)

// Rule declares one validator for one field.
type Rule struct {
	Field   string            `json:"field"`
	Kind    Kind              `json:"kind"`
	Params  map[string]string `json:"params,omitempty"`
	Message string            `json:"message"`
}

// validatorFromRule builds the validator a rule describes.
func validatorFromRule(r Rule) (Validator, error) {
	if r.Field == "" {
		return nil, errors.New("E403").WithDetail("A field rule of kind " + string(r.Kind) + " names no field.")
	}

	switch r.Kind {
	case KindNotEmpty:
		return NotEmpty(r.Message), nil

	case KindDate:
		pattern := r.Params["format"]
		if pattern == "" {
			return nil, errors.New("E403").
				WithDetail("The date rule for " + r.Field + " has no format parameter.").
				WithSuggestion(`Add Params: map[string]string{"format": "MM/DD/YYYY h:m A"}`)
		}
		layout, err := moment.Compile(pattern)
		if err != nil {
			return nil, errors.New("E400").Wrap(err)
		}
		if !layout.HasDate() {
			return nil, errors.New("E403").
				WithDetail("The date rule for " + r.Field + " uses " + pattern + ", which has no year, month and day.")
		}
		return Date(layout, r.Message), nil

	default:
		return nil, errors.New("E402").
			WithDetail("Field " + r.Field + " uses validator kind " + string(r.Kind) + ".")
	}
}
