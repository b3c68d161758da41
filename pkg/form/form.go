package form

import (
	"sync"
)

// Status is the validation state of a single field.
type Status string

const (
	StatusNotValidated Status = "not_validated"
	StatusValidating   Status = "validating"
	StatusValid        Status = "valid"
	StatusInvalid      Status = "invalid"
)

// Icons maps the three visible statuses to indicator classes.
type Icons struct {
	Valid      string `json:"valid"`
	Invalid    string `json:"invalid"`
	Validating string `json:"validating"`
}

// GlyphIcons is the Bootstrap glyphicon indicator set.
var GlyphIcons = Icons{
	Valid:      "glyphicon glyphicon-ok",
	Invalid:    "glyphicon glyphicon-remove",
	Validating: "glyphicon glyphicon-refresh",
}

// For returns the indicator for s, or "" when nothing should be shown.
func (i Icons) For(s Status) string {
	switch s {
	case StatusValid:
		return i.Valid
	case StatusInvalid:
		return i.Invalid
	case StatusValidating:
		return i.Validating
	default:
		return ""
	}
}

// FieldState is a snapshot of one field's validation result.
type FieldState struct {
	Field  string            `json:"field"`
	Status Status            `json:"status"`
	Errors []ValidationError `json:"errors,omitempty"`
	Icon   string            `json:"icon,omitempty"`
}

// Messages returns the failure messages in validator order.
func (s FieldState) Messages() []string {
	msgs := make([]string, 0, len(s.Errors))
	for _, e := range s.Errors {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

// Form holds field values, their validators and their current state.
type Form struct {
	id         string
	icons      Icons
	fields     []string
	validators map[string][]Validator
	values     map[string]string
	states     map[string]FieldState
	listeners  []func(FieldState)

	mu sync.RWMutex
}

// Option configures a Form.
type Option func(*Form)

// WithIcons replaces the default indicator set.
func WithIcons(icons Icons) Option {
	return func(f *Form) {
		f.icons = icons
	}
}

// OnStatus registers a listener called on every field status change.
func OnStatus(fn func(FieldState)) Option {
	return func(f *Form) {
		f.listeners = append(f.listeners, fn)
	}
}

// WithValidators appends validators for a field after the rule validators.
func WithValidators(field string, validators ...Validator) Option {
	return func(f *Form) {
		f.addField(field)
		f.validators[field] = append(f.validators[field], validators...)
	}
}

// New creates a Form from field rules. Fields are kept in the order they
// first appear in rules.
func New(id string, rules []Rule, opts ...Option) (*Form, error) {
	f := &Form{
		id:         id,
		icons:      GlyphIcons,
		validators: make(map[string][]Validator),
		values:     make(map[string]string),
		states:     make(map[string]FieldState),
	}

	for _, r := range rules {
		v, err := validatorFromRule(r)
		if err != nil {
			return nil, err
		}
		f.addField(r.Field)
		f.validators[r.Field] = append(f.validators[r.Field], v)
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Form) addField(field string) {
	if _, ok := f.validators[field]; ok {
		return
	}
	f.fields = append(f.fields, field)
	f.validators[field] = nil
}

// ID returns the form identifier.
func (f *Form) ID() string {
	return f.id
}

// Icons returns the indicator set in use.
func (f *Form) Icons() Icons {
	return f.icons
}

// Fields returns the validated field names in declaration order.
func (f *Form) Fields() []string {
	out := make([]string, len(f.fields))
	copy(out, f.fields)
	return out
}

// Has reports whether field has validators.
func (f *Form) Has(field string) bool {
	_, ok := f.validators[field]
	return ok
}

// Set updates a field value without validating it.
func (f *Form) Set(field, value string) {
	f.mu.Lock()
	f.values[field] = value
	f.mu.Unlock()
}

// Value returns the current value of a field.
func (f *Form) Value(field string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values[field]
}

// Values returns a copy of all field values.
func (f *Form) Values() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Input sets a field value and revalidates only that field.
func (f *Form) Input(field, value string) FieldState {
	f.Set(field, value)
	return f.RevalidateField(field)
}

// RevalidateField re-runs the validators of one field and updates its state.
// Fields the form does not know are left alone and reported as not validated.
func (f *Form) RevalidateField(field string) FieldState {
	validators, ok := f.validators[field]
	if !ok {
		return FieldState{Field: field, Status: StatusNotValidated}
	}

	f.publish(f.setState(field, StatusValidating, nil))

	value := f.Value(field)
	var fieldErrors []ValidationError
	for _, v := range validators {
		if err := v.Validate(value); err != nil {
			ve, ok := err.(ValidationError)
			if !ok {
				ve = ValidationError{Kind: CustomFailure, Message: err.Error()}
			}
			ve.Field = field
			fieldErrors = append(fieldErrors, ve)
		}
	}

	status := StatusValid
	if len(fieldErrors) > 0 {
		status = StatusInvalid
	}
	final := f.setState(field, status, fieldErrors)
	f.publish(final)
	return final
}

// Validate revalidates every field and returns true if all are valid.
func (f *Form) Validate() bool {
	valid := true
	for _, field := range f.fields {
		if f.RevalidateField(field).Status != StatusValid {
			valid = false
		}
	}
	return valid
}

// State returns the current state of a field.
func (f *Form) State(field string) FieldState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if s, ok := f.states[field]; ok {
		return s
	}
	return FieldState{Field: field, Status: StatusNotValidated}
}

// States returns the state of every field in declaration order.
func (f *Form) States() []FieldState {
	out := make([]FieldState, 0, len(f.fields))
	for _, field := range f.fields {
		out = append(out, f.State(field))
	}
	return out
}

// IsValid returns true if every field has been validated and passed.
func (f *Form) IsValid() bool {
	for _, s := range f.States() {
		if s.Status != StatusValid {
			return false
		}
	}
	return true
}

// Reset clears values and states.
func (f *Form) Reset() {
	f.mu.Lock()
	f.values = make(map[string]string)
	f.states = make(map[string]FieldState)
	f.mu.Unlock()
}

func (f *Form) setState(field string, status Status, errs []ValidationError) FieldState {
	s := FieldState{
		Field:  field,
		Status: status,
		Errors: errs,
		Icon:   f.icons.For(status),
	}
	f.mu.Lock()
	f.states[field] = s
	f.mu.Unlock()
	return s
}

// publish runs listeners outside the lock so they may read the form.
func (f *Form) publish(s FieldState) {
	for _, fn := range f.listeners {
		fn(s)
	}
}
