package form

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/datedmemo/datedmemo/internal/errors"
)

var eventRules = []Rule{
	{Field: "Date", Kind: KindNotEmpty, Message: "The date is required"},
	{Field: "Date", Kind: KindDate, Params: map[string]string{"format": "MM/DD/YYYY h:m A"}, Message: "The date is not a valid"},
	{Field: "Memo", Kind: KindNotEmpty, Message: "Memo must have content"},
}

func newEventForm(t *testing.T, opts ...Option) *Form {
	t.Helper()
	f, err := New("eventForm", eventRules, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func TestNewFieldOrder(t *testing.T) {
	f := newEventForm(t)

	if f.ID() != "eventForm" {
		t.Errorf("ID = %q", f.ID())
	}
	if got := f.Fields(); !reflect.DeepEqual(got, []string{"Date", "Memo"}) {
		t.Errorf("Fields = %v", got)
	}
	if !f.Has("Memo") || f.Has("Other") {
		t.Error("Has reports wrong fields")
	}
}

func TestNewRejectsBadRules(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		code string
	}{
		{"unknown kind", Rule{Field: "Date", Kind: "between"}, "E402"},
		{"date without format", Rule{Field: "Date", Kind: KindDate}, "E403"},
		{"no field", Rule{Kind: KindNotEmpty}, "E403"},
		{"bad format", Rule{Field: "Date", Kind: KindDate, Params: map[string]string{"format": "hh:mm"}}, "E400"},
		{"time only format", Rule{Field: "Date", Kind: KindDate, Params: map[string]string{"format": "hh:mm A"}}, "E403"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("f", []Rule{tt.rule})
			if !errors.HasCode(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestStateBeforeValidation(t *testing.T) {
	f := newEventForm(t)
	s := f.State("Date")
	if s.Status != StatusNotValidated {
		t.Errorf("Status = %q, want not validated", s.Status)
	}
	if f.IsValid() {
		t.Error("unvalidated form must not be valid")
	}
}

func TestRevalidateDate(t *testing.T) {
	tests := []struct {
		value    string
		status   Status
		kind     FailureKind
		messages []string
	}{
		{"", StatusInvalid, EmptyField, []string{"The date is required"}},
		{"   ", StatusInvalid, EmptyField, []string{"The date is required"}},
		{"13/45/2024 25:99 AM", StatusInvalid, InvalidFormat, []string{"The date is not a valid"}},
		{"01/15/2024 09:30 AM", StatusValid, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			f := newEventForm(t)
			f.Set("Date", tt.value)
			s := f.RevalidateField("Date")

			if s.Status != tt.status {
				t.Fatalf("Status = %q, want %q", s.Status, tt.status)
			}
			if got := s.Messages(); !reflect.DeepEqual(got, tt.messages) && !(len(got) == 0 && tt.messages == nil) {
				t.Errorf("Messages = %v, want %v", got, tt.messages)
			}
			if tt.kind != "" {
				if s.Errors[0].Kind != tt.kind || s.Errors[0].Field != "Date" {
					t.Errorf("Errors[0] = %+v", s.Errors[0])
				}
			}
			if s.Icon != GlyphIcons.For(tt.status) {
				t.Errorf("Icon = %q", s.Icon)
			}
		})
	}
}

func TestRevalidateMemo(t *testing.T) {
	f := newEventForm(t)

	s := f.Input("Memo", "")
	if s.Status != StatusInvalid || s.Messages()[0] != "Memo must have content" {
		t.Errorf("empty memo state = %+v", s)
	}

	s = f.Input("Memo", "Dentist")
	if s.Status != StatusValid || len(s.Errors) != 0 {
		t.Errorf("memo state = %+v", s)
	}
}

func TestRevalidateFieldLeavesOthersAlone(t *testing.T) {
	f := newEventForm(t)
	f.Input("Memo", "")
	memoBefore := f.State("Memo")

	f.Input("Date", "01/15/2024 09:30 AM")
	f.Input("Date", "garbage")

	if !reflect.DeepEqual(f.State("Memo"), memoBefore) {
		t.Errorf("Memo state changed: %+v -> %+v", memoBefore, f.State("Memo"))
	}
}

func TestRevalidateUnknownField(t *testing.T) {
	var published int
	f := newEventForm(t, OnStatus(func(FieldState) { published++ }))

	s := f.RevalidateField("Nope")
	if s.Status != StatusNotValidated {
		t.Errorf("Status = %q", s.Status)
	}
	if published != 0 {
		t.Errorf("published %d states for unknown field", published)
	}
}

func TestOnStatusSequence(t *testing.T) {
	var seen []Status
	f := newEventForm(t, OnStatus(func(s FieldState) {
		if s.Field == "Memo" {
			seen = append(seen, s.Status)
		}
	}))

	f.Input("Memo", "hello")
	want := []Status{StatusValidating, StatusValid}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("statuses = %v, want %v", seen, want)
	}
}

func TestListenerCanReadForm(t *testing.T) {
	var f *Form
	var observed string
	f = newEventForm(t, OnStatus(func(s FieldState) {
		observed = f.Value(s.Field)
	}))

	f.Input("Memo", "read me")
	if observed != "read me" {
		t.Errorf("listener read %q", observed)
	}
}

func TestValidateAll(t *testing.T) {
	f := newEventForm(t)
	if f.Validate() {
		t.Error("empty form should not validate")
	}

	f.Set("Date", "01/15/2024 09:30 AM")
	f.Set("Memo", "lunch")
	if !f.Validate() {
		t.Errorf("states = %+v", f.States())
	}
	if !f.IsValid() {
		t.Error("IsValid after Validate")
	}
}

func TestWithValidators(t *testing.T) {
	noLunch := Custom(func(v string) error {
		if v == "lunch" {
			return fmt.Errorf("no lunch memos")
		}
		return nil
	})
	f := newEventForm(t, WithValidators("Memo", noLunch))

	s := f.Input("Memo", "lunch")
	if s.Status != StatusInvalid || s.Errors[0].Kind != CustomFailure || s.Errors[0].Message != "no lunch memos" {
		t.Errorf("state = %+v", s)
	}
}

func TestWithIcons(t *testing.T) {
	icons := Icons{Valid: "ok", Invalid: "bad", Validating: "spin"}
	f := newEventForm(t, WithIcons(icons))
	if s := f.Input("Memo", ""); s.Icon != "bad" {
		t.Errorf("Icon = %q", s.Icon)
	}
	if f.Icons() != icons {
		t.Error("Icons not replaced")
	}
}

func TestReset(t *testing.T) {
	f := newEventForm(t)
	f.Input("Memo", "x")
	f.Reset()
	if f.Value("Memo") != "" || f.State("Memo").Status != StatusNotValidated {
		t.Error("Reset did not clear the form")
	}
}

func TestValuesCopy(t *testing.T) {
	f := newEventForm(t)
	f.Set("Memo", "a")
	v := f.Values()
	v["Memo"] = "b"
	if f.Value("Memo") != "a" {
		t.Error("Values must return a copy")
	}
}
