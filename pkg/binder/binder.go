package binder

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jmhodges/clock"

	"github.com/datedmemo/datedmemo/internal/errors"
	"github.com/datedmemo/datedmemo/pkg/form"
	"github.com/datedmemo/datedmemo/pkg/picker"
)

// Element ids and field names of the event form.
const (
	FormID        = "eventForm"
	OffsetInputID = "utc-offset"
	PickerID      = "datePicker"

	FieldDate = "Date"
	FieldMemo = "Memo"
)

// Formats used by the picker display and the Date rule.
const (
	DisplayFormat  = "MM/DD/YYYY hh:mm A"
	DateRuleFormat = "MM/DD/YYYY h:m A"
)

// Messages shown next to invalid fields.
const (
	MsgDateRequired = "The date is required"
	MsgDateInvalid  = "The date is not a valid"
	MsgMemoRequired = "Memo must have content"
)

// Rules returns the field rules of the event form.
func Rules() []form.Rule {
	return []form.Rule{
		{Field: FieldDate, Kind: form.KindNotEmpty, Message: MsgDateRequired},
		{Field: FieldDate, Kind: form.KindDate, Params: map[string]string{"format": DateRuleFormat}, Message: MsgDateInvalid},
		{Field: FieldMemo, Kind: form.KindNotEmpty, Message: MsgMemoRequired},
	}
}

// Action is what the binder does in response to an event.
type Action struct {
	// Revalidate names the field to revalidate.
	Revalidate string
}

// DispatchTable maps picker events to actions.
type DispatchTable map[picker.EventKind]Action

// DateEvents are the picker events that revalidate Date.
const DateEvents = "change dp.change focusout"

// DefaultDispatch revalidates Date on every picker event in DateEvents.
func DefaultDispatch() DispatchTable {
	kinds, err := picker.ParseKinds(DateEvents)
	if err != nil {
		panic(err)
	}
	t := make(DispatchTable, len(kinds))
	for _, k := range kinds {
		t[k] = Action{Revalidate: FieldDate}
	}
	return t
}

// Kinds returns the subscribed event kinds in a stable order.
func (t DispatchTable) Kinds() []picker.EventKind {
	var kinds []picker.EventKind
	for _, k := range picker.Kinds {
		if _, ok := t[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// UTCOffset returns the signed minutes t's zone is ahead of UTC.
func UTCOffset(t time.Time) int {
	_, secs := t.Zone()
	return secs / 60
}

// State is a snapshot of everything the page shows for the form.
type State struct {
	Offset int               `json:"offset"`
	Date   string            `json:"date"`
	Memo   string            `json:"memo"`
	Fields []form.FieldState `json:"fields"`
}

// Binder binds the picker and the validation layer to the event form.
type Binder struct {
	clock     clock.Clock
	loc       *time.Location
	logger    *slog.Logger
	icons     form.Icons
	table     DispatchTable
	listeners []func(form.FieldState)

	bound  bool
	offset int
	picker *picker.Picker
	form   *form.Form
}

// Option configures a Binder.
type Option func(*Binder)

// WithClock sets the clock used for "now". Default: the system clock.
func WithClock(c clock.Clock) Option {
	return func(b *Binder) {
		b.clock = c
	}
}

// WithLocation sets the viewer's time zone. Default: time.Local.
func WithLocation(loc *time.Location) Option {
	return func(b *Binder) {
		b.loc = loc
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Binder) {
		b.logger = l
	}
}

// WithIcons replaces the glyphicon indicator set.
func WithIcons(icons form.Icons) Option {
	return func(b *Binder) {
		b.icons = icons
	}
}

// WithDispatch replaces the event dispatch table.
func WithDispatch(t DispatchTable) Option {
	return func(b *Binder) {
		b.table = t
	}
}

// OnStatus registers a listener for every field status change.
func OnStatus(fn func(form.FieldState)) Option {
	return func(b *Binder) {
		b.listeners = append(b.listeners, fn)
	}
}

// New returns an unbound Binder.
func New(opts ...Option) *Binder {
	b := &Binder{
		clock:  clock.New(),
		loc:    time.Local,
		logger: slog.Default(),
		icons:  form.GlyphIcons,
		table:  DefaultDispatch(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind runs the page-ready setup. It may run only once.
func (b *Binder) Bind() error {
	if b.bound {
		return errors.New("E404")
	}

	now := b.clock.Now().In(b.loc)
	b.offset = UTCOffset(now)

	p, err := picker.New(PickerID, picker.Config{
		Format:          DisplayFormat,
		ShowTodayButton: true,
		DefaultDate:     now,
		Location:        b.loc,
	}, b.clock)
	if err != nil {
		return err
	}
	if err := p.On(b.onPickerEvent, b.table.Kinds()...); err != nil {
		return err
	}

	opts := []form.Option{form.WithIcons(b.icons)}
	for _, fn := range b.listeners {
		opts = append(opts, form.OnStatus(fn))
	}
	f, err := form.New(FormID, Rules(), opts...)
	if err != nil {
		return err
	}
	f.Set(FieldDate, p.Text())

	b.picker = p
	b.form = f
	b.bound = true

	f.RevalidateField(FieldDate)
	f.RevalidateField(FieldMemo)

	b.logger.Debug("form bound",
		"form", FormID,
		"offset", b.offset,
		"date", p.Text())
	return nil
}

// Bound reports whether Bind has run.
func (b *Binder) Bound() bool { return b.bound }

// Offset returns the UTC offset computed at bind time.
func (b *Binder) Offset() int { return b.offset }

// HiddenOffset returns the value written to the utc-offset input.
func (b *Binder) HiddenOffset() string { return strconv.Itoa(b.offset) }

// Location returns the viewer's time zone.
func (b *Binder) Location() *time.Location { return b.loc }

// Picker returns the attached picker, or nil before Bind.
func (b *Binder) Picker() *picker.Picker { return b.picker }

// Form returns the attached form, or nil before Bind.
func (b *Binder) Form() *form.Form { return b.form }

// Dispatch performs the action the table maps kind to.
func (b *Binder) Dispatch(kind picker.EventKind) (form.FieldState, error) {
	if !b.bound {
		return form.FieldState{}, errors.New("E406")
	}
	action, ok := b.table[kind]
	if !ok {
		return form.FieldState{}, errors.New("E405").WithDetail(fmt.Sprintf("No action is bound to %q.", kind))
	}

	b.form.Set(FieldDate, b.picker.Text())
	st := b.form.RevalidateField(action.Revalidate)
	b.logger.Debug("field revalidated",
		"event", string(kind),
		"field", st.Field,
		"status", string(st.Status))
	return st, nil
}

// Event applies a date input event reported by the page. When text differs
// from the picker's text it is first applied as typing, which lets the
// picker fire its own events. A focusout then reports the blur; any other
// kind with unchanged text is dispatched as is.
func (b *Binder) Event(kind picker.EventKind, text string) error {
	if !b.bound {
		return errors.New("E406")
	}
	if !kind.Valid() {
		return errors.New("E405").WithDetail(fmt.Sprintf("%q is not a picker event.", kind))
	}

	typed := text != b.picker.Text()
	if typed {
		b.picker.Input(text)
	}
	switch {
	case kind == picker.EventFocusOut:
		b.picker.Blur()
	case !typed:
		_, err := b.Dispatch(kind)
		return err
	}
	return nil
}

// Input sets a non-date field as typed, revalidating it.
func (b *Binder) Input(field, value string) (form.FieldState, error) {
	if !b.bound {
		return form.FieldState{}, errors.New("E406")
	}
	if field == FieldDate {
		b.picker.Input(value)
		return b.form.State(FieldDate), nil
	}
	if !b.form.Has(field) {
		return form.FieldState{}, errors.New("E405").WithDetail(fmt.Sprintf("The form has no field %q.", field))
	}
	return b.form.Input(field, value), nil
}

// Today presses the picker's today shortcut.
func (b *Binder) Today() error {
	if !b.bound {
		return errors.New("E406")
	}
	return b.picker.Today()
}

// Clear empties the picker's selection and input.
func (b *Binder) Clear() error {
	if !b.bound {
		return errors.New("E406")
	}
	b.picker.Clear()
	return nil
}

// Snapshot returns the current page state.
func (b *Binder) Snapshot() State {
	s := State{Offset: b.offset}
	if !b.bound {
		return s
	}
	s.Date = b.form.Value(FieldDate)
	s.Memo = b.form.Value(FieldMemo)
	s.Fields = b.form.States()
	return s
}

func (b *Binder) onPickerEvent(ev picker.Event) {
	if _, err := b.Dispatch(ev.Kind); err != nil {
		b.logger.Warn("picker event dropped", "event", string(ev.Kind), "error", err)
	}
}
