// Package picker models a date/time picker widget attached to a text input.
//
// The picker owns the input's text and its parsed selection and keeps the two
// in sync. It publishes three kinds of events: the input's generic change,
// the picker's internal selection change (dp.change), and focus loss.
package picker

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jmhodges/clock"

	"github.com/datedmemo/datedmemo/internal/errors"
	"github.com/datedmemo/datedmemo/pkg/moment"
)

// EventKind names a picker event.
type EventKind string

const (
	// EventChange fires when the input's text is committed.
	EventChange EventKind = "change"
	// EventPickerChange fires when the picker's selected date changes.
	EventPickerChange EventKind = "dp.change"
	// EventFocusOut fires when the input loses focus.
	EventFocusOut EventKind = "focusout"
)

// Kinds lists every event kind in a stable order.
var Kinds = []EventKind{EventChange, EventPickerChange, EventFocusOut}

// ParseKinds splits a space separated list such as "change dp.change focusout".
func ParseKinds(s string) ([]EventKind, error) {
	var kinds []EventKind
	for _, name := range strings.Fields(s) {
		k := EventKind(name)
		if !k.Valid() {
			return nil, errors.New("E405").WithDetail(fmt.Sprintf("%q is not a picker event.", name))
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Valid reports whether k is a known event kind.
func (k EventKind) Valid() bool {
	switch k {
	case EventChange, EventPickerChange, EventFocusOut:
		return true
	}
	return false
}

// Event is delivered to handlers.
type Event struct {
	Kind EventKind
	// Text is the input text after the change.
	Text string
	// Date is the selection after the change; zero when nothing is selected.
	Date time.Time
	// OldDate is the selection before a dp.change.
	OldDate time.Time
}

// Handler receives picker events.
type Handler func(Event)

// Config configures a Picker.
type Config struct {
	// Format is the moment pattern used to display and read the input.
	Format string
	// ShowTodayButton enables the Today shortcut.
	ShowTodayButton bool
	// DefaultDate is selected silently at construction when non-zero.
	DefaultDate time.Time
	// Location is the zone typed dates are read in. Default: time.Local.
	Location *time.Location
}

// ErrTodayHidden is returned by Today when the shortcut is not shown.
var ErrTodayHidden = errors.New("E401")

// Picker is a date/time picker bound to one input element.
type Picker struct {
	id     string
	cfg    Config
	layout *moment.Layout
	clock  clock.Clock

	mu       sync.Mutex
	text     string
	selected time.Time
	handlers map[EventKind][]Handler
}

// New attaches a picker to the input id. An invalid Format is a
// programming error.
func New(id string, cfg Config, clk clock.Clock) (*Picker, error) {
	layout, err := moment.Compile(cfg.Format)
	if err != nil {
		return nil, errors.New("E400").Wrap(err)
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if clk == nil {
		clk = clock.New()
	}

	p := &Picker{
		id:       id,
		cfg:      cfg,
		layout:   layout,
		clock:    clk,
		handlers: make(map[EventKind][]Handler),
	}
	if !cfg.DefaultDate.IsZero() {
		p.selected = cfg.DefaultDate.In(cfg.Location)
		p.text = layout.Format(p.selected)
	}
	return p, nil
}

// ID returns the input element id.
func (p *Picker) ID() string { return p.id }

// Config returns the picker configuration.
func (p *Picker) Config() Config { return p.cfg }

// Layout returns the compiled display format.
func (p *Picker) Layout() *moment.Layout { return p.layout }

// On subscribes h to each of the given kinds.
func (p *Picker) On(h Handler, kinds ...EventKind) error {
	for _, k := range kinds {
		if !k.Valid() {
			return errors.New("E405").WithDetail(fmt.Sprintf("%q is not a picker event.", k))
		}
	}
	p.mu.Lock()
	for _, k := range kinds {
		p.handlers[k] = append(p.handlers[k], h)
	}
	p.mu.Unlock()
	return nil
}

// Text returns the input text.
func (p *Picker) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text
}

// Date returns the selected date and whether there is one.
func (p *Picker) Date() (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected, !p.selected.IsZero()
}

// Input replaces the input text as if typed. A parseable text moves the
// selection (firing dp.change when it differs); the change event always fires.
func (p *Picker) Input(text string) {
	p.mu.Lock()
	old := p.selected
	p.text = text
	moved := false
	if t, err := p.layout.Parse(text, p.cfg.Location); err == nil && !t.Equal(old) {
		p.selected = t
		moved = true
	}
	ev := Event{Text: p.text, Date: p.selected, OldDate: old}
	p.mu.Unlock()

	if moved {
		ev.Kind = EventPickerChange
		p.emit(ev)
	}
	ev.Kind = EventChange
	p.emit(ev)
}

// Select picks t in the widget, rewriting the input text.
func (p *Picker) Select(t time.Time) {
	t = t.In(p.cfg.Location)
	p.mu.Lock()
	old := p.selected
	p.selected = t
	p.text = p.layout.Format(t)
	ev := Event{Kind: EventPickerChange, Text: p.text, Date: t, OldDate: old}
	p.mu.Unlock()

	p.emit(ev)
}

// Clear removes the selection and empties the input.
func (p *Picker) Clear() {
	p.mu.Lock()
	old := p.selected
	p.selected = time.Time{}
	p.text = ""
	ev := Event{Kind: EventPickerChange, OldDate: old}
	p.mu.Unlock()

	p.emit(ev)
}

// Today selects the current time. It fails when the shortcut is hidden.
func (p *Picker) Today() error {
	if !p.cfg.ShowTodayButton {
		return ErrTodayHidden
	}
	p.Select(p.clock.Now())
	return nil
}

// Blur reports focus loss on the input.
func (p *Picker) Blur() {
	p.mu.Lock()
	ev := Event{Kind: EventFocusOut, Text: p.text, Date: p.selected}
	p.mu.Unlock()

	p.emit(ev)
}

func (p *Picker) emit(ev Event) {
	p.mu.Lock()
	hs := append([]Handler(nil), p.handlers[ev.Kind]...)
	p.mu.Unlock()

	for _, h := range hs {
		h(ev)
	}
}
