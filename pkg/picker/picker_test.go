package picker

import (
	"reflect"
	"testing"
	"time"

	"github.com/jmhodges/clock"

	"github.com/datedmemo/datedmemo/internal/errors"
)

const displayFormat = "MM/DD/YYYY hh:mm A"

func newTestPicker(t *testing.T, cfg Config) (*Picker, clock.FakeClock) {
	t.Helper()
	clk := clock.NewFake()
	clk.Set(time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC))
	if cfg.Format == "" {
		cfg.Format = displayFormat
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	p, err := New("datePicker", cfg, clk)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p, clk
}

func record(p *Picker) *[]EventKind {
	var kinds []EventKind
	p.On(func(ev Event) { kinds = append(kinds, ev.Kind) }, Kinds...)
	return &kinds
}

func TestNewInvalidFormat(t *testing.T) {
	_, err := New("datePicker", Config{Format: ""}, nil)
	if !errors.HasCode(err, "E400") {
		t.Errorf("err = %v, want E400", err)
	}
}

func TestDefaultDateSeedsSilently(t *testing.T) {
	clk := clock.NewFake()
	clk.Set(time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC))
	p, err := New("datePicker", Config{Format: displayFormat, DefaultDate: clk.Now(), Location: time.UTC}, clk)
	if err != nil {
		t.Fatal(err)
	}
	kinds := record(p)

	if p.Text() != "01/15/2024 09:30 AM" {
		t.Errorf("Text = %q", p.Text())
	}
	if d, ok := p.Date(); !ok || !d.Equal(clk.Now()) {
		t.Errorf("Date = %v, %v", d, ok)
	}
	if len(*kinds) != 0 {
		t.Errorf("seeding fired %v", *kinds)
	}

	empty, _ := newTestPicker(t, Config{})
	if _, ok := empty.Date(); ok {
		t.Error("picker without default should have no selection")
	}
}

func TestInputValidText(t *testing.T) {
	p, _ := newTestPicker(t, Config{})
	kinds := record(p)

	p.Input("02/01/2024 10:00 PM")

	if want := []EventKind{EventPickerChange, EventChange}; !reflect.DeepEqual(*kinds, want) {
		t.Errorf("events = %v, want %v", *kinds, want)
	}
	d, _ := p.Date()
	if want := time.Date(2024, 2, 1, 22, 0, 0, 0, time.UTC); !d.Equal(want) {
		t.Errorf("Date = %v, want %v", d, want)
	}
}

func TestInputSameDateOnlyChanges(t *testing.T) {
	p, _ := newTestPicker(t, Config{})
	p.Input("02/01/2024 10:00 PM")
	kinds := record(p)

	p.Input("2/1/2024 10:00 pm")
	if want := []EventKind{EventChange}; !reflect.DeepEqual(*kinds, want) {
		t.Errorf("events = %v, want %v", *kinds, want)
	}
	if p.Text() != "2/1/2024 10:00 pm" {
		t.Errorf("typed text must be kept, got %q", p.Text())
	}
}

func TestInputGarbageKeepsSelection(t *testing.T) {
	p, _ := newTestPicker(t, Config{})
	p.Input("02/01/2024 10:00 PM")
	before, _ := p.Date()
	kinds := record(p)

	p.Input("13/45/2024 25:99 AM")

	if want := []EventKind{EventChange}; !reflect.DeepEqual(*kinds, want) {
		t.Errorf("events = %v, want %v", *kinds, want)
	}
	if after, _ := p.Date(); !after.Equal(before) {
		t.Error("unparseable input moved the selection")
	}
	if p.Text() != "13/45/2024 25:99 AM" {
		t.Errorf("Text = %q", p.Text())
	}
}

func TestSelectRewritesText(t *testing.T) {
	p, _ := newTestPicker(t, Config{})
	var got Event
	p.On(func(ev Event) { got = ev }, EventPickerChange)

	p.Select(time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC))

	if p.Text() != "03/09/2024 02:05 PM" || got.Text != p.Text() {
		t.Errorf("Text = %q, event text = %q", p.Text(), got.Text)
	}
}

func TestSelectUsesLocation(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	p, _ := newTestPicker(t, Config{Location: est})
	p.Select(time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC))
	if p.Text() != "01/15/2024 09:30 AM" {
		t.Errorf("Text = %q", p.Text())
	}
}

func TestToday(t *testing.T) {
	p, clk := newTestPicker(t, Config{ShowTodayButton: true})
	kinds := record(p)

	if err := p.Today(); err != nil {
		t.Fatal(err)
	}
	if d, _ := p.Date(); !d.Equal(clk.Now()) {
		t.Errorf("Date = %v", d)
	}
	if want := []EventKind{EventPickerChange}; !reflect.DeepEqual(*kinds, want) {
		t.Errorf("events = %v", *kinds)
	}

	hidden, _ := newTestPicker(t, Config{})
	if err := hidden.Today(); !errors.HasCode(err, "E401") {
		t.Errorf("Today on hidden button = %v", err)
	}
}

func TestClearAndBlur(t *testing.T) {
	p, _ := newTestPicker(t, Config{})
	p.Input("02/01/2024 10:00 PM")
	kinds := record(p)

	p.Clear()
	p.Blur()

	if want := []EventKind{EventPickerChange, EventFocusOut}; !reflect.DeepEqual(*kinds, want) {
		t.Errorf("events = %v", *kinds)
	}
	if p.Text() != "" {
		t.Errorf("Text = %q", p.Text())
	}
	if _, ok := p.Date(); ok {
		t.Error("Clear kept the selection")
	}
}

func TestOnRejectsUnknownKind(t *testing.T) {
	p, _ := newTestPicker(t, Config{})
	if err := p.On(func(Event) {}, "keyup"); !errors.HasCode(err, "E405") {
		t.Errorf("err = %v", err)
	}
}

func TestParseKinds(t *testing.T) {
	kinds, err := ParseKinds("change dp.change focusout")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(kinds, Kinds) {
		t.Errorf("kinds = %v", kinds)
	}
	if _, err := ParseKinds("change click"); err == nil {
		t.Error("ParseKinds accepted click")
	}
}
