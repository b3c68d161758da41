package memo

import (
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/datedmemo/datedmemo/pkg/moment"
)

// DisplayFormat is how memo dates are shown in listings.
const DisplayFormat = "ddd MM/DD/YYYY hh:mm A"

var displayLayout = moment.MustCompile(DisplayFormat)

// FormatDate renders t in loc, or "(bad date)" for the zero time.
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "(bad date)"
	}
	if loc == nil {
		loc = time.Local
	}
	return displayLayout.Format(t.In(loc))
}

// Humanize describes t relative to now as seen in loc: "Today" for the same
// calendar day, "Tomorrow" for the next one, otherwise a relative phrase such
// as "3 days ago" or "2 weeks from now".
func Humanize(t, now time.Time, loc *time.Location) string {
	if t.IsZero() {
		return FormatDate(t, loc)
	}
	if loc == nil {
		loc = time.Local
	}
	then := t.In(loc)
	now = now.In(loc)

	switch {
	case sameDay(then, now):
		return "Today"
	case sameDay(then, now.AddDate(0, 0, 1)):
		return "Tomorrow"
	}
	return capitalize(humanize.RelTime(then, now, "ago", "from now"))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
