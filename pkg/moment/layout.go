package moment

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokYear4
	tokYear2
	tokMonthName
	tokMonthAbbr
	tokMonth2
	tokMonth
	tokDay2
	tokDay
	tokWeekdayName
	tokWeekdayAbbr
	tokHour24_2
	tokHour24
	tokHour12_2
	tokHour12
	tokMinute2
	tokMinute
	tokSecond2
	tokSecond
	tokMeridiemUpper
	tokMeridiemLower
	tokOffsetColon
	tokOffset
)

// tokenTable is ordered so that longer tokens win over their prefixes.
var tokenTable = []struct {
	text string
	kind tokenKind
}{
	{"YYYY", tokYear4},
	{"YY", tokYear2},
	{"MMMM", tokMonthName},
	{"MMM", tokMonthAbbr},
	{"MM", tokMonth2},
	{"M", tokMonth},
	{"DD", tokDay2},
	{"D", tokDay},
	{"dddd", tokWeekdayName},
	{"ddd", tokWeekdayAbbr},
	{"HH", tokHour24_2},
	{"H", tokHour24},
	{"hh", tokHour12_2},
	{"h", tokHour12},
	{"mm", tokMinute2},
	{"m", tokMinute},
	{"ss", tokSecond2},
	{"s", tokSecond},
	{"A", tokMeridiemUpper},
	{"a", tokMeridiemLower},
	{"ZZ", tokOffset},
	{"Z", tokOffsetColon},
}

type token struct {
	kind tokenKind
	text string
}

// Layout is a compiled moment pattern. It is immutable and safe for
// concurrent use.
type Layout struct {
	pattern  string
	tokens   []token
	has12h   bool
	hasAMPM  bool
	hasYear  bool
	hasMonth bool
	hasDay   bool
}

// Compile parses a moment pattern into a Layout.
func Compile(pattern string) (*Layout, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("moment: empty pattern")
	}

	l := &Layout{pattern: pattern}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			l.tokens = append(l.tokens, token{kind: tokLiteral, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		if pattern[i] == '[' {
			end := strings.IndexByte(pattern[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("moment: unterminated [ in %q", pattern)
			}
			lit.WriteString(pattern[i+1 : i+end])
			i += end + 1
			continue
		}

		matched := false
		for _, t := range tokenTable {
			if strings.HasPrefix(pattern[i:], t.text) {
				flush()
				l.tokens = append(l.tokens, token{kind: t.kind, text: t.text})
				l.note(t.kind)
				i += len(t.text)
				matched = true
				break
			}
		}
		if !matched {
			lit.WriteByte(pattern[i])
			i++
		}
	}
	flush()

	if l.has12h && !l.hasAMPM {
		return nil, fmt.Errorf("moment: 12-hour token without A/a in %q", pattern)
	}
	return l, nil
}

// MustCompile is like Compile but panics if the pattern is invalid.
func MustCompile(pattern string) *Layout {
	l, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Layout) note(k tokenKind) {
	switch k {
	case tokHour12, tokHour12_2:
		l.has12h = true
	case tokMeridiemUpper, tokMeridiemLower:
		l.hasAMPM = true
	case tokYear2, tokYear4:
		l.hasYear = true
	case tokMonth, tokMonth2, tokMonthAbbr, tokMonthName:
		l.hasMonth = true
	case tokDay, tokDay2:
		l.hasDay = true
	}
}

// String returns the source pattern.
func (l *Layout) String() string {
	return l.pattern
}

// HasDate reports whether the layout carries year, month and day.
func (l *Layout) HasDate() bool {
	return l.hasYear && l.hasMonth && l.hasDay
}

// Format renders t using the layout.
func (l *Layout) Format(t time.Time) string {
	var b strings.Builder
	for _, tok := range l.tokens {
		switch tok.kind {
		case tokLiteral:
			b.WriteString(tok.text)
		case tokYear4:
			b.WriteString(fmt.Sprintf("%04d", t.Year()))
		case tokYear2:
			b.WriteString(fmt.Sprintf("%02d", t.Year()%100))
		case tokMonthName:
			b.WriteString(t.Month().String())
		case tokMonthAbbr:
			b.WriteString(t.Month().String()[:3])
		case tokMonth2:
			b.WriteString(fmt.Sprintf("%02d", int(t.Month())))
		case tokMonth:
			b.WriteString(strconv.Itoa(int(t.Month())))
		case tokDay2:
			b.WriteString(fmt.Sprintf("%02d", t.Day()))
		case tokDay:
			b.WriteString(strconv.Itoa(t.Day()))
		case tokWeekdayName:
			b.WriteString(t.Weekday().String())
		case tokWeekdayAbbr:
			b.WriteString(t.Weekday().String()[:3])
		case tokHour24_2:
			b.WriteString(fmt.Sprintf("%02d", t.Hour()))
		case tokHour24:
			b.WriteString(strconv.Itoa(t.Hour()))
		case tokHour12_2:
			b.WriteString(fmt.Sprintf("%02d", hour12(t.Hour())))
		case tokHour12:
			b.WriteString(strconv.Itoa(hour12(t.Hour())))
		case tokMinute2:
			b.WriteString(fmt.Sprintf("%02d", t.Minute()))
		case tokMinute:
			b.WriteString(strconv.Itoa(t.Minute()))
		case tokSecond2:
			b.WriteString(fmt.Sprintf("%02d", t.Second()))
		case tokSecond:
			b.WriteString(strconv.Itoa(t.Second()))
		case tokMeridiemUpper:
			if t.Hour() < 12 {
				b.WriteString("AM")
			} else {
				b.WriteString("PM")
			}
		case tokMeridiemLower:
			if t.Hour() < 12 {
				b.WriteString("am")
			} else {
				b.WriteString("pm")
			}
		case tokOffsetColon:
			b.WriteString(t.Format("-07:00"))
		case tokOffset:
			b.WriteString(t.Format("-0700"))
		}
	}
	return b.String()
}

func hour12(h int) int {
	h %= 12
	if h == 0 {
		return 12
	}
	return h
}

// ParseError describes a value that does not match a layout.
type ParseError struct {
	Value   string
	Pattern string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("moment: cannot parse %q as %q: %s", e.Value, e.Pattern, e.Reason)
}

// Parse reads s according to the layout. Times without an offset token are
// interpreted in loc (UTC when loc is nil).
func (l *Layout) Parse(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	fail := func(reason string) (time.Time, error) {
		return time.Time{}, &ParseError{Value: s, Pattern: l.pattern, Reason: reason}
	}

	in := strings.TrimSpace(s)
	if in == "" {
		return fail("empty value")
	}

	year, month, day := 0, 1, 1
	hour, minute, second := 0, 0, 0
	pm := false
	var zone *time.Location

	pos := 0
	for _, tok := range l.tokens {
		rest := in[pos:]
		switch tok.kind {
		case tokLiteral:
			n, ok := matchLiteral(rest, tok.text)
			if !ok {
				return fail(fmt.Sprintf("expected %q at offset %d", tok.text, pos))
			}
			pos += n

		case tokYear4:
			v, n, ok := digits(rest, 4, 4)
			if !ok {
				return fail("expected 4-digit year")
			}
			year, pos = v, pos+n
		case tokYear2:
			v, n, ok := digits(rest, 2, 2)
			if !ok {
				return fail("expected 2-digit year")
			}
			// Same pivot as moment: 00-68 is 20xx.
			if v <= 68 {
				year = 2000 + v
			} else {
				year = 1900 + v
			}
			pos += n

		case tokMonth, tokMonth2:
			v, n, ok := digits(rest, 1, 2)
			if !ok {
				return fail("expected month")
			}
			month, pos = v, pos+n
		case tokMonthName, tokMonthAbbr:
			v, n, ok := monthName(rest, tok.kind == tokMonthAbbr)
			if !ok {
				return fail("expected month name")
			}
			month, pos = v, pos+n

		case tokDay, tokDay2:
			v, n, ok := digits(rest, 1, 2)
			if !ok {
				return fail("expected day")
			}
			day, pos = v, pos+n

		case tokWeekdayName, tokWeekdayAbbr:
			n, ok := weekdayName(rest, tok.kind == tokWeekdayAbbr)
			if !ok {
				return fail("expected weekday")
			}
			pos += n

		case tokHour24, tokHour24_2, tokHour12, tokHour12_2:
			v, n, ok := digits(rest, 1, 2)
			if !ok {
				return fail("expected hour")
			}
			hour, pos = v, pos+n

		case tokMinute, tokMinute2:
			v, n, ok := digits(rest, 1, 2)
			if !ok {
				return fail("expected minute")
			}
			minute, pos = v, pos+n

		case tokSecond, tokSecond2:
			v, n, ok := digits(rest, 1, 2)
			if !ok {
				return fail("expected second")
			}
			second, pos = v, pos+n

		case tokMeridiemUpper, tokMeridiemLower:
			if len(rest) < 2 {
				return fail("expected AM or PM")
			}
			switch strings.ToUpper(rest[:2]) {
			case "AM":
				pm = false
			case "PM":
				pm = true
			default:
				return fail("expected AM or PM")
			}
			pos += 2

		case tokOffset, tokOffsetColon:
			z, n, ok := offset(rest)
			if !ok {
				return fail("expected UTC offset")
			}
			zone, pos = z, pos+n
		}
	}

	if pos != len(in) {
		return fail(fmt.Sprintf("unexpected trailing text %q", in[pos:]))
	}

	if month < 1 || month > 12 {
		return fail("month out of range")
	}
	if day < 1 || day > daysIn(time.Month(month), year) {
		return fail("day out of range")
	}
	if l.has12h {
		if hour < 1 || hour > 12 {
			return fail("hour out of range")
		}
		hour %= 12
		if pm {
			hour += 12
		}
	} else {
		if hour > 23 {
			return fail("hour out of range")
		}
		if l.hasAMPM && pm && hour < 12 {
			hour += 12
		}
	}
	if minute > 59 {
		return fail("minute out of range")
	}
	if second > 59 {
		return fail("second out of range")
	}

	if zone != nil {
		loc = zone
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), nil
}

// Valid reports whether s parses under the layout.
func (l *Layout) Valid(s string) bool {
	_, err := l.Parse(s, time.UTC)
	return err == nil
}

// matchLiteral matches lit at the start of s. Runs of whitespace in lit
// match one or more whitespace characters in s.
func matchLiteral(s, lit string) (int, bool) {
	i := 0
	for j := 0; j < len(lit); {
		if unicode.IsSpace(rune(lit[j])) {
			for j < len(lit) && unicode.IsSpace(rune(lit[j])) {
				j++
			}
			start := i
			for i < len(s) && unicode.IsSpace(rune(s[i])) {
				i++
			}
			if i == start {
				return 0, false
			}
			continue
		}
		if i >= len(s) || s[i] != lit[j] {
			return 0, false
		}
		i++
		j++
	}
	return i, true
}

func digits(s string, min, max int) (int, int, bool) {
	n := 0
	for n < len(s) && n < max && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n < min {
		return 0, 0, false
	}
	v, err := strconv.Atoi(s[:n])
	if err != nil {
		return 0, 0, false
	}
	return v, n, true
}

func monthName(s string, abbr bool) (int, int, bool) {
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if abbr {
			name = name[:3]
		}
		if len(s) >= len(name) && strings.EqualFold(s[:len(name)], name) {
			return int(m), len(name), true
		}
	}
	return 0, 0, false
}

func weekdayName(s string, abbr bool) (int, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if abbr {
			name = name[:3]
		}
		if len(s) >= len(name) && strings.EqualFold(s[:len(name)], name) {
			return len(name), true
		}
	}
	return 0, false
}

func offset(s string) (*time.Location, int, bool) {
	if strings.HasPrefix(s, "Z") {
		return time.UTC, 1, true
	}
	if len(s) < 5 || (s[0] != '+' && s[0] != '-') {
		return nil, 0, false
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	hh, n, ok := digits(s[1:], 2, 2)
	if !ok {
		return nil, 0, false
	}
	i := 1 + n
	if i < len(s) && s[i] == ':' {
		i++
	}
	mm, n, ok := digits(s[i:], 2, 2)
	if !ok || hh > 23 || mm > 59 {
		return nil, 0, false
	}
	secs := sign * (hh*3600 + mm*60)
	return time.FixedZone("", secs), i + n, true
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
