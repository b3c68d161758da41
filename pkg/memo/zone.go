package memo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/datedmemo/datedmemo/internal/errors"
	"github.com/datedmemo/datedmemo/pkg/moment"
)

// EntryFormat is the layout of dates submitted by the event form.
const EntryFormat = "MM/DD/YYYY hh:mm A"

var entryLayout = moment.MustCompile(EntryFormat)

// Offsets outside this range do not exist on Earth.
const (
	minOffset = -12 * 60
	maxOffset = 14 * 60
)

// Timezoned renders a signed minute offset as "+HH:MM" or "-HH:MM".
func Timezoned(minutes int) string {
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%02d:%02d", sign, minutes/60, minutes%60)
}

// ZoneForOffset returns a fixed zone minutes east of UTC, named like
// Timezoned.
func ZoneForOffset(minutes int) *time.Location {
	if minutes == 0 {
		return time.UTC
	}
	return time.FixedZone(Timezoned(minutes), minutes*60)
}

// ParseOffset reads the utc-offset value the event form submits.
func ParseOffset(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("E301").WithDetail(fmt.Sprintf("%q is not a number of minutes.", s))
	}
	if n < minOffset || n > maxOffset {
		return 0, errors.New("E301").WithDetail(fmt.Sprintf("%d minutes is outside UTC-12:00..UTC+14:00.", n))
	}
	return n, nil
}

// ParseEntry interprets a submitted date in the zone offset minutes east of
// UTC and returns it in UTC.
func ParseEntry(date string, offset int) (time.Time, error) {
	if offset < minOffset || offset > maxOffset {
		return time.Time{}, errors.New("E301").WithDetail(fmt.Sprintf("%d minutes is outside UTC-12:00..UTC+14:00.", offset))
	}
	t, err := entryLayout.Parse(date, ZoneForOffset(offset))
	if err != nil {
		return time.Time{}, errors.New("E300").Wrap(err)
	}
	return t.UTC(), nil
}
