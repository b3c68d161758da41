package memo

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmhodges/clock"
)

// Memo is one dated memorandum.
type Memo struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// New returns a memo for date with a fresh id. Times are normalized to UTC
// and truncated to the second, which is the storage precision.
func New(date time.Time, text string, clk clock.Clock) Memo {
	if clk == nil {
		clk = clock.New()
	}
	return Memo{
		ID:        uuid.NewString(),
		Date:      date.UTC().Truncate(time.Second),
		Text:      text,
		CreatedAt: clk.Now().UTC().Truncate(time.Second),
	}
}

// Excerpt returns the first line of the text, cut to n runes.
func (m Memo) Excerpt(n int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(m.Text), "\n")
	r := []rune(line)
	if len(r) <= n {
		return line
	}
	return string(r[:n-1]) + "…"
}

// byDate orders memos by date, then id for a stable listing.
func byDate(a, b Memo) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
