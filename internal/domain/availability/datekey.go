package availability

import (
	"time"
)

const dateKeyLayout = "2006-01-02"

// DateKey identifies one calendar day as YYYY-MM-DD, independent of
// time-of-day and timezone offset. Normalization keeps the day as perceived
// in the input's own location; it never converts through UTC, so a value a
// minute from midnight stays on its local day.
type DateKey string

// NewDateKey normalizes a point in time to its local calendar day.
func NewDateKey(t time.Time) (DateKey, error) {
	if t.IsZero() {
		return "", ErrInvalidInput
	}
	return DateKey(t.Format(dateKeyLayout)), nil
}

// ParseDateKey accepts only the canonical YYYY-MM-DD form.
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse(dateKeyLayout, s)
	if err != nil {
		return "", ErrInvalidInput
	}
	// Reject inputs the layout parses but does not round-trip, e.g. 2024-3-1.
	if t.Format(dateKeyLayout) != s {
		return "", ErrInvalidInput
	}
	return DateKey(s), nil
}

// Zero-padded ISO dates order lexicographically, so DateKeys compare as
// plain strings.

func (k DateKey) Before(other DateKey) bool { return k < other }

func (k DateKey) After(other DateKey) bool { return k > other }

// Time returns midnight UTC of the day, for display and serialization.
func (k DateKey) Time() time.Time {
	t, _ := time.Parse(dateKeyLayout, string(k))
	return t
}

func (k DateKey) String() string { return string(k) }

// CandidateRange is a prospective stay, inclusive on both ends. From == To
// denotes a single-day stay. Never persisted.
type CandidateRange struct {
	From DateKey
	To   DateKey
}

// NewCandidateRange rejects a range whose start falls after its end.
func NewCandidateRange(from, to DateKey) (CandidateRange, error) {
	if from.After(to) {
		return CandidateRange{}, ErrInvalidRange
	}
	return CandidateRange{From: from, To: to}, nil
}

// Contains reports whether the day falls inside the range, both ends
// inclusive. A block on the checkout day still counts: no partial days.
func (r CandidateRange) Contains(k DateKey) bool {
	return k >= r.From && k <= r.To
}
