package models

import (
	"sort"
	"time"
)

// DateOnly normalises a timestamp to a calendar date (UTC midnight). All due-date
// arithmetic in the scheduler operates on values that went through this.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of calendar days from `from` to `to`.
// Negative when `to` is earlier than `from`.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

// DateSet is the per-invoice set of calendar days on which a reminder has already
// been dispatched. It has set semantics (no duplicate dates) and is append-only:
// WithDate returns a new set rather than mutating in place, which keeps the
// eligibility evaluator free of side effects.
type DateSet struct {
	dates map[time.Time]struct{}
}

// NewDateSet builds a DateSet from the given dates, normalising and deduplicating.
func NewDateSet(dates ...time.Time) DateSet {
	s := DateSet{dates: make(map[time.Time]struct{}, len(dates))}
	for _, d := range dates {
		s.dates[DateOnly(d)] = struct{}{}
	}
	return s
}

// Contains reports whether the set holds the given calendar day.
func (s DateSet) Contains(d time.Time) bool {
	if s.dates == nil {
		return false
	}
	_, ok := s.dates[DateOnly(d)]
	return ok
}

// WithDate returns a copy of the set that also contains d. The receiver is unchanged.
func (s DateSet) WithDate(d time.Time) DateSet {
	out := DateSet{dates: make(map[time.Time]struct{}, len(s.dates)+1)}
	for k := range s.dates {
		out.dates[k] = struct{}{}
	}
	out.dates[DateOnly(d)] = struct{}{}
	return out
}

// Len returns the number of distinct days in the set.
func (s DateSet) Len() int {
	return len(s.dates)
}

// Dates returns the days in ascending order.
func (s DateSet) Dates() []time.Time {
	out := make([]time.Time, 0, len(s.dates))
	for d := range s.dates {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
