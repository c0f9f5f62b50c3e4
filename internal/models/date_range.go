package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// DateRange is an inclusive calendar date interval. The end date covers the
// whole day, up to 23:59:59.999.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange truncates both bounds to their calendar date in UTC.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: DateOf(start), End: DateOf(end)}
}

// ParseDateRange parses optional start and end dates. A range is only
// produced when both bounds are given; otherwise the result is nil, meaning
// no filtering.
func ParseDateRange(start, end string) (*DateRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return nil, nil
	}
	s, ok := ParseDate(start)
	if !ok {
		return nil, fmt.Errorf("invalid start date %q", start)
	}
	e, ok := ParseDate(end)
	if !ok {
		return nil, fmt.Errorf("invalid end date %q", end)
	}
	r := NewDateRange(s, e)
	return &r, nil
}

// Contains reports whether t falls within the range, end of day inclusive.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.endOfDay())
}

// Days is the whole-day distance from Start to End.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start) / day)
}

// StartString formats the start date.
func (r DateRange) StartString() string {
	return r.Start.Format(DateLayout)
}

// EndString formats the end date.
func (r DateRange) EndString() string {
	return r.End.Format(DateLayout)
}

func (r DateRange) endOfDay() time.Time {
	return r.End.Add(day - time.Millisecond)
}

// DateOf returns midnight UTC of t's calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}
