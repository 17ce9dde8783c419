package contract

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Layouts accepted for a stage start time, tried in order.
var startTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Layouts accepted for a time of day, tried in order.
var clockLayouts = []string{
	"15:04:05.999999999",
	"15:04:05",
	"15:04",
}

// ParseStartTime parses an absolute stage start time. Layouts without a zone are UTC.
func ParseStartTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start time '%s'. Expected ISO8601 like 2026-07-01T09:00:00Z or '2026-07-01 09:00'", s)
}

// ParseCheckpointTimes parses the timestamps of a result.
//
// Each value is either absolute (RFC3339) or a time of day. A time of day is placed on
// the stage start date in the stage's zone, and moves to the next day whenever it would
// be earlier than the previous timestamp.
func ParseCheckpointTimes(stageStart time.Time, raw []string) ([]time.Time, error) {
	times := make([]time.Time, 0, len(raw))
	var prev time.Time
	for i, value := range raw {
		value = strings.TrimSpace(value)
		if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
			times = append(times, t)
			prev = t
			continue
		}

		clock, err := parseClock(value)
		if err != nil {
			return nil, fmt.Errorf("timestamp %d: %w", i+1, err)
		}
		y, m, d := stageStart.Date()
		t := time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), stageStart.Location())
		if !prev.IsZero() {
			for t.Before(prev) {
				t = t.Add(24 * time.Hour)
			}
		}
		times = append(times, t)
		prev = t
	}
	return times, nil
}

// parseClock parses a time of day.
func parseClock(s string) (time.Time, error) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time '%s'. Expected RFC3339 or HH:MM:SS[.fff]", s)
}
