package model

import (
	"fmt"
	"time"
)

// TimestampLayout is naive local ISO-8601, no zone suffix. It matches what
// ELD log viewers expect and round-trips through the frontend untouched.
const TimestampLayout = "2006-01-02T15:04:05"

// DateLayout keys daily logs.
const DateLayout = "2006-01-02"

// Timestamp is a time.Time that marshals as naive ISO-8601.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp { return Timestamp{t} }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(TimestampLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timestamp: invalid JSON string %s", s)
	}
	parsed, err := time.Parse(TimestampLayout, s[1:len(s)-1])
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t.Time = parsed
	return nil
}
