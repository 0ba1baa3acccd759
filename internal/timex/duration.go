// Package timex holds time helpers for config files and backend payloads.
package timex

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration wraps time.Duration so JSON config files can write either a
// string such as "45s" or an integer number of nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration type %T", v)
	}
}

// FromUnix converts a claim timestamp into a time.Time. Values below 1e10 are
// treated as seconds and everything else as milliseconds, which is how
// issued-at and created-at fields arrive from the backend in practice.
func FromUnix(ts int64) time.Time {
	if ts < 10_000_000_000 {
		return time.Unix(ts, 0)
	}
	return time.UnixMilli(ts)
}

// Stamp is a loosely typed timestamp from the backend: a number of seconds
// or milliseconds (see FromUnix) or an RFC 3339 string.
type Stamp struct {
	time.Time
}

func (s Stamp) MarshalJSON() ([]byte, error) {
	if s.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(s.UnixMilli())
}

func (s *Stamp) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case nil:
		s.Time = time.Time{}
	case float64:
		s.Time = FromUnix(int64(value))
	case string:
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", value, err)
		}
		s.Time = parsed
	default:
		return fmt.Errorf("invalid timestamp type %T", v)
	}
	return nil
}
