package plandoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Older files and model drafts write durations as 2.0 or "3". Both keys are
// read leniently; fractional values are truncated.

func (t *TaskDoc) UnmarshalJSON(data []byte) error {
	type plain TaskDoc
	aux := struct {
		*plain
		DurationDays json.RawMessage `json:"durationDays"`
		Duration     json.RawMessage `json:"duration"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if t.DurationDays, err = parseDays("durationDays", aux.DurationDays); err != nil {
		return err
	}
	t.Duration, err = parseDays("duration", aux.Duration)
	return err
}

func (s *SubtaskDoc) UnmarshalJSON(data []byte) error {
	type plain SubtaskDoc
	aux := struct {
		*plain
		DurationDays json.RawMessage `json:"durationDays"`
		Duration     json.RawMessage `json:"duration"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if s.DurationDays, err = parseDays("durationDays", aux.DurationDays); err != nil {
		return err
	}
	s.Duration, err = parseDays("duration", aux.Duration)
	return err
}

// parseDays accepts a JSON number or a numeric string. Absent and null
// yield nil.
func parseDays(key string, raw json.RawMessage) (*int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		text = strings.TrimSpace(text)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return nil, fmt.Errorf("%s: %s is not a number of days", key, raw)
	}
	return Ptr(int(f)), nil
}
