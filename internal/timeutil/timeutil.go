package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, errors.New("empty duration string")
	}

	if dur, err := time.ParseDuration(s); err == nil {
		return dur, nil
	}

	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	numStr := s[:len(s)-1]
	unit := s[len(s)-1:]

	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration number: %s", numStr)
	}

	switch unit {
	case "d":
		return time.Duration(num) * 24 * time.Hour, nil
	case "w":
		return time.Duration(num) * 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}
}

// Window is a span relative to the moment it is evaluated, such as "-30d"
// for the last thirty days.
type Window struct {
	Offset time.Duration
}

func ParseWindow(s string) (Window, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "-") && !strings.HasPrefix(s, "+") {
		return Window{}, fmt.Errorf("window must start with + or -: %s", s)
	}
	dur, err := ParseDuration(s[1:])
	if err != nil {
		return Window{}, err
	}
	if dur == 0 {
		return Window{}, errors.New("window must not be empty")
	}
	if s[0] == '-' {
		dur = -dur
	}
	return Window{Offset: dur}, nil
}

// Bounds returns the earlier and the later end of the window at now.
func (w Window) Bounds(now time.Time) (time.Time, time.Time) {
	other := now.Add(w.Offset)
	if w.Offset < 0 {
		return other, now
	}
	return now, other
}
