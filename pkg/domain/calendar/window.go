package calendar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// clockPattern matches wall clock values like "09:30" or "24:00".
var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// Clock is a wall clock time of day in minutes after midnight.
type Clock int

const minutesPerDay = 24 * 60

// ParseClock parses "hh:mm". "24:00" is accepted as the end of a day.
func ParseClock(s string) (Clock, error) {
	matches := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return 0, fmt.Errorf("invalid clock format: %q (expected hh:mm)", s)
	}

	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	if minutes > 59 {
		return 0, fmt.Errorf("invalid clock minutes: %q", s)
	}

	c := Clock(hours*60 + minutes)
	if c > minutesPerDay {
		return 0, fmt.Errorf("clock out of range: %q", s)
	}
	return c, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Window is a working interval inside one day, inclusive on both ends.
type Window struct {
	Start Clock
	End   Clock
}

// ParseWindow parses "09:30-18:30" (spaces around the dash are allowed).
func ParseWindow(s string) (Window, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Window{}, fmt.Errorf("invalid working window: %q (expected hh:mm-hh:mm)", s)
	}

	start, err := ParseClock(parts[0])
	if err != nil {
		return Window{}, err
	}
	end, err := ParseClock(parts[1])
	if err != nil {
		return Window{}, err
	}

	return Window{Start: start, End: end}, nil
}

// MustParseWindow parses a window or panics. Use only for literals.
func MustParseWindow(s string) Window {
	w, err := ParseWindow(s)
	if err != nil {
		panic(err)
	}
	return w
}

func (w Window) String() string {
	return w.Start.String() + " - " + w.End.String()
}

// MarshalText renders the compact "hh:mm-hh:mm" form used in config files.
func (w Window) MarshalText() ([]byte, error) {
	return []byte(w.Start.String() + "-" + w.End.String()), nil
}

func (w *Window) UnmarshalText(text []byte) error {
	parsed, err := ParseWindow(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
