package graph

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// effortPattern matches effort strings like "50h", "2d", "1w", "30m" or a
// bare number of hours.
var effortPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(m|h|d|w)?$`)

// Conversion factors between effort units.
const (
	HoursPerDay = 8
	DaysPerWeek = 5
)

// Effort is the amount of work a task needs, independent of how many
// resources share it.
type Effort struct {
	raw      string
	duration time.Duration
}

// ParseEffort parses "30m", "4h", "2d", "1w" or a bare hour count like "50".
func ParseEffort(s string) (Effort, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Effort{}, nil
	}

	matches := effortPattern.FindStringSubmatch(s)
	if matches == nil {
		return Effort{}, fmt.Errorf("invalid effort format: %s (expected: 30m, 4h, 2d, 1w or hours)", s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return Effort{}, fmt.Errorf("invalid effort value: %s", matches[1])
	}

	var duration time.Duration
	switch matches[2] {
	case "m":
		duration = time.Duration(value * float64(time.Minute))
	case "", "h":
		duration = time.Duration(value * float64(time.Hour))
	case "d":
		duration = time.Duration(value * HoursPerDay * float64(time.Hour))
	case "w":
		duration = time.Duration(value * DaysPerWeek * HoursPerDay * float64(time.Hour))
	}

	return Effort{raw: s, duration: duration}, nil
}

// MustParseEffort parses an effort or panics. Use only in tests.
func MustParseEffort(s string) Effort {
	e, err := ParseEffort(s)
	if err != nil {
		panic(err)
	}
	return e
}

// Hours builds an effort from an hour count.
func Hours(h float64) Effort {
	return Effort{
		raw:      strconv.FormatFloat(h, 'f', -1, 64) + "h",
		duration: time.Duration(h * float64(time.Hour)),
	}
}

func (e Effort) String() string {
	return e.raw
}

func (e Effort) Duration() time.Duration {
	return e.duration
}

func (e Effort) Hours() float64 {
	return e.duration.Hours()
}

func (e Effort) IsZero() bool {
	return e.duration == 0
}

func (e Effort) MarshalText() ([]byte, error) {
	return []byte(e.raw), nil
}

func (e *Effort) UnmarshalText(text []byte) error {
	parsed, err := ParseEffort(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// UnmarshalYAML accepts both quoted strings and plain numbers.
func (e *Effort) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: effort must be a scalar", node.Line)
	}
	return e.UnmarshalText([]byte(node.Value))
}

// UnmarshalJSON accepts both "50h" and 50.
func (e *Effort) UnmarshalJSON(data []byte) error {
	return e.UnmarshalText([]byte(strings.Trim(string(data), `"`)))
}
