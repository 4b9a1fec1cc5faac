package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/itchyny/timefmt-go"
)

// referenceInstant carries a distinct value in every field a report timestamp
// needs, down to the minute.
var referenceInstant = time.Date(2013, time.April, 4, 17, 45, 0, 0, time.UTC)

// ValidateTimeFormat checks that format is a strftime format whose output
// parses back to the same minute.
func ValidateTimeFormat(format string) error {
	if format == "" {
		return fmt.Errorf("empty time format")
	}
	if strings.HasSuffix(strings.ReplaceAll(format, "%%", ""), "%") {
		return fmt.Errorf("dangling %% in time format %q", format)
	}

	back, err := timefmt.Parse(timefmt.Format(referenceInstant, format), format)
	if err != nil {
		return fmt.Errorf("time format %q: %w", format, err)
	}
	if !back.Equal(referenceInstant) {
		return fmt.Errorf("time format %q does not resolve to the minute", format)
	}
	return nil
}

// FormatTime renders t in the calendar's zone with its report time format.
func (c *Calendar) FormatTime(t time.Time) string {
	return timefmt.Format(t.In(c.Location()), c.Format())
}

// ParseTime reads a report timestamp in the calendar's zone.
func (c *Calendar) ParseTime(value string) (time.Time, error) {
	return timefmt.ParseInLocation(value, c.Format(), c.Location())
}
