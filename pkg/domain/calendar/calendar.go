// Package calendar models the organization's working-time grid and aligns
// timestamps onto it.
package calendar

import (
	"cmp"
	"slices"
	"time"

	goerrors "github.com/TudorHulban/go-errors"
)

// Defaults applied when a calendar leaves a field empty.
const (
	DefaultResolution        = time.Hour
	DefaultDailyWorkingHours = 8
	DefaultTimeFormat        = "%Y-%m-%d-%H:%M"
)

// Days lists the weekday keys in the order the engine expects them.
var Days = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

var dayKeys = map[time.Weekday]string{
	time.Monday:    "mon",
	time.Tuesday:   "tue",
	time.Wednesday: "wed",
	time.Thursday:  "thu",
	time.Friday:    "fri",
	time.Saturday:  "sat",
	time.Sunday:    "sun",
}

// Calendar describes when work may happen.
// A weekday missing from WorkingHours, or mapped to no windows, is off.
type Calendar struct {
	Resolution        time.Duration       `json:"timing_resolution" yaml:"timing_resolution"`
	DailyWorkingHours float64             `json:"daily_working_hours" yaml:"daily_working_hours"`
	WeekStartsMonday  bool                `json:"week_starts_monday" yaml:"week_starts_monday"`
	WorkingHours      map[string][]Window `json:"working_hours" yaml:"working_hours"`
	TimeZone          string              `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	TimeFormat        string              `json:"timeformat,omitempty" yaml:"timeformat,omitempty"`
}

// Standard returns the Mon-Fri 09:30-18:30, 8h/day, 60 minute calendar.
func Standard() *Calendar {
	office := []Window{MustParseWindow("09:30-18:30")}
	return &Calendar{
		Resolution:        DefaultResolution,
		DailyWorkingHours: DefaultDailyWorkingHours,
		WeekStartsMonday:  true,
		WorkingHours: map[string][]Window{
			"mon": office,
			"tue": office,
			"wed": office,
			"thu": office,
			"fri": office,
		},
		TimeZone:   "UTC",
		TimeFormat: DefaultTimeFormat,
	}
}

// Validate reports the first structural problem with the calendar.
func (c *Calendar) Validate() error {
	if c == nil {
		return goerrors.ErrValidation{
			Caller: "Validate - Calendar",
			Issue: goerrors.ErrNilInput{
				InputName: "Calendar",
			},
		}
	}

	res := c.TimingResolution()
	if res < time.Minute || res%time.Minute != 0 || (24*time.Hour)%res != 0 {
		return goerrors.ErrValidation{
			Caller: "Validate - Calendar",
			Issue: goerrors.ErrInvalidInput{
				InputName: "Resolution",
			},
		}
	}

	if c.DailyWorkingHours < 0 || c.DailyWorkingHours > 24 {
		return goerrors.ErrValidation{
			Caller: "Validate - Calendar",
			Issue: goerrors.ErrInvalidInput{
				InputName: "DailyWorkingHours",
			},
		}
	}

	if _, err := c.loadLocation(); err != nil {
		return goerrors.ErrValidation{
			Caller: "Validate - Calendar",
			Issue: goerrors.ErrInvalidInput{
				InputName: "TimeZone",
			},
		}
	}

	if err := ValidateTimeFormat(c.Format()); err != nil {
		return goerrors.ErrValidation{
			Caller: "Validate - Calendar",
			Issue: goerrors.ErrInvalidInput{
				InputName: "TimeFormat",
			},
		}
	}

	working := 0
	for key := range c.WorkingHours {
		if !slices.Contains(Days, key) {
			return goerrors.ErrValidation{
				Caller: "Validate - Calendar",
				Issue: goerrors.ErrInvalidInput{
					InputName: "WorkingHours." + key,
				},
			}
		}
	}
	for _, day := range Days {
		windows := c.Windows(day)
		for i, w := range windows {
			overlapsPrevious := i > 0 && w.Start <= windows[i-1].End
			if w.Start >= w.End || overlapsPrevious {
				return goerrors.ErrValidation{
					Caller: "Validate - Calendar",
					Issue: goerrors.ErrInvalidInput{
						InputName: "WorkingHours." + day,
					},
				}
			}
		}
		working += len(windows)
	}
	if working == 0 {
		return goerrors.ErrValidation{
			Caller: "Validate - Calendar",
			Issue: goerrors.ErrNilInput{
				InputName: "WorkingHours",
			},
		}
	}

	return nil
}

// TimingResolution returns the grid granularity, defaulting to one hour.
func (c *Calendar) TimingResolution() time.Duration {
	if c.Resolution <= 0 {
		return DefaultResolution
	}
	return c.Resolution
}

// WorkingHoursPerDay returns the daily working hour count, defaulting to 8.
func (c *Calendar) WorkingHoursPerDay() float64 {
	if c.DailyWorkingHours <= 0 {
		return DefaultDailyWorkingHours
	}
	return c.DailyWorkingHours
}

// Format returns the strftime style timestamp format used in reports.
func (c *Calendar) Format() string {
	if c.TimeFormat == "" {
		return DefaultTimeFormat
	}
	return c.TimeFormat
}

// Windows returns the working windows of a weekday key sorted by start.
func (c *Calendar) Windows(day string) []Window {
	windows := slices.Clone(c.WorkingHours[day])
	slices.SortFunc(windows, func(a, b Window) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return windows
}

// Location resolves TimeZone, falling back to UTC.
func (c *Calendar) Location() *time.Location {
	loc, err := c.loadLocation()
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Calendar) loadLocation() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "UTC" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.TimeZone)
}

// DayKey returns the WorkingHours key for a weekday.
func DayKey(d time.Weekday) string {
	return dayKeys[d]
}
