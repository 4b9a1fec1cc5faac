package calendar_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/felixgeelhaar/juggler/pkg/domain/calendar"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCalendar_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *calendar.Calendar)
		wantErr bool
	}{
		{"standard is valid", func(c *calendar.Calendar) {}, false},
		{"zero resolution falls back to default", func(c *calendar.Calendar) { c.Resolution = 0 }, false},
		{"resolution must divide a day", func(c *calendar.Calendar) { c.Resolution = 7 * time.Minute }, true},
		{"sub-minute resolution", func(c *calendar.Calendar) { c.Resolution = 30 * time.Second }, true},
		{"daily hours out of range", func(c *calendar.Calendar) { c.DailyWorkingHours = 25 }, true},
		{"unknown day key", func(c *calendar.Calendar) {
			c.WorkingHours["xyz"] = []calendar.Window{calendar.MustParseWindow("09:00-10:00")}
		}, true},
		{"inverted window", func(c *calendar.Calendar) {
			c.WorkingHours["mon"] = []calendar.Window{calendar.MustParseWindow("18:00-09:00")}
		}, true},
		{"overlapping windows", func(c *calendar.Calendar) {
			c.WorkingHours["mon"] = []calendar.Window{
				calendar.MustParseWindow("09:00-12:00"),
				calendar.MustParseWindow("11:00-13:00"),
			}
		}, true},
		{"no working time", func(c *calendar.Calendar) { c.WorkingHours = nil }, true},
		{"bad time format", func(c *calendar.Calendar) { c.TimeFormat = "%Q" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := calendar.Standard()
			tt.mutate(cal)
			err := cal.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCalendar_NilValidate(t *testing.T) {
	var cal *calendar.Calendar
	require.Error(t, cal.Validate())
}

func TestCalendar_WindowsSorted(t *testing.T) {
	cal := calendar.Standard()
	cal.WorkingHours["mon"] = []calendar.Window{
		calendar.MustParseWindow("13:00-17:00"),
		calendar.MustParseWindow("08:00-12:00"),
	}

	windows := cal.Windows("mon")
	require.Len(t, windows, 2)
	require.Equal(t, "08:00 - 12:00", windows[0].String())
	require.Empty(t, cal.Windows("sun"))
}

func TestCalendar_YAML(t *testing.T) {
	doc := `
timing_resolution: 30m
daily_working_hours: 7.5
week_starts_monday: false
working_hours:
  mon: ["08:00-12:00", "13:00-16:30"]
  sat: []
timezone: UTC
`
	var cal calendar.Calendar
	require.NoError(t, yaml.Unmarshal([]byte(doc), &cal))
	require.Equal(t, 30*time.Minute, cal.Resolution)
	require.Equal(t, 7.5, cal.WorkingHoursPerDay())
	require.Len(t, cal.Windows("mon"), 2)
	require.Equal(t, calendar.Clock(16*60+30), cal.Windows("mon")[1].End)
	require.Empty(t, cal.Windows("sat"))
	require.Equal(t, calendar.DefaultTimeFormat, cal.Format())
	require.NoError(t, cal.Validate())
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    calendar.Clock
		wantErr bool
	}{
		{"09:30", 570, false},
		{"9:05", 545, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := calendar.ParseClock(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestValidateTimeFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"%Y-%m-%d-%H:%M", false},
		{"%Y/%m/%d %H:%M:%S %%", false},
		{"%d.%m.%Y %I:%M %p", false},
		{"%Y-%m-%d", true},
		{"%Y-%m-%d-%H:%M%", true},
		{"%H:%M", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := calendar.ValidateTimeFormat(tt.format)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCalendar_FormatAndParseTime(t *testing.T) {
	cal := calendar.Standard()
	cal.TimeZone = "Europe/Istanbul"
	cal.TimeFormat = "%d.%m.%Y %H:%M"

	at := time.Date(2013, time.April, 4, 7, 0, 0, 0, time.UTC)
	require.Equal(t, "04.04.2013 10:00", cal.FormatTime(at))

	back, err := cal.ParseTime("04.04.2013 10:00")
	require.NoError(t, err)
	require.True(t, back.Equal(at), "got %v", back)

	_, err = cal.ParseTime("2013-04-04")
	require.Error(t, err)
}

func TestCalendar_JSON(t *testing.T) {
	cal := calendar.Standard()
	cal.Resolution = 30 * time.Minute
	cal.WorkingHours["sat"] = []calendar.Window{calendar.MustParseWindow("09:00-13:00")}

	data, err := json.Marshal(cal)
	require.NoError(t, err)
	require.Contains(t, string(data), `"timing_resolution":"30m0s"`)
	require.Contains(t, string(data), `"sat":["09:00-13:00"]`)

	var back calendar.Calendar
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, 30*time.Minute, back.Resolution)
	require.Equal(t, cal.Windows("sat"), back.Windows("sat"))
	require.True(t, back.WeekStartsMonday)

	var short calendar.Calendar
	require.NoError(t, json.Unmarshal([]byte(`{"timing_resolution":"15m","working_hours":{"mon":["09:00-17:00"]}}`), &short))
	require.Equal(t, 15*time.Minute, short.TimingResolution())
	require.NoError(t, short.Validate())

	require.Error(t, json.Unmarshal([]byte(`{"timing_resolution":"soon"}`), &short))
}
