package taskjuggler_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/juggler/pkg/domain/calendar"
	"github.com/felixgeelhaar/juggler/pkg/domain/schedule"
	"github.com/felixgeelhaar/juggler/pkg/engine/taskjuggler"
)

func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "breakdown.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParse_Tj3Report(t *testing.T) {
	path := writeReport(t, `"Id";"Start";"End"
"Project_1";"2013-04-04-10:00";"2013-04-08-17:00"
"Project_1.Task_10";"2013-04-04-10:00";"2013-04-08-17:00"
"Project_1.Task_10.Task_a_2Db";"2013-04-05-11:00";"2013-04-08-17:00"
`)

	got, err := taskjuggler.NewParser(nil).Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := schedule.Result{
		"Project_1":  {Start: day(4, 10, 0), End: day(8, 17, 0)},
		"Task_10":    {Start: day(4, 10, 0), End: day(8, 17, 0)},
		"Task_a_2Db": {Start: day(5, 11, 0), End: day(8, 17, 0)},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d: %v", len(got), len(want), got)
	}
	for tok, iv := range want {
		if !got[tok].Start.Equal(iv.Start) || !got[tok].End.Equal(iv.End) {
			t.Errorf("%s = %v, want %v", tok, got[tok], iv)
		}
	}
}

func TestParse_CommaAndCalendar(t *testing.T) {
	cal := calendar.Standard()
	cal.TimeFormat = "%Y/%m/%d %H:%M"
	cal.TimeZone = "Europe/Istanbul"

	path := writeReport(t, "id,start,end\nProject_1,2013/04/04 10:00,2013/04/08 17:00\n")
	got, err := taskjuggler.NewParser(cal).Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	loc, _ := time.LoadLocation("Europe/Istanbul")
	if want := time.Date(2013, 4, 4, 10, 0, 0, 0, loc); !got["Project_1"].Start.Equal(want) {
		t.Errorf("start = %v, want %v", got["Project_1"].Start, want)
	}
}

func TestParse_UnscheduledRowSkipped(t *testing.T) {
	path := writeReport(t, "\"Id\";\"Start\";\"End\"\n\"Project_1.Task_2\";\"\";\"\"\n")
	got, err := taskjuggler.NewParser(nil).Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := got["Task_2"]; ok {
		t.Error("row without timestamps should be left out")
	}
}

func TestParse_FormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		row     int
	}{
		{"empty", "", 0},
		{"wrong header", "\"Id\";\"Duration\"\n", 1},
		{"wrong column names", "\"Id\";\"Begin\";\"End\"\n", 1},
		{"short row", "id,start,end\nProject_1,2013-04-04-10:00\n", 2},
		{"bad timestamp", "id,start,end\nProject_1,2013-04-04 10:00,2013-04-08-17:00\n", 2},
		{"unknown kind", "id,start,end\nUser_1,2013-04-04-10:00,2013-04-08-17:00\n", 2},
		{"resource id", "id,start,end\nResource_u1,2013-04-04-10:00,2013-04-08-17:00\n", 2},
		{"bad escape", "id,start,end\nTask_a_G1,2013-04-04-10:00,2013-04-08-17:00\n", 2},
		{"escaped alphanumeric", "id,start,end\nProject__31.Task__33,2013-04-04-10:00,2013-04-08-17:00\n", 2},
		{"reversed", "id,start,end\nProject_1,2013-04-08-17:00,2013-04-04-10:00\n", 2},
		{"duplicate", "id,start,end\nProject_1,2013-04-04-10:00,2013-04-08-17:00\nProject_1,2013-04-04-10:00,2013-04-08-17:00\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := taskjuggler.NewParser(nil).Parse(writeReport(t, tt.content))
			if !errors.Is(err, schedule.ErrFormat) {
				t.Fatalf("expected format error, got %v", err)
			}
			var fe *schedule.FormatError
			if !errors.As(err, &fe) || fe.Row != tt.row {
				t.Errorf("row = %d, want %d (%v)", fe.Row, tt.row, err)
			}
		})
	}
}

func TestParse_MissingFile(t *testing.T) {
	_, err := taskjuggler.NewParser(nil).Parse(filepath.Join(t.TempDir(), "absent.csv"))
	if !errors.Is(err, schedule.ErrFormat) {
		t.Fatalf("missing report should be a format error, got %v", err)
	}
}
