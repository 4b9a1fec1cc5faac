package taskjuggler

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/felixgeelhaar/juggler/pkg/domain/calendar"
	"github.com/felixgeelhaar/juggler/pkg/domain/graph"
	"github.com/felixgeelhaar/juggler/pkg/domain/schedule"
)

var reportColumns = []string{"id", "start", "end"}

// Parser reads the id/start/end CSV report tj3 writes.
type Parser struct {
	// Calendar supplies the timestamp format and the zone timestamps are
	// read in.
	Calendar *calendar.Calendar
}

// NewParser returns a parser for reports written with cal's time format.
func NewParser(cal *calendar.Calendar) *Parser {
	if cal == nil {
		cal = calendar.Standard()
	}
	return &Parser{Calendar: cal}
}

// Parse reads the report at path. Rows are keyed by the last segment of the
// dotted id, which is the entity's own token. Rows with both timestamps
// empty are skipped, leaving the entity unscheduled.
func (p *Parser) Parse(path string) (schedule.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &schedule.FormatError{Path: path, Err: err}
	}
	return p.parse(path, data)
}

func (p *Parser) parse(path string, data []byte) (schedule.Result, error) {
	if err := calendar.ValidateTimeFormat(p.Calendar.Format()); err != nil {
		return nil, &schedule.FormatError{Path: path, Err: err}
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delimiter(data)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &schedule.FormatError{Path: path, Err: errors.New("empty report")}
	}
	if err != nil {
		return nil, &schedule.FormatError{Path: path, Row: 1, Err: err}
	}
	if !isReportHeader(header) {
		return nil, &schedule.FormatError{
			Path: path,
			Row:  1,
			Err:  fmt.Errorf("unexpected columns %q, want %q", header, reportColumns),
		}
	}

	result := make(schedule.Result)
	for row := 2; ; row++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &schedule.FormatError{Path: path, Row: row, Err: err}
		}
		if len(record) != len(reportColumns) {
			return nil, &schedule.FormatError{
				Path: path,
				Row:  row,
				Err:  fmt.Errorf("expected %d fields, got %d", len(reportColumns), len(record)),
			}
		}

		token, err := entityToken(record[0])
		if err != nil {
			return nil, &schedule.FormatError{Path: path, Row: row, Err: err}
		}
		if _, dup := result[token]; dup {
			return nil, &schedule.FormatError{Path: path, Row: row, Err: fmt.Errorf("duplicate row for %s", token)}
		}

		rawStart, rawEnd := strings.TrimSpace(record[1]), strings.TrimSpace(record[2])
		if rawStart == "" && rawEnd == "" {
			continue
		}
		start, err := p.Calendar.ParseTime(rawStart)
		if err != nil {
			return nil, &schedule.FormatError{Path: path, Row: row, Err: fmt.Errorf("start: %w", err)}
		}
		end, err := p.Calendar.ParseTime(rawEnd)
		if err != nil {
			return nil, &schedule.FormatError{Path: path, Row: row, Err: fmt.Errorf("end: %w", err)}
		}
		if end.Before(start) {
			return nil, &schedule.FormatError{Path: path, Row: row, Err: fmt.Errorf("%s ends before it starts", token)}
		}

		result[token] = schedule.Interval{Start: start, End: end}
	}

	return result, nil
}

// delimiter picks ';' when the header line uses it, as tj3 does, and ','
// otherwise.
func delimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.IndexByte(line, ';') >= 0 {
		return ';'
	}
	return ','
}

func isReportHeader(header []string) bool {
	if len(header) != len(reportColumns) {
		return false
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(col), reportColumns[i]) {
			return false
		}
	}
	return true
}

// entityToken validates a dotted report id and returns its last segment.
func entityToken(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("empty id")
	}
	segments := strings.Split(id, ".")
	for _, seg := range segments {
		kind, _, err := graph.ParseToken(seg)
		if err != nil {
			return "", fmt.Errorf("id %q: %w", id, err)
		}
		if kind != graph.KindProject && kind != graph.KindTask {
			return "", fmt.Errorf("id %q: unexpected %s segment", id, kind)
		}
	}
	return segments[len(segments)-1], nil
}
