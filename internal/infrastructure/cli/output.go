package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/juggler/pkg/application"
	"github.com/felixgeelhaar/juggler/pkg/domain/graph"
)

const displayLayout = "2006-01-02 15:04"

// Styles
var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var (
	columnStyle = lipgloss.NewStyle().Bold(true)
	projectRow  = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// scheduleRow is one line of the schedule table.
type scheduleRow struct {
	Kind  string
	ID    string
	Name  string
	Start string
	End   string
}

// scheduleRows flattens projects and their task trees, indenting task names
// by depth.
func scheduleRows(projects []*graph.Project) []scheduleRow {
	var rows []scheduleRow
	for _, p := range projects {
		rows = append(rows, scheduleRow{
			Kind:  kindLabel(graph.KindProject),
			ID:    p.ID,
			Name:  p.Name,
			Start: formatComputed(p.ComputedStart),
			End:   formatComputed(p.ComputedEnd),
		})
		_ = graph.Walk(p.Tasks, func(t *graph.Task, _ *graph.Task, depth int) error {
			rows = append(rows, scheduleRow{
				Kind:  kindLabel(graph.KindTask),
				ID:    t.ID,
				Name:  strings.Repeat("  ", depth+1) + t.Name,
				Start: formatComputed(t.ComputedStart),
				End:   formatComputed(t.ComputedEnd),
			})
			return nil
		})
	}
	return rows
}

func kindLabel(k graph.Kind) string {
	return strings.ToLower(string(k))
}

func formatComputed(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(displayLayout)
}

func renderSchedule(w io.Writer, outcome *application.Outcome, projects []*graph.Project) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Schedule %s", outcome.RunID)))
	fmt.Fprintf(w, "Engine: %s  State: %s  Took: %s\n\n", outcome.Engine, outcome.State, outcome.Duration.Round(time.Millisecond))

	rows := scheduleRows(projects)
	header := scheduleRow{Kind: "KIND", ID: "ID", Name: "NAME", Start: "START", End: "END"}

	widths := [3]int{len(header.Kind), len(header.ID), len(header.Name)}
	for _, r := range rows {
		widths[0] = max(widths[0], len(r.Kind))
		widths[1] = max(widths[1], len(r.ID))
		widths[2] = max(widths[2], len(r.Name))
	}

	line := func(r scheduleRow) string {
		return fmt.Sprintf("%-*s  %-*s  %-*s  %-16s  %s", widths[0], r.Kind, widths[1], r.ID, widths[2], r.Name, r.Start, r.End)
	}

	fmt.Fprintln(w, columnStyle.Render(line(header)))
	for _, r := range rows {
		text := line(r)
		if r.Kind == kindLabel(graph.KindProject) {
			text = projectRow.Render(text)
		}
		fmt.Fprintln(w, text)
	}

	if outcome.Report == nil {
		return
	}
	if len(outcome.Report.Unscheduled) == 0 {
		fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("\n%d entities scheduled", len(outcome.Report.Updated))))
		return
	}
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("\n%d entities not scheduled by the engine:", len(outcome.Report.Unscheduled))))
	for _, ref := range outcome.Report.Unscheduled {
		fmt.Fprintf(w, "  - %s %s (%s)\n", kindLabel(ref.Kind), ref.ID, ref.Name)
	}
}

func renderDiagnostics(w io.Writer, outcome *application.Outcome) {
	if outcome == nil || strings.TrimSpace(outcome.Diagnostics) == "" {
		return
	}
	fmt.Fprintln(w, errStyle.Render("Engine diagnostics:"))
	fmt.Fprintln(w, strings.TrimRight(outcome.Diagnostics, "\n"))
}
