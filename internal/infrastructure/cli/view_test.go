package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/juggler/pkg/application"
	"github.com/felixgeelhaar/juggler/pkg/domain/graph"
)

func viewProjects() []*graph.Project {
	start := time.Date(2013, 4, 4, 10, 0, 0, 0, time.UTC)
	end := time.Date(2013, 4, 8, 17, 0, 0, 0, time.UTC)
	return []*graph.Project{{
		ID:            "1",
		Name:          "Test Project 1",
		ComputedStart: &start,
		ComputedEnd:   &end,
		Tasks: []*graph.Task{
			{ID: "10", Name: "Asset Build", ComputedStart: &start, ComputedEnd: &end, Children: []*graph.Task{
				{ID: "11", Name: "Model", ComputedStart: &start, ComputedEnd: &end},
				{ID: "12", Name: "Rig"},
			}},
		},
	}}
}

func TestScheduleRows(t *testing.T) {
	rows := scheduleRows(viewProjects())
	if len(rows) != 4 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].Kind != "project" || rows[1].Kind != "task" {
		t.Errorf("kinds = %s, %s", rows[0].Kind, rows[1].Kind)
	}
	if rows[2].Name != "    Model" {
		t.Errorf("child not indented: %q", rows[2].Name)
	}
	if rows[0].Start != "2013-04-04 10:00" || rows[3].Start != "-" {
		t.Errorf("starts = %q, %q", rows[0].Start, rows[3].Start)
	}
}

func TestViewModel(t *testing.T) {
	outcome := &application.Outcome{RunID: "run-1", Engine: "taskjuggler", State: "reconciled"}
	m := newViewModel("snapshot.yaml", viewProjects(), outcome)

	if m.unscheduled != 1 {
		t.Errorf("unscheduled = %d", m.unscheduled)
	}
	if got := len(m.table.Rows()); got != 4 {
		t.Errorf("table rows = %d", got)
	}

	view := m.View()
	for _, want := range []string{"snapshot.yaml", "run-1", "1 entities without computed intervals", "[q] Quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestViewModel_NoOutcome(t *testing.T) {
	m := newViewModel("snapshot.yaml", nil, nil)
	if !strings.Contains(m.View(), "Not scheduled in this session") {
		t.Error("missing run placeholder")
	}
}
