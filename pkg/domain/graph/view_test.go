package graph_test

import (
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/juggler/pkg/domain/graph"
)

func sampleProjects() []*graph.Project {
	return []*graph.Project{
		{
			ID:    "1",
			Name:  "Commercial",
			Start: time.Date(2013, 4, 4, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2013, 5, 4, 0, 0, 0, 0, time.UTC),
			Resources: []*graph.Resource{
				{ID: "u1", Name: "User1"},
				{ID: "u2", Name: "User2"},
				{ID: "u3", Name: "User3"},
			},
			Tasks: []*graph.Task{
				{
					ID:   "10",
					Name: "Asset Build",
					Children: []*graph.Task{
						{ID: "11", Name: "Model", Effort: graph.Hours(10), Resources: []string{"u2"}},
						{ID: "12", Name: "Rig", Effort: graph.Hours(5), Resources: []string{"u2", "u1"}, DependsOn: []string{"11"}},
					},
				},
				{ID: "20", Name: "Comp", Effort: graph.Hours(8), Resources: []string{"u1"}, DependsOn: []string{"12"}},
			},
		},
		{
			ID:        "2",
			Name:      "Feature",
			Resources: []*graph.Resource{{ID: "u1", Name: "User1"}},
			Tasks: []*graph.Task{
				{ID: "30", Name: "Layout", Effort: graph.Hours(4), Resources: []string{"u1"}, DependsOn: []string{"20"}},
			},
		},
	}
}

func TestNewView_Order(t *testing.T) {
	v, err := graph.NewView(sampleProjects(), nil)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}

	var paths []string
	for _, te := range v.Tasks() {
		paths = append(paths, te.Path)
	}
	want := []string{
		"Project_1.Task_10",
		"Project_1.Task_10.Task_11",
		"Project_1.Task_10.Task_12",
		"Project_1.Task_20",
		"Project_2.Task_30",
	}
	if len(paths) != len(want) {
		t.Fatalf("got %d tasks, want %d: %v", len(paths), len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("task %d path = %q, want %q", i, paths[i], want[i])
		}
	}

	if got := v.Tasks()[1].Depth; got != 1 {
		t.Errorf("child depth = %d, want 1", got)
	}
	if v.Tasks()[1].Parent != v.Tasks()[0] {
		t.Error("child parent not resolved")
	}
	if len(v.Projects()) != 2 || len(v.Projects()[0].Tasks) != 4 {
		t.Errorf("unexpected project split")
	}
}

func TestNewView_ResourcesDeduplicated(t *testing.T) {
	v, err := graph.NewView(sampleProjects(), nil)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}

	var tokens []string
	for _, re := range v.Resources() {
		tokens = append(tokens, re.Token)
	}
	// u3 is in the pool but never allocated; u2 is used first.
	want := []string{"Resource_u2", "Resource_u1"}
	if len(tokens) != len(want) || tokens[0] != want[0] || tokens[1] != want[1] {
		t.Fatalf("resources = %v, want %v", tokens, want)
	}

	rig, ok := v.Task("Task_12")
	if !ok {
		t.Fatal("Task_12 not found")
	}
	if len(rig.Resources) != 2 || rig.Resources[0] != v.Resources()[0] {
		t.Error("task resources should share the deduplicated entries")
	}
}

func TestNewView_Dependencies(t *testing.T) {
	v, err := graph.NewView(sampleProjects(), nil)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}

	edges := v.Dependencies()
	if len(edges) != 3 {
		t.Fatalf("got %d edges, want 3", len(edges))
	}
	last := edges[2]
	if last.From.Token != "Task_20" || last.To.Token != "Task_30" {
		t.Errorf("cross project edge = %s -> %s", last.From.Token, last.To.Token)
	}
}

func TestNewView_DefaultCalendar(t *testing.T) {
	v, err := graph.NewView(sampleProjects(), nil)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	for _, pe := range v.Projects() {
		if pe.Calendar == nil {
			t.Fatalf("project %s has no calendar", pe.Token)
		}
	}
}

func TestNewView_ScheduledTokens(t *testing.T) {
	v, err := graph.NewView(sampleProjects(), nil)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	got := v.ScheduledTokens()
	want := []string{"Project_1", "Task_10", "Task_11", "Task_12", "Task_20", "Project_2", "Task_30"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNewView_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(ps []*graph.Project)
		wantErr error
	}{
		{
			name: "unreachable resource",
			mutate: func(ps []*graph.Project) {
				ps[1].Tasks[0].Resources = []string{"ghost"}
			},
			wantErr: graph.ErrUnknownResource,
		},
		{
			name: "unknown dependency",
			mutate: func(ps []*graph.Project) {
				ps[1].Tasks[0].DependsOn = []string{"404"}
			},
			wantErr: graph.ErrUnknownDependency,
		},
		{
			name: "duplicate task id",
			mutate: func(ps []*graph.Project) {
				ps[1].Tasks[0].ID = "11"
			},
			wantErr: graph.ErrDuplicateToken,
		},
		{
			name: "duplicate project id",
			mutate: func(ps []*graph.Project) {
				ps[1].ID = "1"
			},
			wantErr: graph.ErrDuplicateToken,
		},
		{
			name: "conflicting resource names",
			mutate: func(ps []*graph.Project) {
				ps[1].Resources[0].Name = "Somebody Else"
			},
			wantErr: graph.ErrConflictingResource,
		},
		{
			name: "missing task id",
			mutate: func(ps []*graph.Project) {
				ps[0].Tasks[0].Children[0].ID = ""
			},
			wantErr: graph.ErrMissingID,
		},
		{
			name: "booking on unknown resource",
			mutate: func(ps []*graph.Project) {
				ps[0].Bookings = []graph.Booking{{TaskID: "11", ResourceID: "ghost"}}
			},
			wantErr: graph.ErrUnknownResource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := sampleProjects()
			tt.mutate(ps)
			_, err := graph.NewView(ps, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, graph.ErrInvalidGraph) {
				t.Errorf("error %v is not a graph error", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error %v does not match %v", err, tt.wantErr)
			}
			var ge *graph.GraphError
			if !errors.As(err, &ge) || ge.Entity == "" {
				t.Errorf("expected GraphError with entity, got %#v", err)
			}
		})
	}
}

func TestNewView_SameNameDifferentIDs(t *testing.T) {
	ps := sampleProjects()
	ps[0].Tasks[1].Name = "Model"
	v, err := graph.NewView(ps, nil)
	if err != nil {
		t.Fatalf("tasks sharing a name must not collide: %v", err)
	}
	if _, ok := v.Task("Task_20"); !ok {
		t.Error("Task_20 missing")
	}
}
