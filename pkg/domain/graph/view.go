package graph

import (
	"fmt"

	"github.com/felixgeelhaar/juggler/pkg/domain/calendar"
)

// ProjectEntry is a project as seen by the engine adapters.
type ProjectEntry struct {
	Project  *Project
	Token    string
	Calendar *calendar.Calendar
	Tasks    []*TaskEntry // depth first, parents before descendants
	Bookings []BookingEntry
}

// TaskEntry is a task with its position in the hierarchy resolved.
type TaskEntry struct {
	Task      *Task
	Project   *ProjectEntry
	Parent    *TaskEntry
	Token     string
	Path      string // dotted token path from the project root
	Depth     int
	Resources []*ResourceEntry
	DependsOn []*TaskEntry
}

// ResourceEntry is a deduplicated resource.
type ResourceEntry struct {
	Resource *Resource
	Token    string
}

// BookingEntry is a booking with its task and resource resolved.
type BookingEntry struct {
	Booking  Booking
	Task     *TaskEntry
	Resource *ResourceEntry
}

// Edge is a dependency: To cannot start before From has ended.
type Edge struct {
	From *TaskEntry
	To   *TaskEntry
}

// View is a read-only, ordered traversal of a set of projects. Building a
// view validates the graph; a View is never partially valid.
type View struct {
	projects  []*ProjectEntry
	resources []*ResourceEntry
	tasks     []*TaskEntry
	byToken   map[string]any
}

// NewView validates projects and resolves their structure. Projects without
// a calendar use defaultCal, or calendar.Standard() when that is nil.
func NewView(projects []*Project, defaultCal *calendar.Calendar) (*View, error) {
	if defaultCal == nil {
		defaultCal = calendar.Standard()
	}

	v := &View{byToken: make(map[string]any)}

	pool, err := resourcePool(projects)
	if err != nil {
		return nil, err
	}

	tasksByID := make(map[string]*TaskEntry)
	resourcesByID := make(map[string]*ResourceEntry)

	for _, p := range projects {
		if p.ID == "" {
			return nil, &GraphError{Entity: fmt.Sprintf("project %q", p.Name), Err: ErrMissingID}
		}

		pe := &ProjectEntry{
			Project:  p,
			Token:    Token(KindProject, p.ID),
			Calendar: p.Calendar,
		}
		if pe.Calendar == nil {
			pe.Calendar = defaultCal
		}
		if err := v.register(pe.Token, pe); err != nil {
			return nil, err
		}

		parents := make(map[*Task]*TaskEntry)
		err := Walk(p.Tasks, func(t *Task, parent *Task, depth int) error {
			if t.ID == "" {
				return &GraphError{Entity: fmt.Sprintf("task %q", t.Name), Err: ErrMissingID}
			}

			te := &TaskEntry{
				Task:    t,
				Project: pe,
				Parent:  parents[parent],
				Token:   Token(KindTask, t.ID),
				Depth:   depth,
			}
			if te.Parent != nil {
				te.Path = te.Parent.Path + "." + te.Token
			} else {
				te.Path = pe.Token + "." + te.Token
			}
			if err := v.register(te.Token, te); err != nil {
				return err
			}

			for _, resID := range t.Resources {
				re, err := v.resolveResource(resID, pool, resourcesByID)
				if err != nil {
					return &GraphError{Entity: te.Token, Err: err}
				}
				te.Resources = append(te.Resources, re)
			}

			parents[t] = te
			tasksByID[t.ID] = te
			pe.Tasks = append(pe.Tasks, te)
			v.tasks = append(v.tasks, te)
			return nil
		})
		if err != nil {
			return nil, err
		}

		v.projects = append(v.projects, pe)
	}

	for _, te := range v.tasks {
		for _, depID := range te.Task.DependsOn {
			dep, ok := tasksByID[depID]
			if !ok {
				return nil, &GraphError{
					Entity: te.Token,
					Err:    fmt.Errorf("%w: %s", ErrUnknownDependency, depID),
				}
			}
			te.DependsOn = append(te.DependsOn, dep)
		}
	}

	for _, pe := range v.projects {
		for _, b := range pe.Project.Bookings {
			te, ok := tasksByID[b.TaskID]
			if !ok {
				return nil, &GraphError{
					Entity: pe.Token,
					Err:    fmt.Errorf("%w: booking task %s", ErrUnknownDependency, b.TaskID),
				}
			}
			re, err := v.resolveResource(b.ResourceID, pool, resourcesByID)
			if err != nil {
				return nil, &GraphError{Entity: pe.Token, Err: err}
			}
			pe.Bookings = append(pe.Bookings, BookingEntry{Booking: b, Task: te, Resource: re})
		}
	}

	return v, nil
}

func resourcePool(projects []*Project) (map[string]*Resource, error) {
	pool := make(map[string]*Resource)
	for _, p := range projects {
		for _, r := range p.Resources {
			if r.ID == "" {
				return nil, &GraphError{Entity: fmt.Sprintf("resource %q", r.Name), Err: ErrMissingID}
			}
			if existing, ok := pool[r.ID]; ok && existing.Name != r.Name {
				return nil, &GraphError{
					Entity: Token(KindResource, r.ID),
					Err:    fmt.Errorf("%w: %q vs %q", ErrConflictingResource, existing.Name, r.Name),
				}
			}
			pool[r.ID] = r
		}
	}
	return pool, nil
}

func (v *View) resolveResource(id string, pool map[string]*Resource, seen map[string]*ResourceEntry) (*ResourceEntry, error) {
	if re, ok := seen[id]; ok {
		return re, nil
	}
	r, ok := pool[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, id)
	}
	re := &ResourceEntry{Resource: r, Token: Token(KindResource, id)}
	if err := v.register(re.Token, re); err != nil {
		return nil, err
	}
	seen[id] = re
	v.resources = append(v.resources, re)
	return re, nil
}

func (v *View) register(token string, entity any) error {
	if _, exists := v.byToken[token]; exists {
		return &GraphError{Entity: token, Err: ErrDuplicateToken}
	}
	v.byToken[token] = entity
	return nil
}

// Projects returns the projects in input order.
func (v *View) Projects() []*ProjectEntry {
	return v.projects
}

// Tasks returns every task of every project, depth first per project.
func (v *View) Tasks() []*TaskEntry {
	return v.tasks
}

// Resources returns every allocated resource once, in first-use order.
func (v *View) Resources() []*ResourceEntry {
	return v.resources
}

// Dependencies returns all dependency edges in task order.
func (v *View) Dependencies() []Edge {
	var edges []Edge
	for _, te := range v.tasks {
		for _, dep := range te.DependsOn {
			edges = append(edges, Edge{From: dep, To: te})
		}
	}
	return edges
}

// Project looks up a project entry by token.
func (v *View) Project(token string) (*ProjectEntry, bool) {
	pe, ok := v.byToken[token].(*ProjectEntry)
	return pe, ok
}

// Task looks up a task entry by token.
func (v *View) Task(token string) (*TaskEntry, bool) {
	te, ok := v.byToken[token].(*TaskEntry)
	return te, ok
}

// ScheduledTokens lists the tokens the engine is expected to report:
// every project and every task.
func (v *View) ScheduledTokens() []string {
	tokens := make([]string, 0, len(v.projects)+len(v.tasks))
	for _, pe := range v.projects {
		tokens = append(tokens, pe.Token)
		for _, te := range pe.Tasks {
			tokens = append(tokens, te.Token)
		}
	}
	return tokens
}
