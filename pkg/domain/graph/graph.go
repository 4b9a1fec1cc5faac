// Package graph holds the project graph snapshot handed to the scheduler and
// the read-only view the engine adapters traverse.
package graph

import (
	"time"

	"github.com/felixgeelhaar/juggler/pkg/domain/calendar"
)

// Resource is someone or something work can be allocated to.
type Resource struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Task is a unit of work. Tasks with children are containers; the engine
// derives their interval from the children.
type Task struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Effort    Effort   `json:"effort,omitempty" yaml:"effort,omitempty"`
	Resources []string `json:"resources,omitempty" yaml:"resources,omitempty"` // IDs of allocated resources
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Children  []*Task  `json:"children,omitempty" yaml:"children,omitempty"`

	ComputedStart *time.Time `json:"computed_start,omitempty" yaml:"computed_start,omitempty"`
	ComputedEnd   *time.Time `json:"computed_end,omitempty" yaml:"computed_end,omitempty"`
}

// Booking records work already done on a task by a resource.
type Booking struct {
	TaskID     string    `json:"task_id" yaml:"task_id"`
	ResourceID string    `json:"resource_id" yaml:"resource_id"`
	Start      time.Time `json:"start" yaml:"start"`
	End        time.Time `json:"end" yaml:"end"`
}

// Project is the root of a task tree. Start and End are the requested bounds.
type Project struct {
	ID        string             `json:"id" yaml:"id"`
	Name      string             `json:"name" yaml:"name"`
	Start     time.Time          `json:"start" yaml:"start"`
	End       time.Time          `json:"end" yaml:"end"`
	Calendar  *calendar.Calendar `json:"calendar,omitempty" yaml:"calendar,omitempty"`
	Resources []*Resource        `json:"resources,omitempty" yaml:"resources,omitempty"`
	Tasks     []*Task            `json:"tasks,omitempty" yaml:"tasks,omitempty"`
	Bookings  []Booking          `json:"bookings,omitempty" yaml:"bookings,omitempty"`

	ComputedStart *time.Time `json:"computed_start,omitempty" yaml:"computed_start,omitempty"`
	ComputedEnd   *time.Time `json:"computed_end,omitempty" yaml:"computed_end,omitempty"`
}

// Snapshot is the set of projects scheduled together, as read from the data
// store. Now is the instant scheduling starts from.
type Snapshot struct {
	Now      time.Time  `json:"now" yaml:"now"`
	Projects []*Project `json:"projects" yaml:"projects"`
}

// Walk visits tasks depth first, parents before children.
func Walk(tasks []*Task, fn func(t *Task, parent *Task, depth int) error) error {
	var visit func(tasks []*Task, parent *Task, depth int) error
	visit = func(tasks []*Task, parent *Task, depth int) error {
		for _, t := range tasks {
			if err := fn(t, parent, depth); err != nil {
				return err
			}
			if err := visit(t.Children, t, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(tasks, nil, 0)
}
