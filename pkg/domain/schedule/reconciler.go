package schedule

import (
	"time"

	"github.com/felixgeelhaar/juggler/pkg/domain/calendar"
	"github.com/felixgeelhaar/juggler/pkg/domain/graph"
)

// EntityRef names a project or task in a reconcile report.
type EntityRef struct {
	Kind  graph.Kind `json:"kind"`
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Token string     `json:"token"`
}

// Report describes what a reconciliation changed.
type Report struct {
	Updated     []EntityRef         `json:"updated"`
	Unscheduled []EntityRef         `json:"unscheduled"`
	Intervals   map[string]Interval `json:"intervals"` // token -> rounded interval
}

// Reconciler writes engine results back onto the graph.
type Reconciler struct{}

func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Apply rounds every reported interval through the owning project's calendar
// and writes it to the entity's computed fields. Entities missing from the
// result are listed as unscheduled and left untouched. The rounded schedule
// is checked for dependency and containment violations first; on violation
// nothing is written.
func (r *Reconciler) Apply(result Result, view *graph.View) (*Report, error) {
	report := &Report{Intervals: make(map[string]Interval)}

	for _, pe := range view.Projects() {
		ref := EntityRef{Kind: graph.KindProject, ID: pe.Project.ID, Name: pe.Project.Name, Token: pe.Token}
		r.plan(report, ref, result, pe.Calendar)

		for _, te := range pe.Tasks {
			taskRef := EntityRef{Kind: graph.KindTask, ID: te.Task.ID, Name: te.Task.Name, Token: te.Token}
			r.plan(report, taskRef, result, pe.Calendar)
		}
	}

	if violations := checkInvariants(report.Intervals, view); len(violations) > 0 {
		return nil, &ConsistencyError{Violations: violations}
	}

	for _, pe := range view.Projects() {
		if iv, ok := report.Intervals[pe.Token]; ok {
			pe.Project.ComputedStart, pe.Project.ComputedEnd = timePtr(iv.Start), timePtr(iv.End)
		}
		for _, te := range pe.Tasks {
			if iv, ok := report.Intervals[te.Token]; ok {
				te.Task.ComputedStart, te.Task.ComputedEnd = timePtr(iv.Start), timePtr(iv.End)
			}
		}
	}

	return report, nil
}

func (r *Reconciler) plan(report *Report, ref EntityRef, result Result, cal *calendar.Calendar) {
	iv, ok := result[ref.Token]
	if !ok {
		report.Unscheduled = append(report.Unscheduled, ref)
		return
	}
	report.Intervals[ref.Token] = Interval{
		Start: cal.Round(iv.Start),
		End:   cal.Round(iv.End),
	}
	report.Updated = append(report.Updated, ref)
}

func checkInvariants(planned map[string]Interval, view *graph.View) []Violation {
	var violations []Violation

	for _, te := range view.Tasks() {
		iv, ok := planned[te.Token]
		if !ok {
			continue
		}

		if iv.End.Before(iv.Start) {
			violations = append(violations, Violation{Token: te.Token, Rule: "ends before it starts", Other: te.Token})
		}

		for _, dep := range te.DependsOn {
			depIv, ok := planned[dep.Token]
			if ok && iv.Start.Before(depIv.End) {
				violations = append(violations, Violation{Token: te.Token, Rule: "starts before predecessor ends", Other: dep.Token})
			}
		}

		outer := []string{te.Project.Token}
		if te.Parent != nil {
			outer = append(outer, te.Parent.Token)
		}
		for _, tok := range outer {
			outerIv, ok := planned[tok]
			if ok && (iv.Start.Before(outerIv.Start) || iv.End.After(outerIv.End)) {
				violations = append(violations, Violation{Token: te.Token, Rule: "lies outside", Other: tok})
			}
		}
	}

	return violations
}

func timePtr(t time.Time) *time.Time {
	return &t
}
