// Package taskjuggler drives TaskJuggler (tj3) as the external scheduling
// engine: it renders project graphs as .tjp input, runs tj3 in a scoped
// workspace and parses the CSV report it writes.
package taskjuggler

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/itchyny/timefmt-go"

	"github.com/felixgeelhaar/juggler/pkg/domain/calendar"
	"github.com/felixgeelhaar/juggler/pkg/domain/graph"
	"github.com/felixgeelhaar/juggler/pkg/domain/schedule"
)

// strftime forms of the dates tj3 accepts in its input. projectDateFormat
// is also declared as the file's timeformat.
const (
	projectDateFormat = "%Y-%m-%d"
	dateTimeFormat    = "%Y-%m-%d-%H:%M"
)

const indentUnit = "    "

var documentTemplate = template.Must(template.New("tjp").Parse(`# {{.Header}}
{{range .Projects}}project {{.Token}} {{.Name}} {{.Start}} - {{.End}} {
{{- range .Directives}}
    {{.}}
{{- end}}
}
{{end}}
# resources
resource resources "Resources" {
{{- range .Resources}}
    resource {{.Token}} {{.Name}}
{{- end}}
}

# tasks
{{range .TaskTrees}}{{.}}{{end}}
# bookings
{{range .Bookings}}{{.}}{{end}}
# reports
taskreport breakdown {{.ReportName}} {
    formats csv
    timeformat {{.TimeFormat}}
    columns id, start, end
}
`))

type projectBlock struct {
	Token      string
	Name       string
	Start      string
	End        string
	Directives []string
}

type resourceLine struct {
	Token string
	Name  string
}

type document struct {
	Header     string
	Projects   []projectBlock
	Resources  []resourceLine
	TaskTrees  []string
	Bookings   []string
	ReportName string
	TimeFormat string
}

// Emitter renders a graph view as a TaskJuggler project file.
type Emitter struct {
	// ReportName is the report file name without the ".csv" tj3 appends.
	ReportName string
	// Calendar supplies the report's timeformat.
	Calendar *calendar.Calendar
	// MergeProjects emits a batch of several projects under one project
	// block, since tj3 reads a single project per file. Each project keeps
	// its own root task, so report ids do not change.
	MergeProjects bool
}

// NewEmitter returns an emitter writing the report named reportName.
func NewEmitter(reportName string, cal *calendar.Calendar) *Emitter {
	if cal == nil {
		cal = calendar.Standard()
	}
	return &Emitter{ReportName: reportName, Calendar: cal}
}

// Emit renders the view. Output is byte-identical for an unchanged view and
// options.
func (e *Emitter) Emit(view *graph.View, opts schedule.EmitOptions) (string, error) {
	header := opts.Header
	if header == "" {
		header = "Generated by juggler"
	}

	doc := document{
		Header:     header,
		ReportName: quote(e.ReportName),
		TimeFormat: quote(e.Calendar.Format()),
	}

	projects := view.Projects()
	merge := e.MergeProjects && len(projects) > 1
	if merge {
		doc.Projects = []projectBlock{mergedHeader(projects, opts.Now)}
	}
	for _, pe := range projects {
		if !merge {
			doc.Projects = append(doc.Projects, projectHeader(pe, opts.Now))
		}
		doc.TaskTrees = append(doc.TaskTrees, taskTree(pe))
		for _, b := range pe.Bookings {
			doc.Bookings = append(doc.Bookings, bookingBlock(b, pe.Calendar.Location()))
		}
	}

	for _, re := range view.Resources() {
		doc.Resources = append(doc.Resources, resourceLine{Token: re.Token, Name: quote(re.Resource.Name)})
	}

	var b strings.Builder
	if err := documentTemplate.Execute(&b, doc); err != nil {
		return "", fmt.Errorf("render tjp: %w", err)
	}
	return b.String(), nil
}

func projectHeader(pe *graph.ProjectEntry, now time.Time) projectBlock {
	cal := pe.Calendar
	loc := cal.Location()

	directives := []string{
		fmt.Sprintf("timingresolution %dmin", int(cal.TimingResolution()/time.Minute)),
	}
	if !now.IsZero() {
		directives = append(directives, "now "+timefmt.Format(cal.Round(now).In(loc), dateTimeFormat))
	}
	directives = append(directives,
		"dailyworkinghours "+strconv.FormatFloat(cal.WorkingHoursPerDay(), 'f', -1, 64),
	)
	if cal.WeekStartsMonday {
		directives = append(directives, "weekstartsmonday")
	} else {
		directives = append(directives, "weekstartssunday")
	}
	for _, day := range calendar.Days {
		directives = append(directives, "workinghours "+day+" "+workingHours(cal.Windows(day)))
	}
	if cal.TimeZone != "" && cal.TimeZone != "UTC" {
		directives = append(directives, "timezone "+quote(cal.TimeZone))
	}
	directives = append(directives,
		"timeformat "+quote(projectDateFormat),
		`scenario plan "Plan"`,
		"trackingscenario plan",
	)

	return projectBlock{
		Token:      pe.Token,
		Name:       quote(pe.Project.Name),
		Start:      timefmt.Format(pe.Project.Start.In(loc), projectDateFormat),
		End:        timefmt.Format(pe.Project.End.In(loc), projectDateFormat),
		Directives: directives,
	}
}

// batchToken names the project block wrapping a merged batch. It cannot
// collide with a Project_ token.
const batchToken = "juggler_batch"

// mergedHeader spans all projects of a batch. Calendar directives come from
// the first project.
func mergedHeader(projects []*graph.ProjectEntry, now time.Time) projectBlock {
	block := projectHeader(projects[0], now)
	loc := projects[0].Calendar.Location()

	start, end := projects[0].Project.Start, projects[0].Project.End
	names := make([]string, 0, len(projects))
	for _, pe := range projects {
		if pe.Project.Start.Before(start) {
			start = pe.Project.Start
		}
		if pe.Project.End.After(end) {
			end = pe.Project.End
		}
		names = append(names, pe.Project.Name)
	}

	block.Token = batchToken
	block.Name = quote(strings.Join(names, ", "))
	block.Start = timefmt.Format(start.In(loc), projectDateFormat)
	block.End = timefmt.Format(end.In(loc), projectDateFormat)
	return block
}

func workingHours(windows []calendar.Window) string {
	if len(windows) == 0 {
		return "off"
	}
	parts := make([]string, 0, len(windows))
	for _, w := range windows {
		parts = append(parts, w.String())
	}
	return strings.Join(parts, ", ")
}

// taskTree renders the project as the root task wrapping its task hierarchy,
// so the project gets its own report row.
func taskTree(pe *graph.ProjectEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "task %s %s {\n", pe.Token, quote(pe.Project.Name))

	children := make(map[*graph.TaskEntry][]*graph.TaskEntry)
	var roots []*graph.TaskEntry
	for _, te := range pe.Tasks {
		if te.Parent == nil {
			roots = append(roots, te)
			continue
		}
		children[te.Parent] = append(children[te.Parent], te)
	}

	var write func(te *graph.TaskEntry, depth int)
	write = func(te *graph.TaskEntry, depth int) {
		indent := strings.Repeat(indentUnit, depth)
		inner := indent + indentUnit

		fmt.Fprintf(&b, "%stask %s %s {\n", indent, te.Token, quote(te.Task.Name))

		kids := children[te]
		if len(kids) == 0 {
			if te.Task.Effort.IsZero() {
				b.WriteString(inner + "milestone\n")
			} else {
				fmt.Fprintf(&b, "%seffort %sh\n", inner, strconv.FormatFloat(te.Task.Effort.Hours(), 'f', -1, 64))
			}
		}
		if len(te.Resources) > 0 {
			tokens := make([]string, 0, len(te.Resources))
			for _, re := range te.Resources {
				tokens = append(tokens, re.Token)
			}
			fmt.Fprintf(&b, "%sallocate %s\n", inner, strings.Join(tokens, ", "))
		}
		if len(te.DependsOn) > 0 {
			paths := make([]string, 0, len(te.DependsOn))
			for _, dep := range te.DependsOn {
				paths = append(paths, dep.Path)
			}
			fmt.Fprintf(&b, "%sdepends %s\n", inner, strings.Join(paths, ", "))
		}
		for _, kid := range kids {
			write(kid, depth+1)
		}

		b.WriteString(indent + "}\n")
	}

	for _, root := range roots {
		write(root, 1)
	}

	b.WriteString("}\n")
	return b.String()
}

func bookingBlock(be graph.BookingEntry, loc *time.Location) string {
	return fmt.Sprintf("supplement task %s {\n%sbooking %s %s - %s\n}\n",
		be.Task.Path,
		indentUnit,
		be.Resource.Token,
		timefmt.Format(be.Booking.Start.In(loc), dateTimeFormat),
		timefmt.Format(be.Booking.End.In(loc), dateTimeFormat),
	)
}

// quote renders a TaskJuggler string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", " ", "\r", " ")
	return `"` + r.Replace(s) + `"`
}
