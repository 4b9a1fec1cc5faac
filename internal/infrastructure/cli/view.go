package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/juggler/pkg/application"
	"github.com/felixgeelhaar/juggler/pkg/domain/graph"
)

var viewSchedule bool

var viewCmd = &cobra.Command{
	Use:   "view <snapshot>",
	Short: "Browse the computed intervals of a snapshot in a TUI",
	Long: `View shows every project and task of a snapshot with its computed start and
end. Pass a snapshot written by 'juggler schedule --out', or use --schedule to
run the engine first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return MapError(err)
		}

		snap, err := loadSnapshot(services, args[0])
		if err != nil {
			return err
		}

		var outcome *application.Outcome
		if viewSchedule {
			now, err := resolveNow(snap.Now, "")
			if err != nil {
				return err
			}
			outcome, err = services.Scheduler.Schedule(commandContext(cmd, services), snap.Projects, now)
			if err != nil {
				renderDiagnostics(os.Stderr, outcome)
				return MapError(err)
			}
		}

		if os.Getenv("JUGGLER_SKIP_TUI_RUN") == "true" {
			return nil
		}
		p := tea.NewProgram(newViewModel(args[0], snap.Projects, outcome))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("view run failed: %w", err)
		}
		return nil
	},
}

func init() {
	viewCmd.Flags().BoolVar(&viewSchedule, "schedule", false, "Run the engine before showing the snapshot")
	RootCmd.AddCommand(viewCmd)
}

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

type viewModel struct {
	table       table.Model
	title       string
	outcome     *application.Outcome
	unscheduled int
}

func newViewModel(title string, projects []*graph.Project, outcome *application.Outcome) viewModel {
	columns := []table.Column{
		{Title: "Kind", Width: 8},
		{Title: "ID", Width: 16},
		{Title: "Name", Width: 36},
		{Title: "Start", Width: 16},
		{Title: "End", Width: 16},
	}

	rows := []table.Row{}
	unscheduled := 0
	for _, r := range scheduleRows(projects) {
		if r.Start == "-" {
			unscheduled++
		}
		rows = append(rows, table.Row{r.Kind, r.ID, r.Name, r.Start, r.End})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))
	t.SetStyles(s)

	return viewModel{
		table:       t,
		title:       title,
		outcome:     outcome,
		unscheduled: unscheduled,
	}
}

func (m viewModel) Init() tea.Cmd { return nil }

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m viewModel) View() string {
	header := headerStyle.Render(m.title)

	runLine := "Not scheduled in this session"
	if m.outcome != nil {
		runLine = fmt.Sprintf("Run %s  Engine: %s  State: %s", m.outcome.RunID, m.outcome.Engine, m.outcome.State)
	}

	status := okStyle.Render("\nAll entities have computed intervals")
	if m.unscheduled > 0 {
		status = warnStyle.Render(fmt.Sprintf("\n%d entities without computed intervals", m.unscheduled))
	}

	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			runLine,
			"",
			m.table.View(),
			status,
			"\n[q] Quit  [Up/Down] Navigate",
		),
	) + "\n"
}
