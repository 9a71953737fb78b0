package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/reqtrace/pkg/application"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive coverage dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveReviewOptions()
		if err != nil {
			return err
		}
		service := application.NewReviewService(newLogger())
		report, err := service.Review(cmd.Context(), opts)
		if err != nil {
			return MapError(err)
		}

		p := tea.NewProgram(newDashboardModel(report))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard run failed: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dashboardCmd)
}

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var dashHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var statusOK = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
var statusBad = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

type dashboardModel struct {
	table    table.Model
	title    string
	problems []string
}

func newDashboardModel(report *application.Report) dashboardModel {
	columns := []table.Column{
		{Title: "Requirement", Width: 14},
		{Title: "Status", Width: 10},
		{Title: "Tests", Width: 46},
	}

	rows := []table.Row{}
	for _, entry := range report.Coverage.Entries {
		status := "covered"
		switch {
		case entry.Requirement.Obsolete:
			status = "obsolete"
		case !entry.Covered():
			status = "UNCOVERED"
		}
		var names []string
		for _, t := range entry.Tests {
			names = append(names, t.ID)
		}
		tests := strings.Join(names, ", ")
		if tests == "" {
			tests = "-"
		}
		rows = append(rows, table.Row{entry.Requirement.ID, status, tests})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))
	t.SetStyles(s)

	var problems []string
	for _, p := range report.Problems {
		problems = append(problems, fmt.Sprintf("[%s] %s", p.Code, p.Description))
	}

	return dashboardModel{
		table:    t,
		title:    report.Requirements.FullTitle(),
		problems: problems,
	}
}

func (m dashboardModel) Init() tea.Cmd { return nil }

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m dashboardModel) View() string {
	header := dashHeaderStyle.Render(m.title)

	problemView := statusOK.Render("\nReview: OK")
	if len(m.problems) > 0 {
		problemView = statusBad.Render(fmt.Sprintf("\n%d PROBLEM(S):\n", len(m.problems)))
		for _, p := range m.problems {
			problemView += fmt.Sprintf("- %s\n", p)
		}
	}

	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"\nCoverage:",
			m.table.View(),
			problemView,
			"\n[q] Quit  [Up/Down] Navigate",
		),
	) + "\n"
}
