// Package console renders review results as styled terminal tables. It is a
// pure consumer of the core's output; nothing here feeds back into review
// logic.
package console

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/reqtrace/pkg/application"
	"github.com/felixgeelhaar/reqtrace/pkg/domain/review"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	coveredOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	coveredBad  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	autoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	manualStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	codeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Reporter writes tables to a terminal writer.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// PrintCoverageSummary prints the requirement → tests table.
func (r *Reporter) PrintCoverageSummary(report *application.Report) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, headerStyle.Render("Coverage summary"))

	rows := [][3]string{{"Requirement", "Tests", "Type"}}
	for _, entry := range report.Coverage.Entries {
		if !entry.Covered() {
			rows = append(rows, [3]string{
				coveredBad.Render(entry.Requirement.ID),
				coveredBad.Render("NO TESTS"),
				coveredBad.Render("-"),
			})
			continue
		}
		var names, kinds []string
		for _, t := range entry.Tests {
			names = append(names, coveredOK.Render(t.FullName()))
			if t.Automated {
				kinds = append(kinds, autoStyle.Render("Auto"))
			} else {
				kinds = append(kinds, manualStyle.Render("Manual"))
			}
		}
		rows = append(rows, [3]string{
			coveredOK.Render(entry.Requirement.ID),
			strings.Join(names, ", "),
			strings.Join(kinds, ", "),
		})
	}
	r.printRows(rows)
}

// PrintProblems prints the problems table sorted by code. Nothing is printed
// when the list is empty.
func (r *Reporter) PrintProblems(problems []review.Problem) {
	if len(problems) == 0 {
		return
	}

	sorted := make([]review.Problem, len(problems))
	copy(sorted, problems)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, headerStyle.Render("Problems"))
	rows := [][3]string{{"Code", "Description", ""}}
	for _, p := range sorted {
		rows = append(rows, [3]string{codeStyle.Render(p.Code.String()), p.Description, ""})
	}
	r.printRows(rows)
}

// PrintResult prints the final verdict line.
func (r *Reporter) PrintResult(problemCount int) {
	fmt.Fprintln(r.out)
	if problemCount == 0 {
		fmt.Fprintln(r.out, goodStyle.Render("Documentation review passed"))
		return
	}
	fmt.Fprintln(r.out, badStyle.Render(fmt.Sprintf("Documentation review failed with %d problem(s)", problemCount)))
}

// printRows lays out a three-column table with padded cells. Column widths
// are computed on the rendered width, so styled cells align.
func (r *Reporter) printRows(rows [][3]string) {
	var widths [3]int
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for _, row := range rows {
		var cells []string
		for i, cell := range row {
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			cells = append(cells, cell+pad)
		}
		fmt.Fprintln(r.out, "  "+strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}
