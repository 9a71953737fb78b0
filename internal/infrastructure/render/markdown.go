// Package render turns loaded documents into user-facing artifacts. Documents
// are first laid out as markdown; the markdown is then rendered to HTML or
// PDF. The core never calls into this package.
package render

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/reqtrace/pkg/domain/model"
)

// RequirementsMarkdown lays out a requirements document as markdown.
func RequirementsMarkdown(doc *model.RequirementsDoc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.FullTitle())
	if doc.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n\n", doc.Author)
	}

	for _, section := range doc.Sections {
		fmt.Fprintf(&b, "## %s\n\n", section.Title)
		for i := range section.Items {
			req := &section.Items[i]
			fmt.Fprintf(&b, "### %s\n\n", req.ID)
			if req.Obsolete {
				fmt.Fprintf(&b, "**Obsolete:** %s\n\n", req.ObsoleteReason)
			}
			fmt.Fprintf(&b, "%s\n\n", req.Specification)
			fmt.Fprintf(&b, "*Rationale:* %s\n\n", req.Rationale)
			if req.Parent != "" {
				fmt.Fprintf(&b, "*Parent:* %s\n\n", req.Parent)
			}
		}
	}
	return b.String()
}

// ProtocolMarkdown lays out a manual test protocol as markdown, one section
// per test with a steps table and an evidence column to fill in during a
// test session.
func ProtocolMarkdown(doc *model.TestsDoc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.FullTitle())

	for i := range doc.Tests {
		t := &doc.Tests[i]
		fmt.Fprintf(&b, "## %s\n\n", t.ID)
		fmt.Fprintf(&b, "%s\n\n", t.Description)
		if len(t.Verifies) > 0 {
			fmt.Fprintf(&b, "Verifies: %s\n\n", strings.Join(t.Verifies, ", "))
		}

		b.WriteString("| # | Given | When | Then | Evidence |\n")
		b.WriteString("|---|-------|------|------|----------|\n")
		for j, step := range t.Steps {
			evidence := "-"
			if step.Evidence != "" {
				evidence = string(step.Evidence)
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
				j+1, cell(step.Given), cell(step.When), cell(step.Then), evidence)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func cell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "\\|")
}
