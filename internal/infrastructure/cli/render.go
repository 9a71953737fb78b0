package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/reqtrace/internal/infrastructure/render"
	"github.com/felixgeelhaar/reqtrace/pkg/application"
)

var (
	renderFormat string
	renderOutput string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render documents into publishable artifacts",
}

var renderRequirementsCmd = &cobra.Command{
	Use:   "requirements",
	Short: "Render the requirements document as HTML or PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := reviewForRender(cmd)
		if err != nil {
			return err
		}
		markdown := render.RequirementsMarkdown(report.Requirements)
		return writeRendered(markdown, report.Requirements.FullTitle(), "requirements")
	},
}

var renderProtocolCmd = &cobra.Command{
	Use:   "protocol",
	Short: "Render the manual test protocol as HTML or PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := reviewForRender(cmd)
		if err != nil {
			return err
		}
		manual := report.Tests.ManualDoc
		if manual == nil {
			return NewCLIError("no manual tests document found", "Add a tests.yml under a docs directory", nil)
		}
		markdown := render.ProtocolMarkdown(manual)
		return writeRendered(markdown, manual.FullTitle(), "protocol")
	},
}

func init() {
	renderCmd.PersistentFlags().StringVarP(&renderFormat, "format", "f", "html", "output format: html or pdf")
	renderCmd.PersistentFlags().StringVarP(&renderOutput, "output", "o", "", "output file (default derived from the document and format)")
	renderCmd.AddCommand(renderRequirementsCmd)
	renderCmd.AddCommand(renderProtocolCmd)
	RootCmd.AddCommand(renderCmd)
}

// reviewForRender runs a full review and refuses to render while unignored
// problems remain, so published artifacts always reflect consistent sources.
func reviewForRender(cmd *cobra.Command) (*application.Report, error) {
	opts, err := resolveReviewOptions()
	if err != nil {
		return nil, err
	}
	service := application.NewReviewService(newLogger())
	report, err := service.Review(cmd.Context(), opts)
	if err != nil {
		return nil, MapError(err)
	}
	if n := len(report.Problems); n > 0 {
		return nil, NewCLIError(
			fmt.Sprintf("refusing to render: %d problem(s) found", n),
			"Run 'reqtrace review' to see them, fix or --ignore, then render again",
			nil,
		)
	}
	return report, nil
}

func writeRendered(markdown, title, stem string) error {
	var data []byte
	var err error
	switch strings.ToLower(renderFormat) {
	case "html":
		data, err = render.HTML(markdown, title)
	case "pdf":
		data, err = render.PDF(markdown, title)
	default:
		return NewCLIError("unknown format "+renderFormat, "Use --format html or --format pdf", nil)
	}
	if err != nil {
		return err
	}

	out := renderOutput
	if out == "" {
		out = stem + "." + strings.ToLower(renderFormat)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}
