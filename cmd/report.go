package cmd

import (
	"fmt"

	"github.com/KaramelBytes/paradox-cli/internal/utils"
	"github.com/KaramelBytes/paradox-cli/internal/viz"
	"github.com/spf13/cobra"
)

var (
	repMarkdown   bool
	repOutputPath string
	repSampleRows int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the full report (styled, or Markdown with --markdown)",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func addReportFlags(c *cobra.Command) {
	c.Flags().BoolVar(&repMarkdown, "markdown", false, "print plain Markdown instead of styled terminal output")
	c.Flags().StringVarP(&repOutputPath, "output", "o", "", "write the Markdown report to this file")
	c.Flags().IntVar(&repSampleRows, "sample-rows", 0, "rows shown per data sample (overrides config)")
}

func runReport(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("sample-rows") {
		if repSampleRows < 0 {
			return fmt.Errorf("--sample-rows must be >= 0, got %d", repSampleRows)
		}
		cfg.SampleRows = repSampleRows
	}
	doc := buildDocument()

	if repOutputPath != "" {
		if err := utils.SafeWriteFile(repOutputPath, []byte(doc.Markdown())); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", repOutputPath)
		if n := len(doc.Notices); n > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "⚠ %d notice(s); see the Notes section\n", n)
		}
		return nil
	}
	if repMarkdown {
		fmt.Fprint(cmd.OutOrStdout(), doc.Markdown())
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), viz.Render(doc, terminalWidth()))
	return nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	addReportFlags(reportCmd)
}
