package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/paradox-cli/internal/analysis"
	"github.com/KaramelBytes/paradox-cli/internal/dataset"
	"github.com/KaramelBytes/paradox-cli/internal/utils"
	"github.com/KaramelBytes/paradox-cli/internal/viz"
	"github.com/spf13/cobra"
)

var (
	anaOutputPath string
	anaX          string
	anaY          string
	anaGroupBy    string
	anaDelimiter  string
	anaDecimal    string
	anaThousands  string
	anaSheetName  string
	anaPlot       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Correlate two columns of any CSV/TSV/XLSX table, optionally per group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt := datasetOptions(cfg)
		if anaDelimiter != "" {
			switch anaDelimiter {
			case ",":
				opt.Delimiter = ','
			case "\t", "tab":
				opt.Delimiter = '\t'
			case ";":
				opt.Delimiter = ';'
			default:
				return fmt.Errorf("unsupported --delimiter: %s", anaDelimiter)
			}
		}
		// Locale separators
		switch strings.ToLower(strings.TrimSpace(anaDecimal)) {
		case ",", "comma":
			opt.DecimalSeparator = ','
		case ".", "dot":
			opt.DecimalSeparator = '.'
		case "":
		default:
			return fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", anaDecimal)
		}
		switch strings.ToLower(strings.TrimSpace(anaThousands)) {
		case ",":
			opt.ThousandsSeparator = ','
		case ".":
			opt.ThousandsSeparator = '.'
		case "space", " ":
			opt.ThousandsSeparator = ' '
		case "":
		default:
			return fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", anaThousands)
		}
		if anaSheetName != "" {
			opt.SheetName = anaSheetName
		}

		t, err := dataset.Load(path, opt)
		if err != nil {
			return err
		}
		x := anaX
		if x == "" {
			x = cfg.TraitColumn
		}
		res := analysis.Runner{Log: log}.Run(t, analysis.Spec{
			Title:   fmt.Sprintf("%s vs %s", x, anaY),
			X:       x,
			Y:       anaY,
			GroupBy: anaGroupBy,
		})
		md := res.Markdown()
		if w := t.Warnings(); len(w) > 0 {
			md += "\n[WARNINGS]\n- " + strings.Join(w, "\n- ") + "\n"
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		if anaPlot {
			if plot := viz.Scatter(res, terminalWidth()-12, 14); plot != "" {
				fmt.Fprintln(cmd.OutOrStdout(), plot+viz.Legend(res))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write analysis (Markdown)")
	analyzeCmd.Flags().StringVar(&anaX, "x", "", "predictor column (default: config trait_column)")
	analyzeCmd.Flags().StringVar(&anaY, "y", "", "outcome column")
	analyzeCmd.Flags().StringVar(&anaGroupBy, "group-by", "", "categorical column to split by")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	analyzeCmd.Flags().StringVar(&anaDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	analyzeCmd.Flags().StringVar(&anaThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	analyzeCmd.Flags().BoolVar(&anaPlot, "plot", false, "also draw a terminal scatter plot")
	_ = analyzeCmd.MarkFlagRequired("y")
}
