package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/paradox-cli/internal/export"
	"github.com/spf13/cobra"
)

var (
	chOutputDir string
	chFormat    string
	chWidth     int
	chHeight    int
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Write PNG or SVG scatter/regression charts and a manifest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		if f.Changed("output") {
			cfg.OutputDir = chOutputDir
		}
		if f.Changed("format") {
			cfg.ChartFormat = chFormat
		}
		if f.Changed("width") {
			cfg.ChartWidth = chWidth
		}
		if f.Changed("height") {
			cfg.ChartHeight = chHeight
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		doc := buildDocument()
		m, err := export.WriteCharts(doc, cfg.OutputDir, export.Options{
			Format: cfg.ChartFormat,
			Width:  cfg.ChartWidth,
			Height: cfg.ChartHeight,
			Log:    log,
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, c := range m.Charts {
			if c.File == "" {
				fmt.Fprintf(out, "⚠ Skipped %s (nothing to plot)\n", c.Title)
				continue
			}
			fmt.Fprintf(out, "✓ Wrote %s\n", filepath.Join(cfg.OutputDir, c.File))
		}
		fmt.Fprintf(out, "✓ Wrote %s (run %s)\n", filepath.Join(cfg.OutputDir, export.ManifestName), m.RunID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chartsCmd.Flags().StringVarP(&chOutputDir, "output", "o", "", "output directory (overrides config output_dir)")
	chartsCmd.Flags().StringVar(&chFormat, "format", "", "image format: png | svg (overrides config)")
	chartsCmd.Flags().IntVar(&chWidth, "width", 0, "chart width in pixels (overrides config)")
	chartsCmd.Flags().IntVar(&chHeight, "height", 0, "chart height in pixels (overrides config)")
}
