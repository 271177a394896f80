package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/paradox-cli/internal/config"
	"github.com/KaramelBytes/paradox-cli/internal/dataset"
	"github.com/KaramelBytes/paradox-cli/internal/logging"
	"github.com/KaramelBytes/paradox-cli/internal/report"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile         string
	debug           bool
	flagPerformance string
	flagSalary      string

	// Loaded configuration and logger, set before every command runs
	cfg *cfgpkg.Global
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "paradox",
	Short: "Paradox CLI: spot Simpson's paradox in HR performance and salary data",
	Long: `Paradox loads the HR_performance and HR_salary tables, correlates a personality trait
with performance and salary overall and within each job and education level, and shows
where subgroup trends reverse the overall one.

Run without a subcommand to print the full report.`,
	SilenceUsage: true,
	RunE:         runReport,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Assigned here: loadConfig reads rootCmd's flags.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return loadConfig() }
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.paradox/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&flagPerformance, "performance", "", "path to the HR performance table (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSalary, "salary", "", "path to the HR salary table (overrides config)")
	addReportFlags(rootCmd)
}

func loadConfig() error {
	log = logging.New(debug)
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("performance") && flagPerformance != "" {
		cfg.PerformancePath = flagPerformance
	}
	if f.Changed("salary") && flagSalary != "" {
		cfg.SalaryPath = flagSalary
	}
	log.Debug("config loaded",
		zap.String("performance", cfg.PerformancePath),
		zap.String("salary", cfg.SalaryPath),
		zap.String("trait", cfg.TraitColumn),
	)
	return nil
}

// datasetOptions converts the parsing settings of the config.
func datasetOptions(c *cfgpkg.Global) dataset.Options {
	return dataset.Options{
		Delimiter:          cfgpkg.Rune(c.Delimiter),
		DecimalSeparator:   cfgpkg.Rune(c.DecimalSeparator),
		ThousandsSeparator: cfgpkg.Rune(c.ThousandsSeparator),
		SheetName:          c.SheetName,
		Logger:             log,
	}
}

// buildDocument loads both inputs and runs every analysis. Load failures end up
// as notices in the document, not as errors.
func buildDocument() *report.Document {
	in := report.LoadInputs(cfg.PerformancePath, cfg.SalaryPath, datasetOptions(cfg))
	return report.Build(in, report.Options{
		Title:      cfg.Title,
		Subtitle:   cfg.Subtitle,
		SampleRows: cfg.SampleRows,
		Trait:      cfg.TraitColumn,
		Log:        log,
	})
}

// terminalWidth returns the width of stdout, or 100 when it is not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 100
}
