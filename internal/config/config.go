package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	PerformancePath string `mapstructure:"performance_path" yaml:"performance_path"`
	SalaryPath      string `mapstructure:"salary_path" yaml:"salary_path"`
	TraitColumn     string `mapstructure:"trait_column" yaml:"trait_column"`

	// Input parsing
	Delimiter          string `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator"`
	SheetName          string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SampleRows         int    `mapstructure:"sample_rows" yaml:"sample_rows"`

	// Chart export
	ChartFormat string `mapstructure:"chart_format" yaml:"chart_format"`
	ChartWidth  int    `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int    `mapstructure:"chart_height" yaml:"chart_height"`
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`

	// Report text
	Title    string `mapstructure:"title" yaml:"title"`
	Subtitle string `mapstructure:"subtitle" yaml:"subtitle"`
}

// Dir returns ~/.paradox.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".paradox"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.paradox/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SetDefaults registers the built-in values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("performance_path", "data/HR_performance.csv")
	v.SetDefault("salary_path", "data/HR_salary.csv")
	v.SetDefault("trait_column", "Neuroticism")
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", "")
	v.SetDefault("thousands_separator", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sample_rows", 5)
	v.SetDefault("chart_format", "png")
	v.SetDefault("chart_width", 900)
	v.SetDefault("chart_height", 500)
	v.SetDefault("output_dir", "charts")
	v.SetDefault("title", "Simpson's Paradox")
	v.SetDefault("subtitle", "Neuroticism, performance and salary across jobs and education levels")
}

// Defaults returns the built-in configuration without reading any file or env.
func Defaults() *Global {
	v := viper.New()
	SetDefaults(v)
	var c Global
	// Defaults are all scalars of the right type; decoding cannot fail.
	_ = v.Unmarshal(&c)
	return &c
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command-line flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("PARADOX")
	v.AutomaticEnv()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; a malformed one is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Global) Validate() error {
	switch c.ChartFormat {
	case "png", "svg":
	default:
		return fmt.Errorf("invalid chart_format: %q (use png or svg)", c.ChartFormat)
	}
	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", c.ChartWidth, c.ChartHeight)
	}
	if c.SampleRows < 0 {
		return fmt.Errorf("sample_rows must be >= 0, got %d", c.SampleRows)
	}
	for key, s := range map[string]string{
		"delimiter":           c.Delimiter,
		"decimal_separator":   c.DecimalSeparator,
		"thousands_separator": c.ThousandsSeparator,
	} {
		if len([]rune(s)) > 1 && s != `\t` {
			return fmt.Errorf("%s must be a single character, got %q", key, s)
		}
	}
	return nil
}

// Rune converts a single-character setting to a rune; "" yields 0 and `\t` a tab.
func Rune(s string) rune {
	if s == `\t` {
		return '\t'
	}
	r := []rune(s)
	if len(r) == 0 {
		return 0
	}
	return r[0]
}
