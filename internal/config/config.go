package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/mutker/faultplot/internal/errors"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = "faultplot"
	configType = "toml"
	envPrefix  = "FAULTPLOT"

	DefaultDPI       = 300
	DefaultWidth     = 6.4
	DefaultHeight    = 4.8
	DefaultCatalogDB = "faultplot.db"

	// countPlaceholder is replaced by the process count in CPUJob.PathPattern.
	countPlaceholder = "{n}"
)

// ErrHelp is returned by Load when usage was requested with -h or --help.
var ErrHelp = pflag.ErrHelp

// RunJob describes one single-run accumulated-fault chart.
type RunJob struct {
	Path    string `mapstructure:"path"`
	Workers []int  `mapstructure:"workers"`
	Output  string `mapstructure:"output"`
}

// CombinedJob overlays several runs on one chart. Paths and Workers are
// consumed pairwise.
type CombinedJob struct {
	Paths   []string `mapstructure:"paths"`
	Workers [][]int  `mapstructure:"workers"`
	Output  string   `mapstructure:"output"`
}

// CPUJob describes the CPU-use bar charts.
type CPUJob struct {
	Counts       []int  `mapstructure:"counts"`
	PathPattern  string `mapstructure:"path_pattern"`
	Output       string `mapstructure:"output"`
	ScaledOutput string `mapstructure:"scaled_output"`
}

// PathFor returns the profile path recorded with n worker processes.
func (j CPUJob) PathFor(n int) string {
	return strings.ReplaceAll(j.PathPattern, countPlaceholder, strconv.Itoa(n))
}

// OutputFor returns the chart path for the scaled or unscaled variant.
func (j CPUJob) OutputFor(scale bool) string {
	if scale {
		return j.ScaledOutput
	}
	return j.Output
}

type CatalogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

type Config struct {
	Debug     bool    `mapstructure:"debug"`
	Verbose   bool    `mapstructure:"verbose"`
	KeepGoing bool    `mapstructure:"keep_going"`
	OutputDir string  `mapstructure:"output_dir"`
	DPI       int     `mapstructure:"dpi"`
	Width     float64 `mapstructure:"width"`
	Height    float64 `mapstructure:"height"`

	Catalog  CatalogConfig `mapstructure:"catalog"`
	Runs     []RunJob      `mapstructure:"runs"`
	Combined CombinedJob   `mapstructure:"combined"`
	CPU      CPUJob        `mapstructure:"cpu"`
}

// Default returns the chart set of the page-fault case studies.
func Default() *Config {
	return &Config{
		OutputDir: ".",
		DPI:       DefaultDPI,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Catalog: CatalogConfig{
			DBPath: DefaultCatalogDB,
		},
		Runs: []RunJob{
			{Path: "data/profile1.data", Workers: []int{1, 2}},
			{Path: "data/profile2.data", Workers: []int{3, 4}},
		},
		Combined: CombinedJob{
			Paths:   []string{"data/profile1.data", "data/profile2.data"},
			Workers: [][]int{{1, 2}, {3, 4}},
			Output:  "extra/case_study_1_work_1_2_3_4.png",
		},
		CPU: CPUJob{
			Counts:       []int{1, 5, 11, 16, 21},
			PathPattern:  "data/profile3_{n}.data",
			Output:       "case_study_2_work_5.png",
			ScaledOutput: "case_study_2_work_5_scaled.png",
		},
	}
}

// Load builds the configuration from defaults, an optional TOML file,
// FAULTPLOT_* environment variables and command line args, in increasing
// order of precedence.
func Load(args []string) (*Config, error) {
	errFactory := errors.New()
	v := viper.New()

	fs := pflag.NewFlagSet(configName, pflag.ContinueOnError)
	configFile := fs.StringP("config", "c", "", "Path to the configuration file")
	fs.Bool("debug", false, "Enable debugging mode")
	fs.BoolP("verbose", "v", false, "Enable verbose logging")
	fs.Bool("keep-going", false, "Render remaining charts after a failure and report all errors at the end")
	fs.StringP("output-dir", "o", ".", "Directory relative chart paths are written to")
	fs.Int("dpi", DefaultDPI, "Resolution of the written images")
	fs.String("catalog", "", "Record rendered charts in this SQLite database")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	for key, flag := range map[string]string{
		"debug":      "debug",
		"verbose":    "verbose",
		"keep_going": "keep-going",
		"output_dir": "output-dir",
		"dpi":        "dpi",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	// Keys without a flag need a default so that AutomaticEnv can see them.
	def := Default()
	for key, value := range map[string]any{
		"width":             def.Width,
		"height":            def.Height,
		"catalog.enabled":   def.Catalog.Enabled,
		"catalog.db_path":   def.Catalog.DBPath,
		"combined.output":   def.Combined.Output,
		"cpu.path_pattern":  def.CPU.PathPattern,
		"cpu.output":        def.CPU.Output,
		"cpu.scaled_output": def.CPU.ScaledOutput,
	} {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := *configFile
	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	v.SetConfigType(configType)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, configName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.ZeroFields = true
	}); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if db := fs.Lookup("catalog").Value.String(); db != "" {
		cfg.Catalog.Enabled = true
		cfg.Catalog.DBPath = db
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Resolve returns path unchanged when absolute, otherwise joined to the
// output directory.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.OutputDir == "" {
		return path
	}
	return filepath.Join(c.OutputDir, path)
}

func (c *Config) Validate() error {
	if c.DPI <= 0 {
		return invalid("dpi", c.DPI, "must be positive")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return invalid("width/height", [2]float64{c.Width, c.Height}, "must be positive")
	}
	if c.Catalog.Enabled && c.Catalog.DBPath == "" {
		return invalid("catalog.db_path", c.Catalog.DBPath, "required when the catalog is enabled")
	}

	for i, run := range c.Runs {
		if run.Path == "" {
			return invalid("runs["+strconv.Itoa(i)+"].path", run.Path, "must not be empty")
		}
		if len(run.Workers) == 0 {
			return invalid("runs["+strconv.Itoa(i)+"].workers", run.Workers, "must name at least one worker")
		}
	}

	for i, n := range c.CPU.Counts {
		if n <= 0 {
			return invalid("cpu.counts["+strconv.Itoa(i)+"]", n, "must be positive")
		}
	}
	if len(c.CPU.Counts) > 0 {
		if !strings.Contains(c.CPU.PathPattern, countPlaceholder) {
			return invalid("cpu.path_pattern", c.CPU.PathPattern, "must contain "+countPlaceholder)
		}
		if c.CPU.Output == "" || c.CPU.ScaledOutput == "" {
			return invalid("cpu.output", [2]string{c.CPU.Output, c.CPU.ScaledOutput}, "both outputs are required")
		}
	}

	return nil
}
