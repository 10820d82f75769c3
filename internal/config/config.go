package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"attendcli/pkg/contracts/domain"
)

// DateFormat is the wire format for reporting-window dates.
const DateFormat = "2006-01-02"

// Config represents the complete application configuration
type Config struct {
	Window  WindowConfig  `yaml:"window" envconfig:"WINDOW"`
	Policy  PolicyConfig  `yaml:"policy" envconfig:"POLICY"`
	Sources SourcesConfig `yaml:"sources" envconfig:"SOURCES"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// WindowConfig bounds the reporting window. Both dates are inclusive. The
// window may also arrive via CLI flags, so it is validated only when set.
type WindowConfig struct {
	Start string `yaml:"start" envconfig:"START"`
	End   string `yaml:"end" envconfig:"END"`
}

// StartDate parses the window start date.
func (w WindowConfig) StartDate() (time.Time, error) {
	return time.ParseInLocation(DateFormat, w.Start, time.Local)
}

// EndDate parses the window end date.
func (w WindowConfig) EndDate() (time.Time, error) {
	return time.ParseInLocation(DateFormat, w.End, time.Local)
}

// PolicyConfig carries the attendance cutoffs as wall-clock strings.
type PolicyConfig struct {
	LateStartCutoff string  `yaml:"late_start_cutoff" envconfig:"LATE_START_CUTOFF" default:"07:30:00"`
	EarlyEndCutoff  string  `yaml:"early_end_cutoff" envconfig:"EARLY_END_CUTOFF" default:"16:00:00"`
	MinimumHours    float64 `yaml:"minimum_hours" envconfig:"MINIMUM_HOURS" default:"7.0" validate:"min=0"`
}

// SourcesConfig holds the file path for each source kind. The speeding
// report is optional; its absence does not block classification.
type SourcesConfig struct {
	LocationHistory string `yaml:"location_history" envconfig:"LOCATION_HISTORY"`
	ActivityLog     string `yaml:"activity_log" envconfig:"ACTIVITY_LOG"`
	TimeOnSite      string `yaml:"time_on_site" envconfig:"TIME_ON_SITE"`
	Speeding        string `yaml:"speeding" envconfig:"SPEEDING"`
}

// Path returns the configured path for a source kind.
func (s SourcesConfig) Path(kind domain.SourceKind) string {
	switch kind {
	case domain.SourceLocationHistory:
		return s.LocationHistory
	case domain.SourceActivityLog:
		return s.ActivityLog
	case domain.SourceTimeOnSite:
		return s.TimeOnSite
	case domain.SourceSpeeding:
		return s.Speeding
	default:
		return ""
	}
}

// OutputConfig contains output locations for exported reports.
type OutputConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" default:"data/reports"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/attendance.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("ATTEND", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Window.Start == "" {
		envConfig.Window.Start = fileConfig.Window.Start
	}
	if envConfig.Window.End == "" {
		envConfig.Window.End = fileConfig.Window.End
	}
	if envConfig.Sources.LocationHistory == "" {
		envConfig.Sources.LocationHistory = fileConfig.Sources.LocationHistory
	}
	if envConfig.Sources.ActivityLog == "" {
		envConfig.Sources.ActivityLog = fileConfig.Sources.ActivityLog
	}
	if envConfig.Sources.TimeOnSite == "" {
		envConfig.Sources.TimeOnSite = fileConfig.Sources.TimeOnSite
	}
	if envConfig.Sources.Speeding == "" {
		envConfig.Sources.Speeding = fileConfig.Sources.Speeding
	}
	if fileConfig.Policy.LateStartCutoff != "" {
		envConfig.Policy.LateStartCutoff = fileConfig.Policy.LateStartCutoff
	}
	if fileConfig.Policy.EarlyEndCutoff != "" {
		envConfig.Policy.EarlyEndCutoff = fileConfig.Policy.EarlyEndCutoff
	}
	if fileConfig.Policy.MinimumHours > 0 {
		envConfig.Policy.MinimumHours = fileConfig.Policy.MinimumHours
	}
	if fileConfig.Output.Dir != "" {
		envConfig.Output.Dir = fileConfig.Output.Dir
	}

	return envConfig
}

// Validate validates the configuration. Window dates must parse and be
// ordered; cutoff strings must be valid wall-clock times.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Window.Start != "" || c.Window.End != "" {
		start, err := c.Window.StartDate()
		if err != nil {
			return fmt.Errorf("invalid window start %q: %w", c.Window.Start, err)
		}
		end, err := c.Window.EndDate()
		if err != nil {
			return fmt.Errorf("invalid window end %q: %w", c.Window.End, err)
		}
		if end.Before(start) {
			return fmt.Errorf("window end %s precedes start %s", c.Window.End, c.Window.Start)
		}
	}

	if _, err := domain.ParseClock(c.Policy.LateStartCutoff); err != nil {
		return fmt.Errorf("invalid late start cutoff: %w", err)
	}
	if _, err := domain.ParseClock(c.Policy.EarlyEndCutoff); err != nil {
		return fmt.Errorf("invalid early end cutoff: %w", err)
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "stdout" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/attendance.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Policy: PolicyConfig{
			LateStartCutoff: "07:30:00",
			EarlyEndCutoff:  "16:00:00",
			MinimumHours:    7.0,
		},
		Output: OutputConfig{
			Dir: "data/reports",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/attendance.log",
		},
	}
}
