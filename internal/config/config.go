// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBirthYearCutoff    = 1995
	DefaultMaxCandidates      = 24
	MaxPickerCandidates       = 30
	DefaultResubmitCooldown   = 10 * time.Second
	DefaultAverageConcurrency = 8
	DefaultShutdownTimeout    = 30
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type EmailConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Region          string `yaml:"region"`
	Sender          string `yaml:"sender"`
	AccessKeyID     string `yaml:"-"` // Loaded from environment
	SecretAccessKey string `yaml:"-"` // Loaded from environment
}

type PickerConfig struct {
	// Players born before this year get an age; later years are treated as unknown.
	BirthYearCutoff    int           `yaml:"birth_year_cutoff"`
	MaxCandidates      int           `yaml:"max_candidates"`
	ResubmitCooldown   time.Duration `yaml:"resubmit_cooldown"`
	AverageConcurrency int           `yaml:"average_concurrency"`
	AutoPickCron       string        `yaml:"auto_pick_cron"`
}

type Config struct {
	App struct {
		Name                   string `yaml:"name"`
		Environment            string `yaml:"environment"`
		Port                   int    `yaml:"port"`
		BaseURL                string `yaml:"base_url"`
		ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
		TrustProxy             bool   `yaml:"trust_proxy"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`
	Email    EmailConfig    `yaml:"email"`
	Picker   PickerConfig   `yaml:"picker"`

	Features struct {
		EnableMetrics bool `yaml:"enable_metrics"`
		EnableDebug   bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment
	cfg.Email.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.Email.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML and fills defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.App.ShutdownTimeoutSeconds == 0 {
		c.App.ShutdownTimeoutSeconds = DefaultShutdownTimeout
	}
	c.App.BaseURL = strings.TrimRight(strings.TrimSpace(c.App.BaseURL), "/")
	if c.Picker.BirthYearCutoff == 0 {
		c.Picker.BirthYearCutoff = DefaultBirthYearCutoff
	}
	if c.Picker.MaxCandidates == 0 {
		c.Picker.MaxCandidates = DefaultMaxCandidates
	}
	if c.Picker.ResubmitCooldown == 0 {
		c.Picker.ResubmitCooldown = DefaultResubmitCooldown
	}
	if c.Picker.AverageConcurrency == 0 {
		c.Picker.AverageConcurrency = DefaultAverageConcurrency
	}
}

// ShutdownTimeout returns the graceful shutdown window.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.App.ShutdownTimeoutSeconds) * time.Second
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.App.BaseURL == "" {
		return fmt.Errorf("app base_url is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Email.Enabled {
		if c.Email.Region == "" || c.Email.Sender == "" {
			return fmt.Errorf("email region and sender are required when email is enabled")
		}
		if c.Email.AccessKeyID == "" || c.Email.SecretAccessKey == "" {
			return fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are required when email is enabled")
		}
	}

	if c.Picker.MaxCandidates < 2 {
		return fmt.Errorf("picker max_candidates must be at least 2")
	}
	if c.Picker.MaxCandidates > MaxPickerCandidates {
		return fmt.Errorf("picker max_candidates must be at most %d", MaxPickerCandidates)
	}
	if c.Picker.ResubmitCooldown < 0 {
		return fmt.Errorf("picker resubmit_cooldown must not be negative")
	}
	if c.Picker.AverageConcurrency < 1 {
		return fmt.Errorf("picker average_concurrency must be positive")
	}

	return nil
}
