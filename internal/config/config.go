// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type BackendConfig struct {
	// BaseURL points at the REST API root, e.g. http://localhost:8000/api
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Timezone       string `yaml:"timezone"`
}

type EmailConfig struct {
	Region string `yaml:"region"`
	Sender string `yaml:"sender"`
	// Loaded from environment
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

type AuthConfig struct {
	SessionTTLHours     int  `yaml:"session_ttl_hours"`
	LoginMaxAttempts    int  `yaml:"login_max_attempts"`
	LoginLockoutMinutes int  `yaml:"login_lockout_minutes"`
	TrustProxy          bool `yaml:"trust_proxy"`
}

type SchedulerConfig struct {
	SessionCleanup string `yaml:"session_cleanup"`
	DialogCleanup  string `yaml:"dialog_cleanup"`
}

type Config struct {
	App struct {
		Name            string `yaml:"name"`
		Environment     string `yaml:"environment"`
		Port            int    `yaml:"port"`
		BaseURL         string `yaml:"base_url"`
		StaticDir       string `yaml:"static_dir"`
		ShutdownSeconds int    `yaml:"shutdown_timeout_seconds"`
		SecretKey       string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Backend   BackendConfig   `yaml:"backend"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	Auth      AuthConfig      `yaml:"auth"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

	Features struct {
		EnableEmail bool `yaml:"enable_email"`
		EnableDebug bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
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
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
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
	if c.App.StaticDir == "" {
		c.App.StaticDir = "web/static"
	}
	if c.App.ShutdownSeconds <= 0 {
		c.App.ShutdownSeconds = 30
	}
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Auth.SessionTTLHours <= 0 {
		c.Auth.SessionTTLHours = 8
	}
	if c.Auth.LoginMaxAttempts <= 0 {
		c.Auth.LoginMaxAttempts = 5
	}
	if c.Auth.LoginLockoutMinutes <= 0 {
		c.Auth.LoginLockoutMinutes = 5
	}
	if c.Scheduler.SessionCleanup == "" {
		c.Scheduler.SessionCleanup = "*/15 * * * *"
	}
	if c.Scheduler.DialogCleanup == "" {
		c.Scheduler.DialogCleanup = "*/5 * * * *"
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.App.SecretKey == "" {
		return fmt.Errorf("APP_SECRET_KEY is required")
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url is required")
	}
	if parsed, err := url.Parse(c.Backend.BaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("backend base_url must be an absolute URL")
	}
	if c.Backend.Timezone != "" {
		if _, err := time.LoadLocation(c.Backend.Timezone); err != nil {
			return fmt.Errorf("backend timezone: %w", err)
		}
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(c.Scheduler.SessionCleanup); err != nil {
		return fmt.Errorf("scheduler session_cleanup: %w", err)
	}
	if _, err := parser.Parse(c.Scheduler.DialogCleanup); err != nil {
		return fmt.Errorf("scheduler dialog_cleanup: %w", err)
	}

	if c.Features.EnableEmail {
		if c.Email.Region == "" || c.Email.Sender == "" {
			return fmt.Errorf("email region and sender are required when email is enabled")
		}
	}

	return nil
}

// Location resolves the backend timezone, defaulting to the process zone.
func (c *Config) Location() *time.Location {
	if c.Backend.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Backend.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTLHours) * time.Hour
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.App.ShutdownSeconds) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
