// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/rosterproj/roster-mcp/internal/schema"
)

// Config holds all roster job configuration. Credentials live here and are
// handed to the boundary adapters; the extraction core never sees them.
type Config struct {
	Log LogConfig `yaml:"log" json:"log"`

	// MarkersFile overrides the embedded marker table when set.
	MarkersFile string `yaml:"markers_file" json:"markers_file"`

	Vision   VisionConfig   `yaml:"vision" json:"vision"`
	Sinks    SinksConfig    `yaml:"sinks" json:"sinks"`
	Notify   NotifyConfig   `yaml:"notify" json:"notify"`
	Schedule ScheduleConfig `yaml:"schedule" json:"schedule"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level"` // debug, info, warn, error
}

// VisionConfig selects the image-to-text service.
type VisionConfig struct {
	Provider  string   `yaml:"provider" json:"provider"` // gemini, tesseract, text
	Model     string   `yaml:"model" json:"model"`
	APIKey    string   `yaml:"api_key" json:"api_key"`
	Prompt    string   `yaml:"prompt" json:"prompt"`
	Languages []string `yaml:"languages" json:"languages"`
	Timeout   string   `yaml:"timeout" json:"timeout"`
}

type SinksConfig struct {
	CSV    CSVSinkConfig    `yaml:"csv" json:"csv"`
	Sheets SheetsSinkConfig `yaml:"sheets" json:"sheets"`
}

// CSVSinkConfig is enabled when Path is set.
type CSVSinkConfig struct {
	Path string `yaml:"path" json:"path"`
}

// SheetsSinkConfig is enabled when SpreadsheetID is set.
type SheetsSinkConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id" json:"spreadsheet_id"`
	Tab             string `yaml:"tab" json:"tab"`
	CredentialsFile string `yaml:"credentials_file" json:"credentials_file"`
}

type NotifyConfig struct {
	SMTP SMTPConfig `yaml:"smtp" json:"smtp"`
}

// SMTPConfig is enabled when Host and at least one recipient are set.
type SMTPConfig struct {
	Host     string   `yaml:"host" json:"host"`
	Port     int      `yaml:"port" json:"port"`
	Username string   `yaml:"username" json:"username"`
	Password string   `yaml:"password" json:"password"`
	From     string   `yaml:"from" json:"from"`
	To       []string `yaml:"to" json:"to"`
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && len(c.To) > 0
}

// ScheduleConfig drives the daily job.
type ScheduleConfig struct {
	Cron       string `yaml:"cron" json:"cron"`
	Attempts   int    `yaml:"attempts" json:"attempts"`
	RetryDelay string `yaml:"retry_delay" json:"retry_delay"`
	RunTimeout string `yaml:"run_timeout" json:"run_timeout"`
}

const DefaultPrompt = "Extract all the text from this duty roster image. " +
	"Return the text as is, line by line, without any modifications or formatting."

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Vision: VisionConfig{
			Provider:  "gemini",
			Model:     "gemini-2.0-flash",
			Prompt:    DefaultPrompt,
			Languages: []string{"eng"},
			Timeout:   "2m",
		},
		Sinks: SinksConfig{
			Sheets: SheetsSinkConfig{Tab: "Sheet1"},
		},
		Notify: NotifyConfig{
			SMTP: SMTPConfig{Port: 465},
		},
		Schedule: ScheduleConfig{
			Cron:       "0 18 * * *",
			Attempts:   2,
			RetryDelay: "1h",
			RunTimeout: "10m",
		},
	}
}

// Load loads configuration from a YAML file, applies environment overrides
// and validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against the CUE schema.
func (c *Config) Validate() error {
	if c.Vision.Languages == nil {
		c.Vision.Languages = []string{}
	}
	if c.Notify.SMTP.To == nil {
		c.Notify.SMTP.To = []string{}
	}
	if err := schema.Validate(schema.Config, c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides(lookup func(string) (string, bool)) {
	if v, ok := lookup("ROSTER_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup("ROSTER_GEMINI_API_KEY"); ok && v != "" {
		c.Vision.APIKey = v
	}
	if v, ok := lookup("ROSTER_VISION_PROVIDER"); ok && v != "" {
		c.Vision.Provider = v
	}
	if v, ok := lookup("ROSTER_SHEET_ID"); ok && v != "" {
		c.Sinks.Sheets.SpreadsheetID = v
	}
	if v, ok := lookup("ROSTER_SMTP_PASSWORD"); ok && v != "" {
		c.Notify.SMTP.Password = v
	}
	if v, ok := lookup("ROSTER_SMTP_PORT"); ok && v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Notify.SMTP.Port = port
		}
	}
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (v VisionConfig) TimeoutDuration() time.Duration {
	return parseDuration(v.Timeout, 2*time.Minute)
}

func (s ScheduleConfig) RetryDelayDuration() time.Duration {
	return parseDuration(s.RetryDelay, time.Hour)
}

func (s ScheduleConfig) RunTimeoutDuration() time.Duration {
	return parseDuration(s.RunTimeout, 10*time.Minute)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
