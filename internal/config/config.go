package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Mail      MailConfig      `yaml:"mail"`
	WhatsApp  WhatsAppConfig  `yaml:"whatsapp"`
	Report    ReportConfig    `yaml:"report"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Timezone  string          `yaml:"timezone" envconfig:"TIMEZONE"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port           string   `yaml:"port" envconfig:"PORT"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig contains document store connection settings
type DatabaseConfig struct {
	URI      string `yaml:"uri" envconfig:"MONGO_URI"`
	Database string `yaml:"database" envconfig:"MONGO_DB"`
}

// MailConfig contains SMTP relay settings
type MailConfig struct {
	Host     string `yaml:"host" envconfig:"SMTP_HOST"`
	Port     int    `yaml:"port" envconfig:"SMTP_PORT"`
	User     string `yaml:"user" envconfig:"SMTP_USER"`
	Password string `yaml:"password" envconfig:"SMTP_PASS"`
	From     string `yaml:"from" envconfig:"SMTP_FROM"`
}

// WhatsAppConfig contains messaging-provider credentials and sender identity
type WhatsAppConfig struct {
	AccountSID string `yaml:"account_sid" envconfig:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `yaml:"auth_token" envconfig:"TWILIO_AUTH_TOKEN"`
	From       string `yaml:"from" envconfig:"TWILIO_WHATSAPP_FROM"`
}

// ReportConfig contains report pipeline settings
type ReportConfig struct {
	DailyRunEnabled bool   `yaml:"daily_run_enabled" envconfig:"REPORT_DAILY_ENABLED"`
	DailyRunTime    string `yaml:"daily_run_time" envconfig:"REPORT_DAILY_TIME"`

	// Fixed destinations for the scheduled job.
	Email          string `yaml:"email" envconfig:"REPORT_EMAIL"`
	WhatsAppNumber string `yaml:"whatsapp_number" envconfig:"REPORT_WHATSAPP_NUMBER"`

	// FilterPolicy selects the row policy applied before rendering:
	// "none" sends the full set as stored, "recent" keeps the trailing
	// 24 hours sorted by visit time descending.
	FilterPolicy string `yaml:"filter_policy" envconfig:"REPORT_FILTER_POLICY"`

	ChatCharBudget   int `yaml:"chat_char_budget" envconfig:"CHAT_CHAR_BUDGET"`
	ChatDelaySeconds int `yaml:"chat_delay_seconds" envconfig:"CHAT_DELAY_SECONDS"`
	RecencyWindowHrs int `yaml:"recency_window_hours"`
}

// RateLimitConfig caps how often deliveries can be triggered over HTTP
type RateLimitConfig struct {
	Enabled        bool `yaml:"enabled" envconfig:"RATE_LIMIT_ENABLED"`
	SendsPerMinute int  `yaml:"sends_per_minute"`
	SendsPerDay    int  `yaml:"sends_per_day"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8084",
			AllowedOrigins: []string{"http://localhost:5176"},
		},
		Database: DatabaseConfig{
			URI:      "mongodb://localhost:27017",
			Database: "realestate",
		},
		Mail: MailConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Report: ReportConfig{
			DailyRunEnabled:  false,
			DailyRunTime:     "20:00",
			FilterPolicy:     "recent",
			ChatCharBudget:   1500,
			ChatDelaySeconds: 2,
			RecencyWindowHrs: 24,
		},
		RateLimit: RateLimitConfig{
			Enabled:        true,
			SendsPerMinute: 10,
			SendsPerDay:    500,
		},
		Timezone: "Asia/Kolkata",
	}
}

// LoadConfig loads configuration from a YAML file, then applies
// environment overrides on top
func LoadConfig(filepath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	// If file doesn't exist, fall through to env overrides
	if _, err := os.Stat(filepath); err == nil {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	return config, nil
}

// Location resolves the configured timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetChatDelay returns the inter-chunk pacing delay as a duration
func (c *ReportConfig) GetChatDelay() time.Duration {
	return time.Duration(c.ChatDelaySeconds) * time.Second
}

// GetRecencyWindow returns the recency filter window as a duration
func (c *ReportConfig) GetRecencyWindow() time.Duration {
	return time.Duration(c.RecencyWindowHrs) * time.Hour
}
