package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is the dotenv file read by Load when present
const DefaultEnvFile = ".env"

// ErrMissingCredentials is returned when a required credential variable is unset or empty
var ErrMissingCredentials = errors.New("missing required credentials")

// MissingCredentialsError lists every required variable that was not provided
type MissingCredentialsError struct {
	Vars []string
}

// Error implements the error interface
func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Vars, ", "))
}

// Unwrap returns the sentinel for errors.Is support
func (e *MissingCredentialsError) Unwrap() error {
	return ErrMissingCredentials
}

// Config holds all configuration for the daily quote mailer
type Config struct {
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	ExitOnFailure bool   `env:"EXIT_ON_FAILURE" envDefault:"false"`

	// LLM configuration
	LLM LLMConfig

	// Mail configuration
	Mail MailConfig

	// Redis run guard configuration
	Redis RedisConfig

	// Metrics export configuration
	Metrics MetricsConfig
}

// LLMConfig holds completion provider configuration
type LLMConfig struct {
	APIKey  string `env:"ANTHROPIC_API_KEY"`
	BaseURL string `env:"ANTHROPIC_BASE_URL"`

	Model          string        `env:"LLM_MODEL" envDefault:"claude-3-5-sonnet-20241022"`
	MaxTokens      int64         `env:"LLM_MAX_TOKENS" envDefault:"1000"`
	Temperature    float64       `env:"LLM_TEMPERATURE" envDefault:"0"`
	RequestTimeout time.Duration `env:"LLM_REQUEST_TIMEOUT" envDefault:"120s"`
}

// MailConfig holds SMTP submission and mailing list configuration
type MailConfig struct {
	SMTPHost       string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort       int           `env:"SMTP_PORT" envDefault:"587"`
	SenderEmail    string        `env:"SENDER_EMAIL"`
	SenderPassword string        `env:"SENDER_APP_PASSWORD"`
	Timeout        time.Duration `env:"SMTP_TIMEOUT" envDefault:"30s"`

	MailingList   []string `env:"MAILING_LIST" envSeparator:"," envDefault:"recipient1@example.com,recipient2@example.com"`
	RecipientName string   `env:"RECIPIENT_NAME" envDefault:"Team"`
}

// RedisConfig holds Redis connection configuration. An empty Addr disables the run guard.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASS"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	GuardTTL time.Duration `env:"RUN_GUARD_TTL" envDefault:"20h"`
}

// MetricsConfig holds metrics export targets. Both are optional.
type MetricsConfig struct {
	TextfilePath   string `env:"METRICS_TEXTFILE"`
	PushgatewayURL string `env:"METRICS_PUSHGATEWAY_URL"`
}

// Load reads the default .env file, if any, then configuration from environment variables
func Load() (*Config, error) {
	return LoadWithEnvFile(DefaultEnvFile)
}

// LoadWithEnvFile reads envFile, if it exists, then configuration from environment variables.
// Variables already present in the environment take precedence over the file.
func LoadWithEnvFile(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Mail.MailingList = normalizeList(cfg.Mail.MailingList)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		missing = append(missing, "ANTHROPIC_API_KEY")
	}
	if strings.TrimSpace(c.Mail.SenderEmail) == "" {
		missing = append(missing, "SENDER_EMAIL")
	}
	if c.Mail.SenderPassword == "" {
		missing = append(missing, "SENDER_APP_PASSWORD")
	}
	if len(missing) > 0 {
		return &MissingCredentialsError{Vars: missing}
	}

	// Validate LLM config
	if c.LLM.Model == "" {
		return fmt.Errorf("LLM model is required")
	}
	if c.LLM.MaxTokens < 1 {
		return fmt.Errorf("LLM max tokens must be at least 1")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		return fmt.Errorf("LLM temperature must be between 0 and 1: %v", c.LLM.Temperature)
	}

	// Validate mail config
	if c.Mail.SMTPHost == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.Mail.SMTPPort < 1 || c.Mail.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.Mail.SMTPPort)
	}
	if len(c.Mail.MailingList) == 0 {
		return fmt.Errorf("mailing list must have at least one address")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetSMTPAddr returns the SMTP submission address
func (c *Config) GetSMTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Mail.SMTPHost, c.Mail.SMTPPort)
}

// GuardEnabled reports whether a Redis run guard is configured
func (c *Config) GuardEnabled() bool {
	return c.Redis.Addr != ""
}

func normalizeList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
