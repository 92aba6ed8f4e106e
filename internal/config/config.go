package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Environment     string        `env:"ENV" envDefault:"development"`
	Port            string        `env:"PORT" envDefault:"8080"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	GlobalRPS       int           `env:"GLOBAL_RPS" envDefault:"10"`
	GlobalBurst     int           `env:"GLOBAL_BURST" envDefault:"20"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// Logging Configuration
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE" envDefault:"./logs/api.log"`
	LogRequests bool   `env:"LOG_REQUESTS" envDefault:"false"`

	// Telemetry Configuration
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"portfolio-contact"`

	Mail      MailConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Notify    NotifyConfig
}

// MailConfig holds the outgoing mail settings. A zero value is valid; it
// just leaves the contact form disabled.
type MailConfig struct {
	Host      string        `env:"SMTP_HOST"`
	Port      string        `env:"SMTP_PORT"`
	Secure    bool          `env:"SMTP_SECURE" envDefault:"false"` // implicit TLS, usually port 465
	Username  string        `env:"SMTP_USER"`
	Password  string        `env:"SMTP_PASSWORD"`
	Sender    string        `env:"SENDER_EMAIL"`
	OwnerName string        `env:"OWNER_NAME" envDefault:"Salwyn Christopher"`
	Timeout   time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`
}

// RateLimitConfig configures the per-client contact form limiter
type RateLimitConfig struct {
	MaxRequests   int           `env:"RATE_LIMIT_MAX" envDefault:"5"`
	Window        time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1h"`
	SweepInterval time.Duration `env:"RATE_LIMIT_SWEEP_INTERVAL" envDefault:"10m"`
}

// RedisConfig enables the shared rate-limit store when Addr is set
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// NotifyConfig holds optional chat notifications sent after a submission
type NotifyConfig struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `env:"TELEGRAM_CHAT_ID"`
	SlackWebhookURL  string `env:"SLACK_WEBHOOK_URL"`
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	envLocations := []string{".env"}

	// If ENV is set, try to load that specific file first
	if envName := os.Getenv("ENV"); envName != "" {
		envLocations = append([]string{fmt.Sprintf(".env.%s", envName)}, envLocations...)
	}

	for _, loc := range envLocations {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(loc); err == nil {
			break
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", c.RateLimit.MaxRequests)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimit.Window)
	}
	if c.Mail.Timeout <= 0 {
		return fmt.Errorf("SMTP_TIMEOUT must be positive, got %s", c.Mail.Timeout)
	}
	if c.GlobalRPS <= 0 || c.GlobalBurst <= 0 {
		return fmt.Errorf("GLOBAL_RPS and GLOBAL_BURST must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MissingKeys returns the environment variables the mail transport needs
// but does not have. An SMTP_PORT that is not a valid port number counts as
// missing.
func (m MailConfig) MissingKeys() []string {
	var missing []string
	if m.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if _, err := m.PortNumber(); err != nil {
		missing = append(missing, "SMTP_PORT")
	}
	if m.Username == "" {
		missing = append(missing, "SMTP_USER")
	}
	if m.Password == "" {
		missing = append(missing, "SMTP_PASSWORD")
	}
	if m.Sender == "" {
		missing = append(missing, "SENDER_EMAIL")
	}
	return missing
}

// Configured reports whether every required mail setting is present
func (m MailConfig) Configured() bool {
	return len(m.MissingKeys()) == 0
}

// PortNumber parses Port
func (m MailConfig) PortNumber() (int, error) {
	port, err := strconv.Atoi(m.Port)
	if err != nil {
		return 0, fmt.Errorf("invalid SMTP_PORT %q: %w", m.Port, err)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("SMTP_PORT %d out of range", port)
	}
	return port, nil
}

// Addr returns host:port for dialing
func (m MailConfig) Addr() string {
	return net.JoinHostPort(m.Host, m.Port)
}
