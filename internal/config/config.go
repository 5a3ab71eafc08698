package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName          = "ChamaBot"
	defaultAppEnv           = "development"
	defaultPort             = "8080"
	defaultLogLevel         = "info"
	defaultLogFormat        = "json"
	defaultShutdownDelay    = 10 * time.Second
	defaultDedupTTL         = 24 * time.Hour
	defaultAssistantBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultAssistantModel   = "mistralai/mixtral-8x7b"
	defaultAssistantTimeout = 30 * time.Second

	defaultExpectedWelfare   = 500
	defaultExpectedEmergency = 1000
	defaultExpectedSavings   = 1500
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	LogFormat      string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	DedupTTL       time.Duration

	AssistantAPIKey  string
	AssistantBaseURL string
	AssistantModel   string
	AssistantTimeout time.Duration

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string

	// Expected monthly targets per category, in whole KES.
	ExpectedWelfare   int64
	ExpectedEmergency int64
	ExpectedSavings   int64
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", defaultLogFormat)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		ShutdownPeriod: defaultShutdownDelay,
		DedupTTL:       defaultDedupTTL,

		AssistantAPIKey:  os.Getenv("ASSISTANT_API_KEY"),
		AssistantBaseURL: getEnv("ASSISTANT_BASE_URL", defaultAssistantBaseURL),
		AssistantModel:   getEnv("ASSISTANT_MODEL", defaultAssistantModel),
		AssistantTimeout: defaultAssistantTimeout,

		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),

		ExpectedWelfare:   defaultExpectedWelfare,
		ExpectedEmergency: defaultExpectedEmergency,
		ExpectedSavings:   defaultExpectedSavings,
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv("DEDUP_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DEDUP_TTL: %w", err)
		}
		cfg.DedupTTL = d
	}

	if v := os.Getenv("ASSISTANT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ASSISTANT_TIMEOUT: %w", err)
		}
		cfg.AssistantTimeout = d
	}

	for _, target := range []struct {
		key  string
		dest *int64
	}{
		{"EXPECTED_WELFARE", &cfg.ExpectedWelfare},
		{"EXPECTED_EMERGENCY", &cfg.ExpectedEmergency},
		{"EXPECTED_SAVINGS", &cfg.ExpectedSavings},
	} {
		v := os.Getenv(target.key)
		if v == "" {
			continue
		}
		amount, err := strconv.ParseInt(v, 10, 64)
		if err != nil || amount <= 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", target.key, v)
		}
		*target.dest = amount
	}

	if cfg.DatabaseURL == "" && !cfg.IsDev() {
		return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
	}

	return cfg, nil
}

// IsDev reports whether the app runs in a local development environment,
// where the in-memory store and logging sender substitute for Postgres,
// Redis and Twilio.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
