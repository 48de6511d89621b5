package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	DataSource  string `mapstructure:"DATA_SOURCE"`
	DataPath    string `mapstructure:"DATA_PATH"`
	DataWatch   bool   `mapstructure:"DATA_WATCH"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Timezone    string `mapstructure:"TIMEZONE"`

	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	JWTIssuer  string        `mapstructure:"JWT_ISSUER"`
	SessionTTL time.Duration `mapstructure:"SESSION_TTL"`
	AdminKey   string        `mapstructure:"ADMIN_KEY"`

	AIProvider   string        `mapstructure:"AI_PROVIDER"`
	AIURL        string        `mapstructure:"AI_URL"`
	AIModel      string        `mapstructure:"AI_MODEL"`
	AIAPIKey     string        `mapstructure:"AI_API_KEY"`
	GeminiAPIKey string        `mapstructure:"GEMINI_API_KEY"`
	AITimeout    time.Duration `mapstructure:"AI_TIMEOUT"`
	AIMaxTokens  int           `mapstructure:"AI_MAX_TOKENS"`
	AICacheTTL   time.Duration `mapstructure:"AI_CACHE_TTL"`
	RedisURL     string        `mapstructure:"REDIS_URL"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`
}

var defaults = map[string]any{
	"ENV":                  "dev",
	"PORT":                 "8080",
	"LOG_LEVEL":            "info",
	"CORS_ALLOWED_ORIGINS": "*",
	"REQUEST_TIMEOUT":      "30s",
	"DATA_SOURCE":          "json",
	"DATA_PATH":            "data.json",
	"DATA_WATCH":           true,
	"DATABASE_URL":         "",
	"TIMEZONE":             "Local",
	"JWT_SECRET":           "",
	"JWT_ISSUER":           "crew-assistant",
	"SESSION_TTL":          "12h",
	"ADMIN_KEY":            "",
	"AI_PROVIDER":          "none",
	"AI_URL":               "",
	"AI_MODEL":             "",
	"AI_API_KEY":           "",
	"GEMINI_API_KEY":       "",
	"AI_TIMEOUT":           "10s",
	"AI_MAX_TOKENS":        300,
	"AI_CACHE_TTL":         "10m",
	"REDIS_URL":            "",
	"KAFKA_BROKERS":        "",
	"KAFKA_TOPIC":          "crew.chat",
}

// Load reads .env (if present) and the environment. Every key has a
// default so that Unmarshal sees environment overrides.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.DataSource {
	case "json", "csv":
		if c.DataPath == "" {
			return fmt.Errorf("DATA_PATH is required for %s data", c.DataSource)
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres data")
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be json, csv or postgres, got %q", c.DataSource)
	}
	switch c.AIProvider {
	case "none", "mock", "openai", "gemini":
	default:
		return fmt.Errorf("AI_PROVIDER must be none, mock, openai or gemini, got %q", c.AIProvider)
	}
	if c.Env != "dev" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required outside dev")
	}
	return nil
}

// Location resolves TIMEZONE; naive data timestamps are read in it.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
