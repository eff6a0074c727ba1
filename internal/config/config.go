package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port              string        `mapstructure:"PORT"`
	Env               string        `mapstructure:"ENV"`
	MongoURI          string        `mapstructure:"MONGO_URI"`
	MongoDatabase     string        `mapstructure:"MONGO_DATABASE"`
	MongoTransactions bool          `mapstructure:"MONGO_TRANSACTIONS"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTExpiry         time.Duration `mapstructure:"JWT_EXPIRY"`
	BcryptCost        int           `mapstructure:"BCRYPT_COST"`
	CORSOrigins       []string      `mapstructure:"CORS_ORIGINS"`
	RedisURL          string        `mapstructure:"REDIS_URL"`
	CacheTTL          time.Duration `mapstructure:"CACHE_TTL"`
	TextbeltAPIKey    string        `mapstructure:"TEXTBELT_API_KEY"`
	TextbeltURL       string        `mapstructure:"TEXTBELT_URL"`
	SMTPHost          string        `mapstructure:"SMTP_HOST"`
	SMTPPort          int           `mapstructure:"SMTP_PORT"`
	SMTPUser          string        `mapstructure:"SMTP_USER"`
	SMTPPass          string        `mapstructure:"SMTP_PASS"`
	SMTPFrom          string        `mapstructure:"SMTP_FROM"`
	ReminderSchedule  string        `mapstructure:"REMINDER_SCHEDULE"`
}

// devSecret signs tokens when JWT_SECRET is unset outside production.
const devSecret = "medconnect-dev-secret"

var keys = []string{
	"PORT", "ENV", "MONGO_URI", "MONGO_DATABASE", "MONGO_TRANSACTIONS",
	"JWT_SECRET", "JWT_EXPIRY", "BCRYPT_COST", "CORS_ORIGINS",
	"REDIS_URL", "CACHE_TTL", "TEXTBELT_API_KEY", "TEXTBELT_URL",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "SMTP_FROM",
	"REMINDER_SCHEDULE",
}

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5001")
	v.SetDefault("ENV", "development")
	v.SetDefault("MONGO_DATABASE", "medconnect")
	v.SetDefault("MONGO_TRANSACTIONS", true)
	v.SetDefault("JWT_EXPIRY", "720h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("TEXTBELT_URL", "https://textbelt.com/text")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("REMINDER_SCHEDULE", "0 8 * * *")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitList(strings.Join(cfg.CORSOrigins, ","))

	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = devSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.IsProduction() && c.JWTSecret == devSecret {
		return fmt.Errorf("JWT_SECRET must be changed from the development default in production")
	}
	if c.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.JWTExpiry)
	}
	return nil
}
