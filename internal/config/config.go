package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration

	LogLevel  string
	LogFormat string

	Google GoogleConfig
	Odoo   OdooConfig

	SyncTimeout time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

type GoogleConfig struct {
	CredentialsFile string
	CalendarID      string
}

func (g GoogleConfig) IsConfigured() bool {
	return g.CredentialsFile != "" && g.CalendarID != ""
}

type OdooConfig struct {
	URL      string
	Database string
	UserID   int
	APIKey   string
}

func (o OdooConfig) IsConfigured() bool {
	return o.URL != "" && o.Database != "" && o.UserID > 0 && o.APIKey != ""
}

// Load reads configuration from the environment, honouring a .env file when
// present. Only DATABASE_URL and JWT_SECRET are mandatory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTTTL:      getDuration("JWT_TTL", 24*time.Hour),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		Google: GoogleConfig{
			CredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
			CalendarID:      os.Getenv("GOOGLE_CALENDAR_ID"),
		},
		Odoo: OdooConfig{
			URL:      os.Getenv("ODOO_URL"),
			Database: os.Getenv("ODOO_DB"),
			UserID:   getInt("ODOO_USER_ID", 0),
			APIKey:   os.Getenv("ODOO_API_KEY"),
		},
		SyncTimeout:    getDuration("SYNC_TIMEOUT", 15*time.Second),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 5),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
