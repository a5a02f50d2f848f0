// Package config resolves runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	LogLevel    slog.Level

	SupabaseURL       string
	SupabaseJWTSecret string

	AIProvider  string
	OpenAIKey   string
	OpenAIModel string
	GeminiKey   string
	GeminiModel string

	GoogleClientID      string
	GoogleClientSecret  string
	GoogleRedirectURL   string
	OAuthStateSecret    string
	MailSuccessRedirect string
	MailFailureRedirect string

	AdzunaAppID      string
	AdzunaAppKey     string
	AdzunaCountry    string
	ScrapeSearchURL  string
	ScrapeRatePerSec float64

	DiscoveryCooldown time.Duration
	UpstreamTimeout   time.Duration
	DiscoveryCron     string
	CORSOrigins       []string
}

// AIEnabled reports whether the selected provider has a key.
func (c Config) AIEnabled() bool {
	if c.AIProvider == "googleai" || c.AIProvider == "gemini" {
		return c.GeminiKey != ""
	}
	return c.OpenAIKey != ""
}

// MailEnabled reports whether the Google OAuth client is configured.
func (c Config) MailEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// AdzunaEnabled reports whether the structured search API can be used.
func (c Config) AdzunaEnabled() bool {
	return c.AdzunaAppID != "" && c.AdzunaAppKey != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("AI_PROVIDER", "openai")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("ADZUNA_COUNTRY", "us")
	v.SetDefault("SCRAPE_RATE_PER_SEC", 1.0)
	v.SetDefault("DISCOVERY_COOLDOWN", "5m")
	v.SetDefault("UPSTREAM_TIMEOUT", "15s")
	v.SetDefault("CORS_ORIGINS", "*")
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return FromViper(v)
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:        v.GetString("PORT"),
		DatabaseURL: v.GetString("DATABASE_URL"),
		RedisURL:    v.GetString("REDIS_URL"),

		SupabaseURL:       v.GetString("SUPABASE_URL"),
		SupabaseJWTSecret: v.GetString("SUPABASE_JWT_SECRET"),

		AIProvider:  strings.ToLower(v.GetString("AI_PROVIDER")),
		OpenAIKey:   v.GetString("OPENAI_API_KEY"),
		OpenAIModel: v.GetString("OPENAI_MODEL"),
		GeminiKey:   v.GetString("GEMINI_API_KEY"),
		GeminiModel: v.GetString("GEMINI_MODEL"),

		GoogleClientID:      v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:  v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:   v.GetString("GOOGLE_REDIRECT_URL"),
		OAuthStateSecret:    v.GetString("OAUTH_STATE_SECRET"),
		MailSuccessRedirect: v.GetString("MAIL_SUCCESS_REDIRECT"),
		MailFailureRedirect: v.GetString("MAIL_FAILURE_REDIRECT"),

		AdzunaAppID:      v.GetString("ADZUNA_APP_ID"),
		AdzunaAppKey:     v.GetString("ADZUNA_APP_KEY"),
		AdzunaCountry:    v.GetString("ADZUNA_COUNTRY"),
		ScrapeSearchURL:  v.GetString("SCRAPE_SEARCH_URL"),
		ScrapeRatePerSec: v.GetFloat64("SCRAPE_RATE_PER_SEC"),

		DiscoveryCooldown: v.GetDuration("DISCOVERY_COOLDOWN"),
		UpstreamTimeout:   v.GetDuration("UPSTREAM_TIMEOUT"),
		DiscoveryCron:     v.GetString("DISCOVERY_CRON"),
		CORSOrigins:       splitList(v.GetString("CORS_ORIGINS")),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	required := []struct{ key, val string }{
		{"DATABASE_URL", c.DatabaseURL},
		{"SUPABASE_URL", c.SupabaseURL},
		{"SUPABASE_JWT_SECRET", c.SupabaseJWTSecret},
	}
	for _, r := range required {
		if r.val == "" {
			return fmt.Errorf("config: %s is required", r.key)
		}
	}
	if c.MailEnabled() && c.OAuthStateSecret == "" {
		return fmt.Errorf("config: OAUTH_STATE_SECRET is required when Google mail is configured")
	}
	if !c.AdzunaEnabled() && c.ScrapeSearchURL == "" {
		return fmt.Errorf("config: set ADZUNA_APP_ID and ADZUNA_APP_KEY or SCRAPE_SEARCH_URL")
	}
	if c.ScrapeRatePerSec <= 0 {
		return fmt.Errorf("config: SCRAPE_RATE_PER_SEC must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
