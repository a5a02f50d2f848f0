package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func baseViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.Set("DATABASE_URL", "postgres://localhost/applyflow")
	v.Set("SUPABASE_URL", "https://x.supabase.co")
	v.Set("SUPABASE_JWT_SECRET", "jwt-secret")
	v.Set("SCRAPE_SEARCH_URL", "https://jobs.test/search")
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(baseViper())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8080" || cfg.DiscoveryCooldown != 5*time.Minute || cfg.UpstreamTimeout != 15*time.Second {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.AdzunaCountry != "us" || cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("cors = %v", cfg.CORSOrigins)
	}
	if cfg.AIEnabled() || cfg.MailEnabled() || cfg.AdzunaEnabled() {
		t.Fatal("optional integrations should be off")
	}
}

func TestFromViperValidation(t *testing.T) {
	cases := map[string]struct {
		key, val string
		wantErr  string
	}{
		"missing database": {"DATABASE_URL", "", "DATABASE_URL"},
		"missing supabase": {"SUPABASE_URL", "", "SUPABASE_URL"},
		"missing jwt key":  {"SUPABASE_JWT_SECRET", "", "SUPABASE_JWT_SECRET"},
		"no source":        {"SCRAPE_SEARCH_URL", "", "SCRAPE_SEARCH_URL"},
		"bad log level":    {"LOG_LEVEL", "loud", "LOG_LEVEL"},
		"zero scrape rate": {"SCRAPE_RATE_PER_SEC", "0", "SCRAPE_RATE_PER_SEC"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			v := baseViper()
			v.Set(tc.key, tc.val)
			_, err := FromViper(v)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err = %v, want mention of %s", err, tc.wantErr)
			}
		})
	}
}

func TestMailNeedsStateSecret(t *testing.T) {
	v := baseViper()
	v.Set("GOOGLE_CLIENT_ID", "id")
	v.Set("GOOGLE_CLIENT_SECRET", "secret")
	v.Set("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/mail/callback")
	if _, err := FromViper(v); err == nil {
		t.Fatal("expected OAUTH_STATE_SECRET error")
	}
	v.Set("OAUTH_STATE_SECRET", "k")
	cfg, err := FromViper(v)
	if err != nil || !cfg.MailEnabled() {
		t.Fatalf("mail config = %v, %v", cfg.MailEnabled(), err)
	}
}

func TestCORSList(t *testing.T) {
	v := baseViper()
	v.Set("CORS_ORIGINS", "https://a.test, https://b.test,")
	cfg, err := FromViper(v)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.test" {
		t.Fatalf("cors = %v", cfg.CORSOrigins)
	}
}
