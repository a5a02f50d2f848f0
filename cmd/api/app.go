package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/NikitaReddy9/applyFlow/internal/auth"
	"github.com/NikitaReddy9/applyFlow/internal/config"
	"github.com/NikitaReddy9/applyFlow/internal/database"
	"github.com/NikitaReddy9/applyFlow/internal/discovery"
	"github.com/NikitaReddy9/applyFlow/internal/handlers"
	"github.com/NikitaReddy9/applyFlow/internal/services"
	"github.com/NikitaReddy9/applyFlow/internal/throttle"
)

// app holds the wired services for one process.
type app struct {
	DB    *gorm.DB
	Redis *redis.Client

	Verifier     *auth.SupabaseVerifier
	Discovery    *services.DiscoveryService
	Preferences  *services.PreferencesService
	Jobs         *services.JobService
	Applications *services.ApplicationService
	LLM          *services.LLMService
	Mail         *services.EmailService
}

func newApp(ctx context.Context, cfg config.Config) (_ *app, err error) {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	repo := database.NewRepository(db)
	a := &app{DB: db}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	store, err := a.throttleStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	finder := discovery.NewDiscoverer(postingSource(cfg, httpClient), cfg.UpstreamTimeout)

	a.Jobs = services.NewJobService(repo)
	a.Preferences = services.NewPreferencesService(repo)
	a.Applications = services.NewApplicationService(repo, repo)
	a.Discovery = services.NewDiscoveryService(repo, a.Jobs, finder, throttle.New(store, cfg.DiscoveryCooldown))
	a.Verifier = auth.NewSupabaseVerifier(cfg.SupabaseURL, cfg.SupabaseJWTSecret)

	if cfg.AIEnabled() {
		a.LLM, err = services.NewLLMService(ctx, services.LLMConfig{
			Provider:    cfg.AIProvider,
			OpenAIKey:   cfg.OpenAIKey,
			OpenAIModel: cfg.OpenAIModel,
			GeminiKey:   cfg.GeminiKey,
			GeminiModel: cfg.GeminiModel,
			Timeout:     cfg.UpstreamTimeout,
		})
		if err != nil {
			return nil, err
		}
	} else {
		slog.Warn("no AI provider key configured, /ai is disabled", "component", "startup")
	}

	if cfg.MailEnabled() {
		oauth := auth.NewGmailOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL,
			auth.NewStateSigner(cfg.OAuthStateSecret))
		a.Mail = services.NewEmailService(repo, oauth, &services.GmailSender{OAuth: oauth}, a.Applications, cfg.UpstreamTimeout)
	} else {
		slog.Warn("Google OAuth client not configured, mail is disabled", "component", "startup")
	}
	return a, nil
}

func (a *app) throttleStore(ctx context.Context, cfg config.Config) (throttle.Store, error) {
	if cfg.RedisURL == "" {
		return throttle.NewMemoryStore(), nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	a.Redis = redis.NewClient(opts)
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	slog.Info("using redis throttle store", "component", "startup")
	return throttle.NewRedisStore(a.Redis), nil
}

func postingSource(cfg config.Config, client *http.Client) discovery.PostingSource {
	limiter := rate.NewLimiter(rate.Limit(cfg.ScrapeRatePerSec), 1)
	if cfg.AdzunaEnabled() {
		slog.Info("using adzuna posting source", "component", "startup", "country", cfg.AdzunaCountry)
		return discovery.NewAdzunaSource(cfg.AdzunaAppID, cfg.AdzunaAppKey, cfg.AdzunaCountry, client, limiter)
	}
	slog.Info("using html posting source", "component", "startup")
	return discovery.NewHTMLSource(cfg.ScrapeSearchURL, client, limiter)
}

// RouterDeps hands the HTTP layer its collaborators.
func (a *app) RouterDeps(cfg config.Config) handlers.Deps {
	return handlers.Deps{
		Verifier:       a.Verifier,
		Discovery:      a.Discovery,
		Preferences:    a.Preferences,
		Jobs:           a.Jobs,
		Applications:   a.Applications,
		LLM:            a.LLM,
		Mail:           a.Mail,
		MailSuccessURL: cfg.MailSuccessRedirect,
		MailFailureURL: cfg.MailFailureRedirect,
		CORSOrigins:    cfg.CORSOrigins,
	}
}

// Close releases the Redis client and the database pool. It is safe on a
// partially built app.
func (a *app) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
