package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/NikitaReddy9/applyFlow/internal/config"
	"github.com/NikitaReddy9/applyFlow/internal/database"
	"github.com/NikitaReddy9/applyFlow/internal/handlers"
	"github.com/NikitaReddy9/applyFlow/internal/scheduler"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "applyflow",
		Short:         "Job discovery and application tracking API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(serveCmd(), migrateCmd(), discoverCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.Connect(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			return database.Migrate(db)
		},
	}
}

func discoverCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Run one discovery pass for a user's saved preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Discovery.RunUnthrottled(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(res)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id whose preferences to use")
	if err := cmd.MarkFlagRequired("user"); err != nil {
		panic(err)
	}
	return cmd
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		return cfg, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	return cfg, nil
}

func serve(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		return err
	}
	defer a.Close()

	if err := database.Migrate(a.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var sched *scheduler.Scheduler
	if cfg.DiscoveryCron != "" {
		sched, err = scheduler.New(cfg.DiscoveryCron, a.Discovery, 30*time.Minute)
		if err != nil {
			return err
		}
		sched.Start()
	}

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(a.RouterDeps(cfg))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "component", "http", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down", "component", "http")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	return srv.Shutdown(shutdownCtx)
}
