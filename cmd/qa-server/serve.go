package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-qa-backend/internal/config"
	httpapi "github.com/tbourn/go-qa-backend/internal/http"
	"github.com/tbourn/go-qa-backend/internal/observability"
	"github.com/tbourn/go-qa-backend/internal/repo"
	"github.com/tbourn/go-qa-backend/internal/sysutil"
)

var (
	serveEnvFile string
	servePort    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server.

Seed data is read from QUESTIONS_PATH and ANSWERS_PATH when set. The server
stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if serveEnvFile != "" {
			if err := godotenv.Load(serveEnvFile); err != nil {
				return fmt.Errorf("load env file: %w", err)
			}
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		cfg.Port = sysutil.FirstNonEmpty(servePort, cfg.Port)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ln, err := net.Listen("tcp", ":"+cfg.Port)
		if err != nil {
			return err
		}
		return run(ctx, cfg, ln)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveEnvFile, "env-file", "", "load environment variables from this .env file first")
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

// run serves the API on ln until ctx is cancelled, then drains in-flight
// requests for at most cfg.ShutdownTimeout.
func run(ctx context.Context, cfg config.Config, ln net.Listener) error {
	logger := sysutil.SetupLogging(cfg.LogLevel, cfg.LogPretty, os.Stdout)
	gin.SetMode(cfg.GinMode)

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, Version)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			logger.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	st, err := repo.NewSeeded(cfg.QuestionsPath, cfg.AnswersPath)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	q, a := st.Counts()
	logger.Info().Int("questions", q).Int("answers", a).Msg("store seeded")

	db, err := repo.OpenSQLite(cfg.IdempotencyDSN)
	if err != nil {
		return fmt.Errorf("open idempotency ledger: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate idempotency ledger: %w", err)
	}
	if n, err := repo.NewLedger(db).Purge(ctx, time.Now().UTC()); err != nil {
		logger.Warn().Err(err).Msg("purge expired idempotency keys")
	} else if n > 0 {
		logger.Info().Int64("purged", n).Msg("expired idempotency keys removed")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, st, db, cfg)

	srv := &http.Server{
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", ln.Addr().String()).Str("version", Version).Msg("listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
