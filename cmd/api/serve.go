package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/forensic-audit/internal/application"
	appaudit "github.com/bryanwahyu/forensic-audit/internal/application/audit"
	"github.com/bryanwahyu/forensic-audit/internal/config"
	"github.com/bryanwahyu/forensic-audit/internal/domain/analysis"
	"github.com/bryanwahyu/forensic-audit/internal/domain/journal"
	aiopenai "github.com/bryanwahyu/forensic-audit/internal/infra/ai/openai"
	"github.com/bryanwahyu/forensic-audit/internal/infra/export"
	"github.com/bryanwahyu/forensic-audit/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/forensic-audit/internal/infra/storage"
	"github.com/bryanwahyu/forensic-audit/internal/middleware"
)

func newServeCmd(cfgPath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath())
			if err != nil {
				return fmt.Errorf("config load: %w", err)
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	metrics := middleware.NewMetrics()
	opts := appaudit.Options{
		Policy:          policy,
		Delay:           cfg.Analysis.Delay,
		Sleeper:         application.TimerSleeper{},
		Clock:           application.SystemClock{},
		JournalCapacity: cfg.Journal.Capacity,
		NarrateTimeout:  cfg.OpenAI.Timeout,
		Exporter:        export.NewXLSX(logger),
		Metrics:         metrics,
	}
	checkers := map[string]middleware.HealthChecker{}

	// journal + report sink (opsional)
	if cfg.Journal.Driver != "" {
		sinks, err := openSinks(ctx, cfg.Journal.Driver, cfg.Journal.DSN)
		if err != nil {
			return err
		}
		defer sinks.Close()
		opts.JournalSinks = []journal.Sink{sinks.Journal}
		opts.ReportSinks = []analysis.ReportSink{sinks.Reports}
		checkers["journal"] = &middleware.DatabaseHealthChecker{DB: sinks.DB}
		logger.Info("journal sink enabled", zap.String("driver", cfg.Journal.Driver))
	}

	// init minio
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("minio init: %w", err)
		}
		opts.ReportSinks = append(opts.ReportSinks, store)
		checkers["archive"] = middleware.CheckFunc(store.Check)
		logger.Info("report archive enabled", zap.String("bucket", cfg.Minio.BucketName))
	}

	if cfg.OpenAI.APIKey != "" {
		if cfg.OpenAI.BaseURL != "" {
			opts.Narrator = aiopenai.NewClientWithBaseURL(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)
		} else {
			opts.Narrator = aiopenai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		}
		logger.Info("verdict narrative enabled", zap.String("model", cfg.OpenAI.Model))
	}

	svc := appaudit.NewService(opts, logger)
	defer svc.Close()

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillRate)
	defer limiter.Stop()

	handler := httpserver.NewRouter(svc, httpserver.Deps{
		Logger:      logger,
		Metrics:     metrics,
		RateLimiter: limiter,
		Checkers:    checkers,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", addr), zap.String("session_id", svc.Session().Session.ID))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-stop:
	}
	logger.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
	return nil
}
