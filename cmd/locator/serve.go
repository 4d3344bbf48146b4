package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/nivaran/internal/api"
	"github.com/UnknownOlympus/nivaran/internal/metrics"
	"github.com/UnknownOlympus/nivaran/internal/report"
	"github.com/UnknownOlympus/nivaran/internal/repository"
	"github.com/UnknownOlympus/nivaran/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var cacheMaxAge time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the report form API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Cancelled on Ctrl+C or SIGTERM for a graceful shutdown.
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Dedicated registry with the Go and process collectors.
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		appMetrics := metrics.NewMetrics(reg)

		var (
			cache  repository.Interface
			pinger api.Pinger
		)
		if cfg.CacheEnabled {
			dtb, err := repository.NewDatabase(
				ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
			)
			if err != nil {
				return fmt.Errorf("failed to connect to DB: %w", err)
			}
			defer dtb.Close()

			repo := repository.NewRepository(dtb, logger)
			if err = prepareCache(ctx, repo); err != nil {
				return err
			}
			cache, pinger = repo, dtb
		}

		providers, err := newClients(appMetrics, cache)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "Location providers initialized",
			"suggest", cfg.SuggestProvider, "geocode", cfg.GeocodeProvider, "cache", cfg.CacheEnabled)

		sessions := service.NewSessionService(logger, appMetrics, providers.fieldFactory(appMetrics), cfg.SessionTTL)
		handler := api.NewHandler(logger, sessions, report.NewService(logger, cfg.Country))

		if cfg.Env != envLocal {
			gin.SetMode(gin.ReleaseMode)
		}
		router := api.NewRouter(api.RouterConfig{
			Logger:      logger,
			Handler:     handler,
			Gatherer:    reg,
			Database:    pinger,
			CORSOrigins: cfg.CORSOrigins,
		})

		readTimeout := 5
		writeTimeout := 10
		server := &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		}

		group, gctx := errgroup.WithContext(ctx)
		group.Go(func() error {
			sessions.Run(gctx)
			return nil
		})
		group.Go(func() error {
			logger.InfoContext(gctx, "Starting API server", "port", cfg.Port)
			if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				return fmt.Errorf("API server failed: %w", serveErr)
			}
			return nil
		})
		group.Go(func() error {
			<-gctx.Done()
			logger.InfoContext(gctx, "Shutdown signal received. Stopping application...")

			const shutdownTimeout = 10 * time.Second
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})

		if err = group.Wait(); err != nil {
			return err
		}

		logger.InfoContext(ctx, "Application stopped gracefully.")
		return nil
	},
}

func init() {
	serveCmd.Flags().DurationVar(&cacheMaxAge, "cache-max-age", 30*24*time.Hour,
		"drop cached addresses older than this on startup, 0 keeps them")
	rootCmd.AddCommand(serveCmd)
}

// prepareCache creates the cache table and drops stale entries.
func prepareCache(ctx context.Context, repo *repository.Repository) error {
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to prepare reverse geocode cache: %w", err)
	}
	if cacheMaxAge <= 0 {
		return nil
	}

	purged, err := repo.PurgeOlderThan(ctx, cacheMaxAge)
	if err != nil {
		logger.WarnContext(ctx, "Failed to purge reverse geocode cache", "error", err)
		return nil
	}
	logger.InfoContext(ctx, "Purged stale cached addresses", "count", purged)

	return nil
}
