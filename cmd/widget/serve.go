package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jmcallister/weather-widget-service/internal/config"
	httphandler "github.com/jmcallister/weather-widget-service/internal/http"
	"github.com/jmcallister/weather-widget-service/internal/lifecycle"
	"github.com/jmcallister/weather-widget-service/internal/models"
	"github.com/jmcallister/weather-widget-service/internal/observability"
)

func newServeCmd(logger *zap.Logger, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the display model over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "config: %v\n", err)
				return err
			}
			return runServer(cfg, logger)
		},
	}
}

func runServer(cfg *config.Config, logger *zap.Logger) error {
	// No interactive prompt in server mode; the key must come from the
	// environment or the credential store.
	deps, err := buildDeps(cfg, logger, nil)
	if err != nil {
		logger.Error("setup", zap.Error(err))
		return err
	}
	defer deps.close(logger)

	var cachePing func() error
	if deps.memcached != nil {
		cachePing = deps.memcached.Ping
	}
	handler := httphandler.NewHandler(deps.widgets, deps.ttls, logger, cachePing)

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	router := mux.NewRouter()
	router.Use(httphandler.CorrelationIDMiddleware(logger))
	router.Use(httphandler.MetricsMiddleware)
	router.HandleFunc("/health", handler.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())
	widgetRouter := router.PathPrefix("/v1/widget").Subrouter()
	widgetRouter.Use(httphandler.RateLimitMiddleware(limiter))
	widgetRouter.Use(httphandler.TimeoutMiddleware(cfg.RequestTimeout))
	widgetRouter.HandleFunc("/current", handler.GetCurrent).Methods("GET")
	widgetRouter.HandleFunc("/forecast", handler.GetForecast).Methods("GET")

	if cfg.Prefetch {
		go prefetch(deps, logger)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-errCh:
		logger.Error("server", zap.Error(err))
		return err
	case <-ctx.Done():
	}

	logger.Info("graceful shutdown triggered")
	lifecycle.SetShuttingDown(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	logger.Info("waiting for in-flight requests", zap.Int64("count", httphandler.InFlightCount()))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer waitCancel()
	if err := httphandler.WaitForInFlight(waitCtx, 100*time.Millisecond); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	if err := observability.FlushTelemetry(context.Background(), logger); err != nil {
		logger.Error("telemetry flush", zap.Error(err))
	}
	logger.Info("shutdown complete")
	return nil
}

// prefetch warms both variants at startup so the first poll is served from a
// fresh cache even if the upstream is briefly down.
func prefetch(deps *deps, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, variant := range []models.Variant{models.VariantCurrent, models.VariantForecast} {
		var err error
		switch variant {
		case models.VariantForecast:
			_, err = deps.widgets.Forecast(ctx)
		default:
			_, err = deps.widgets.Current(ctx)
		}
		if err != nil {
			logger.Warn("prefetch failed", zap.String("variant", string(variant)), zap.Error(err))
			continue
		}
		logger.Info("prefetch complete", zap.String("variant", string(variant)))
	}
}
