// Command widget is the weather widget backend. The current and forecast
// subcommands run a single refresh and print the display model as JSON for
// the render target; serve exposes the same refresh over HTTP.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmcallister/weather-widget-service/internal/cache"
	"github.com/jmcallister/weather-widget-service/internal/client"
	"github.com/jmcallister/weather-widget-service/internal/config"
	"github.com/jmcallister/weather-widget-service/internal/credentials"
	"github.com/jmcallister/weather-widget-service/internal/location"
	"github.com/jmcallister/weather-widget-service/internal/models"
	"github.com/jmcallister/weather-widget-service/internal/observability"
	"github.com/jmcallister/weather-widget-service/internal/render"
	"github.com/jmcallister/weather-widget-service/internal/service"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := newRootCmd(logger).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "widget",
		Short:         "Weather widget backend",
		Long:          "Fetches current conditions and the daily forecast, caches them locally, and emits ready-to-render display values.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	root.AddCommand(
		newOneShotCmd(logger, &configPath, models.VariantCurrent,
			"current", "Print the current-conditions display model"),
		newOneShotCmd(logger, &configPath, models.VariantForecast,
			"forecast", "Print the forecast display model"),
		newServeCmd(logger, &configPath),
	)
	return root
}

// newOneShotCmd builds the current/forecast subcommand: one refresh, one JSON
// document on stdout. Diagnostics go to stderr so stdout stays parseable.
func newOneShotCmd(logger *zap.Logger, configPath *string, variant models.Variant, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "config: %v\n", err)
				return err
			}

			deps, err := buildDeps(cfg, logger, credentials.StdinPrompt())
			if err != nil {
				fmt.Fprintf(os.Stderr, "setup: %v\n", err)
				return err
			}
			defer deps.close(logger)

			var result service.Result
			switch variant {
			case models.VariantForecast:
				result, err = deps.widgets.Forecast(cmd.Context())
			default:
				result, err = deps.widgets.Current(cmd.Context())
			}
			if err != nil {
				writeErrorDisplay(cmd.OutOrStdout(), err)
				return err
			}

			now := time.Now()
			var model models.DisplayModel
			if variant == models.VariantForecast {
				model = render.Forecast(result.Data, result.Place.Label, now, deps.ttls.For(variant), result.Stale)
			} else {
				model = render.Current(result.Data, result.Place.Label, now, deps.ttls.For(variant), result.Stale)
			}
			return writeModel(cmd.OutOrStdout(), model)
		},
	}
}

func writeModel(w io.Writer, model models.DisplayModel) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(model)
}

// writeErrorDisplay emits the minimal error model: a message and a short
// retry hint, so the render target shows something actionable instead of
// going blank.
func writeErrorDisplay(w io.Writer, err error) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(map[string]interface{}{
		"error":       errorMessage(err),
		"nextRefresh": time.Now().Add(time.Minute).UTC(),
	})
}

func errorMessage(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, credentials.ErrMissing):
		return "no weather API key configured"
	case errors.Is(err, client.ErrInvalidAPIKey):
		return "weather API rejected the configured key"
	case errors.Is(err, client.ErrRateLimited):
		return "weather API rate limit reached"
	case errors.As(err, &apiErr):
		return fmt.Sprintf("weather API returned HTTP %d", apiErr.Status)
	default:
		return "weather data unavailable"
	}
}

// deps is the wired object graph shared by the one-shot and serve commands.
type deps struct {
	widgets   *service.WidgetService
	ttls      cache.TTLs
	memcached *cache.MemcachedStore
}

func (d *deps) close(logger *zap.Logger) {
	if d.memcached == nil {
		return
	}
	if err := d.memcached.Close(); err != nil {
		logger.Error("memcached close", zap.Error(err))
	}
}

func buildDeps(cfg *config.Config, logger *zap.Logger, prompt credentials.PromptFunc) (*deps, error) {
	creds := credentials.NewStore(cfg.StateDir, prompt)
	apiKey, err := creds.APIKey()
	if err != nil {
		return nil, err
	}

	weatherClient, err := client.New(apiKey, cfg.WeatherAPIURL, cfg.WeatherAPITimeout)
	if err != nil {
		return nil, fmt.Errorf("weather client: %w", err)
	}

	ttls := cache.TTLs{Current: cfg.CurrentTTL, Forecast: cfg.ForecastTTL}
	var store cache.Store
	var mc *cache.MemcachedStore
	switch cfg.CacheBackend {
	case "memcached":
		mc = cache.NewMemcachedStore(cfg.MemcachedAddrs, ttls, cfg.MemcachedTimeout, cfg.MemcachedMaxIdleConns)
		store = mc
		logger.Info("cache backend: memcached", zap.String("addrs", cfg.MemcachedAddrs))
	case "in_memory":
		store = cache.NewMemoryStore(ttls)
		logger.Info("cache backend: in_memory")
	default:
		dir := filepath.Join(cfg.StateDir, "cache")
		store = cache.NewFileStore(dir, ttls)
		logger.Info("cache backend: file", zap.String("dir", dir))
	}

	var locator location.Provider
	if cfg.UseGeocoder() {
		locator = location.NewGeocoder(cfg.GeocoderAPIKey, cfg.Place)
	} else {
		locator, err = location.NewStatic(cfg.Latitude, cfg.Longitude, cfg.Label)
		if err != nil {
			return nil, err
		}
	}

	opts := client.Options{
		LanguageCode: cfg.LanguageCode,
		UnitsSystem:  cfg.UnitsSystem,
		Days:         cfg.ForecastDays,
	}
	return &deps{
		widgets:   service.NewWidgetService(weatherClient, store, locator, opts, logger),
		ttls:      ttls,
		memcached: mc,
	}, nil
}
