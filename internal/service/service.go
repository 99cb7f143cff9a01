// Package service runs one widget refresh: resolve the location, attempt a
// fresh fetch, persist on success, fall back to the cache on failure. Fresh
// data always beats cached data; the cache only covers a failed fetch.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jmcallister/weather-widget-service/internal/cache"
	"github.com/jmcallister/weather-widget-service/internal/client"
	"github.com/jmcallister/weather-widget-service/internal/location"
	"github.com/jmcallister/weather-widget-service/internal/models"
	"github.com/jmcallister/weather-widget-service/internal/observability"
	"github.com/jmcallister/weather-widget-service/internal/payload"
)

// WidgetService orchestrates one invocation per variant.
type WidgetService struct {
	client  client.WeatherClient
	store   cache.Store
	locator location.Provider
	opts    client.Options
	logger  *zap.Logger
}

// NewWidgetService creates a WidgetService with the provided dependencies.
func NewWidgetService(c client.WeatherClient, store cache.Store, locator location.Provider, opts client.Options, logger *zap.Logger) *WidgetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WidgetService{
		client:  c,
		store:   store,
		locator: locator,
		opts:    opts,
		logger:  logger,
	}
}

// Result is the settled outcome of one invocation: the adopted payload, the
// place it describes, and whether it came from the cache.
type Result struct {
	Data  payload.Object
	Place location.Place
	Stale bool
}

// Current runs the refresh for the current-conditions variant.
func (s *WidgetService) Current(ctx context.Context) (Result, error) {
	return s.refresh(ctx, models.VariantCurrent)
}

// Forecast runs the refresh for the multi-day variant.
func (s *WidgetService) Forecast(ctx context.Context) (Result, error) {
	return s.refresh(ctx, models.VariantForecast)
}

func (s *WidgetService) refresh(ctx context.Context, variant models.Variant) (Result, error) {
	place, err := s.locator.Locate(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("locate: %w", err)
	}

	cachedRaw, cachedOK := s.store.Read(ctx, variant)

	start := time.Now()
	resp, fetchErr := s.fetch(ctx, variant, place)
	duration := time.Since(start)

	if fetchErr == nil {
		observability.FetchTotal.WithLabelValues(string(variant), "success").Inc()
		observability.FetchDuration.WithLabelValues(string(variant)).Observe(duration.Seconds())

		if err := s.store.Write(ctx, variant, resp.Raw); err != nil {
			observability.CacheWriteFailuresTotal.WithLabelValues(string(variant)).Inc()
			s.logger.Warn("cache write failed", zap.String("variant", string(variant)), zap.Error(err))
		}
		s.logger.Debug("fresh data adopted",
			zap.String("variant", string(variant)),
			zap.Duration("duration", duration))
		return Result{Data: resp.Body, Place: place}, nil
	}

	observability.FetchTotal.WithLabelValues(string(variant), string(client.CategorizeError(fetchErr))).Inc()

	if cachedOK {
		data, err := payload.Parse(cachedRaw)
		if err == nil {
			observability.CacheFallbackTotal.WithLabelValues(string(variant)).Inc()
			s.logger.Info("serving cached data after failed fetch",
				zap.String("variant", string(variant)),
				zap.Error(fetchErr))
			return Result{Data: data, Place: place, Stale: true}, nil
		}
		// A record that stopped parsing counts as absent, same as at the gate.
		s.logger.Warn("cached record unparsable", zap.String("variant", string(variant)), zap.Error(err))
	}

	return Result{}, fmt.Errorf("fetch %s: %w", variant, fetchErr)
}

func (s *WidgetService) fetch(ctx context.Context, variant models.Variant, place location.Place) (client.Response, error) {
	if variant == models.VariantForecast {
		return s.client.Forecast(ctx, place.Latitude, place.Longitude, s.opts)
	}
	return s.client.CurrentConditions(ctx, place.Latitude, place.Longitude, s.opts)
}
