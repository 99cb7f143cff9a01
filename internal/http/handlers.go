// Package http is the serve-mode adapter: it exposes the widget's display
// model to render targets that poll over HTTP. Each request runs the same
// single-invocation refresh the CLI does.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jmcallister/weather-widget-service/internal/cache"
	"github.com/jmcallister/weather-widget-service/internal/client"
	"github.com/jmcallister/weather-widget-service/internal/lifecycle"
	"github.com/jmcallister/weather-widget-service/internal/models"
	"github.com/jmcallister/weather-widget-service/internal/render"
	"github.com/jmcallister/weather-widget-service/internal/service"
)

// Handler holds dependencies for the HTTP handlers.
type Handler struct {
	widgets *service.WidgetService
	ttls    cache.TTLs
	logger  *zap.Logger
	// cachePing, when set, is called by the health endpoint. Used when the
	// backend is memcached.
	cachePing func() error
}

// NewHandler returns a new Handler.
func NewHandler(widgets *service.WidgetService, ttls cache.TTLs, logger *zap.Logger, cachePing func() error) *Handler {
	return &Handler{
		widgets:   widgets,
		ttls:      ttls,
		logger:    logger,
		cachePing: cachePing,
	}
}

// GetCurrent handles GET /v1/widget/current.
func (h *Handler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	result, err := h.widgets.Current(r.Context())
	if err != nil {
		writeRefreshError(w, r, err)
		return
	}
	model := render.Current(result.Data, result.Place.Label, time.Now(), h.ttls.For(models.VariantCurrent), result.Stale)
	writeJSON(w, http.StatusOK, model)
}

// GetForecast handles GET /v1/widget/forecast.
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	result, err := h.widgets.Forecast(r.Context())
	if err != nil {
		writeRefreshError(w, r, err)
		return
	}
	model := render.Forecast(result.Data, result.Place.Label, time.Now(), h.ttls.For(models.VariantForecast), result.Stale)
	writeJSON(w, http.StatusOK, model)
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	if lifecycle.IsShuttingDown() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "shutting-down",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	status := "healthy"
	statusCode := http.StatusOK
	checks := map[string]string{}
	if h.cachePing != nil {
		if h.cachePing() == nil {
			checks["cache"] = "healthy"
		} else {
			checks["cache"] = "unhealthy"
			status = "degraded"
		}
	}

	writeJSON(w, statusCode, map[string]interface{}{
		"status":    status,
		"service":   "weather-widget-service",
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// writeRefreshError maps a failed refresh (no fresh data, no usable cache) to
// the minimal error display the widget shows.
func writeRefreshError(w http.ResponseWriter, r *http.Request, err error) {
	if logger, ok := r.Context().Value("logger").(*zap.Logger); ok && logger != nil {
		logger.Error("widget refresh failed", zap.Error(err))
	}

	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		writeError(w, r, http.StatusBadGateway, "UPSTREAM_FAILURE",
			fmt.Sprintf("weather API returned HTTP %d", apiErr.Status))
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", "weather API timed out")
	default:
		writeError(w, r, http.StatusBadGateway, "UPSTREAM_FAILURE", "weather data unavailable")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
