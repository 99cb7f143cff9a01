// Package client fetches raw payloads from the upstream weather API. It does
// no interpretation beyond JSON decoding and performs no retries; the
// orchestration layer owns the single fallback-to-cache policy.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jmcallister/weather-widget-service/internal/payload"
)

// DefaultTimeout bounds every upstream call.
const DefaultTimeout = 12 * time.Second

var (
	ErrInvalidAPIKey   = errors.New("invalid API key")
	ErrRateLimited     = errors.New("rate limited")
	ErrUpstreamFailure = errors.New("upstream failure")
)

// APIError is returned for any HTTP status >= 400, carrying the status code
// for the caller's error display.
type APIError struct {
	Status int
	Err    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("weather api: HTTP %d: %v", e.Status, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Options are the per-request query knobs.
type Options struct {
	LanguageCode string // BCP-47 tag, default "en"
	UnitsSystem  string // "METRIC" or "IMPERIAL", default "METRIC"
	Days         int    // forecast only, default 5
}

// Response is a successful lookup: the parsed body plus the raw bytes the
// cache gate persists verbatim.
type Response struct {
	Body payload.Object
	Raw  json.RawMessage
}

// WeatherClient is implemented by the upstream fetcher.
type WeatherClient interface {
	CurrentConditions(ctx context.Context, lat, lon float64, opts Options) (Response, error)
	Forecast(ctx context.Context, lat, lon float64, opts Options) (Response, error)
}

// Client calls the weather API over HTTP.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a Client. baseURL is the API root without a trailing slash.
func New(apiKey, baseURL string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidAPIKey)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// CurrentConditions fetches the flat current-conditions payload.
func (c *Client) CurrentConditions(ctx context.Context, lat, lon float64, opts Options) (Response, error) {
	return c.lookup(ctx, "/currentConditions:lookup", lat, lon, opts, false)
}

// Forecast fetches the {forecastDays: [...]} payload.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, opts Options) (Response, error) {
	return c.lookup(ctx, "/forecast/days:lookup", lat, lon, opts, true)
}

func (c *Client) lookup(ctx context.Context, path string, lat, lon float64, opts Options, withDays bool) (Response, error) {
	req, err := c.buildRequest(ctx, path, lat, lon, opts, withDays)
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Response{}, fmt.Errorf("request timeout: %w", err)
		}
		return Response{}, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Response{}, &APIError{Status: resp.StatusCode, Err: categorizeStatus(resp.StatusCode)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read response body: %w", err)
	}
	body, err := payload.Parse(raw)
	if err != nil {
		return Response{}, err
	}
	return Response{Body: body, Raw: raw}, nil
}

func (c *Client) buildRequest(ctx context.Context, path string, lat, lon float64, opts Options, withDays bool) (*http.Request, error) {
	base, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	lang := opts.LanguageCode
	if lang == "" {
		lang = "en"
	}
	units := opts.UnitsSystem
	if units == "" {
		units = "METRIC"
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("location.latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("location.longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("languageCode", lang)
	params.Set("unitsSystem", units)
	if withDays {
		days := opts.Days
		if days <= 0 {
			days = 5
		}
		params.Set("days", strconv.Itoa(days))
	}
	base.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func categorizeStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrInvalidAPIKey
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return ErrUpstreamFailure
}
