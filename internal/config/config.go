// Package config loads the widget configuration from a YAML file with
// environment overrides. Every knob has a default so the tool runs with
// nothing but coordinates and an API key.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmcallister/weather-widget-service/internal/validation"
)

// Config holds the resolved widget configuration.
type Config struct {
	// Location source: Place non-empty means geocode it; otherwise the
	// static coordinate pair is used.
	Place     string
	Latitude  float64
	Longitude float64
	Label     string

	LanguageCode string
	UnitsSystem  string // METRIC or IMPERIAL
	ForecastDays int

	WeatherAPIURL     string
	WeatherAPITimeout time.Duration
	GeocoderAPIKey    string

	StateDir     string
	CacheBackend string // file, in_memory, or memcached
	CurrentTTL   time.Duration
	ForecastTTL  time.Duration

	MemcachedAddrs        string
	MemcachedTimeout      time.Duration
	MemcachedMaxIdleConns int

	ServerPort      string
	RequestTimeout  time.Duration
	RateLimitRPS    int
	RateLimitBurst  int
	ShutdownTimeout time.Duration
	Prefetch        bool
}

type fileConfig struct {
	Location struct {
		Place     string   `yaml:"place"`
		Latitude  *float64 `yaml:"latitude"`
		Longitude *float64 `yaml:"longitude"`
		Label     string   `yaml:"label"`
	} `yaml:"location"`

	Display struct {
		Language     string `yaml:"language"`
		Units        string `yaml:"units"`
		ForecastDays int    `yaml:"forecast_days"`
	} `yaml:"display"`

	WeatherAPI struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"weather_api"`

	Geocoder struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"geocoder"`

	Cache struct {
		Backend     string `yaml:"backend"`
		StateDir    string `yaml:"state_dir"`
		CurrentTTL  string `yaml:"current_ttl"`
		ForecastTTL string `yaml:"forecast_ttl"`
		Memcached   struct {
			Addrs        string `yaml:"addrs"`
			Timeout      string `yaml:"timeout"`
			MaxIdleConns int    `yaml:"max_idle_conns"`
		} `yaml:"memcached"`
	} `yaml:"cache"`

	Server struct {
		Port            string `yaml:"port"`
		RequestTimeout  string `yaml:"request_timeout"`
		RateLimitRPS    int    `yaml:"rate_limit_rps"`
		RateLimitBurst  int    `yaml:"rate_limit_burst"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
		Prefetch        *bool  `yaml:"prefetch"`
	} `yaml:"server"`
}

// Load reads the config file at path. An empty path loads pure defaults; an
// explicit path that does not exist is an error.
func Load(path string) (*Config, error) {
	var fc fileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Place = strings.TrimSpace(fc.Location.Place)
	if fc.Location.Latitude != nil {
		cfg.Latitude = *fc.Location.Latitude
	}
	if fc.Location.Longitude != nil {
		cfg.Longitude = *fc.Location.Longitude
	}
	cfg.Label = fc.Location.Label
	if cfg.Label == "" {
		cfg.Label = cfg.Place
	}

	cfg.LanguageCode = fc.Display.Language
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en"
	}
	cfg.UnitsSystem = strings.ToUpper(strings.TrimSpace(fc.Display.Units))
	if cfg.UnitsSystem == "" {
		cfg.UnitsSystem = "METRIC"
	}
	cfg.ForecastDays = fc.Display.ForecastDays
	if cfg.ForecastDays == 0 {
		cfg.ForecastDays = 5
	}

	cfg.WeatherAPIURL = os.Getenv("WEATHER_API_URL")
	if cfg.WeatherAPIURL == "" {
		cfg.WeatherAPIURL = fc.WeatherAPI.URL
	}
	if cfg.WeatherAPIURL == "" {
		cfg.WeatherAPIURL = "https://weather.googleapis.com/v1"
	}
	cfg.WeatherAPITimeout = parseDuration(fc.WeatherAPI.Timeout, 12*time.Second)
	cfg.GeocoderAPIKey = fc.Geocoder.APIKey

	cfg.StateDir = fc.Cache.StateDir
	if cfg.StateDir == "" {
		cfg.StateDir = defaultStateDir()
	}
	cfg.CacheBackend = strings.TrimSpace(strings.ToLower(os.Getenv("CACHE_BACKEND")))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = strings.TrimSpace(strings.ToLower(fc.Cache.Backend))
	}
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = "file"
	}
	cfg.CurrentTTL = parseDuration(fc.Cache.CurrentTTL, 5*time.Minute)
	cfg.ForecastTTL = parseDuration(fc.Cache.ForecastTTL, 20*time.Minute)

	cfg.MemcachedAddrs = strings.TrimSpace(os.Getenv("MEMCACHED_ADDRS"))
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = strings.TrimSpace(fc.Cache.Memcached.Addrs)
	}
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = "localhost:11211"
	}
	cfg.MemcachedTimeout = parseDuration(fc.Cache.Memcached.Timeout, 500*time.Millisecond)
	cfg.MemcachedMaxIdleConns = fc.Cache.Memcached.MaxIdleConns
	if cfg.MemcachedMaxIdleConns <= 0 {
		cfg.MemcachedMaxIdleConns = 2
	}

	cfg.ServerPort = fc.Server.Port
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	cfg.RequestTimeout = parseDuration(fc.Server.RequestTimeout, 15*time.Second)
	cfg.RateLimitRPS = fc.Server.RateLimitRPS
	cfg.RateLimitBurst = fc.Server.RateLimitBurst
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = cfg.RateLimitRPS * 2
	}
	cfg.ShutdownTimeout = parseDuration(fc.Server.ShutdownTimeout, 10*time.Second)
	cfg.Prefetch = true
	if fc.Server.Prefetch != nil {
		cfg.Prefetch = *fc.Server.Prefetch
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UseGeocoder reports whether the location comes from a place-name lookup.
func (c *Config) UseGeocoder() bool {
	return c.Place != ""
}

func defaultStateDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "weather-widget")
	}
	return "."
}

// parseDuration parses a duration string and returns defaultVal if parsing
// fails or the result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// validate performs post-load validation of configuration values.
func validate(cfg *Config) error {
	if !cfg.UseGeocoder() {
		if err := validation.ValidateCoordinates(cfg.Latitude, cfg.Longitude); err != nil {
			return err
		}
	}
	if err := validation.ValidateLanguageTag(cfg.LanguageCode); err != nil {
		return err
	}
	if err := validation.ValidateDays(cfg.ForecastDays); err != nil {
		return err
	}
	switch cfg.UnitsSystem {
	case "METRIC", "IMPERIAL":
	default:
		return fmt.Errorf("display.units must be METRIC or IMPERIAL, got %q", cfg.UnitsSystem)
	}
	switch cfg.CacheBackend {
	case "file", "in_memory", "memcached":
	default:
		return fmt.Errorf("cache.backend must be file, in_memory, or memcached, got %q", cfg.CacheBackend)
	}
	if cfg.RequestTimeout <= cfg.WeatherAPITimeout {
		cfg.RequestTimeout = cfg.WeatherAPITimeout + time.Second
	}
	return nil
}
