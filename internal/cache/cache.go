// Package cache implements the gate between fetch attempts and previously
// persisted API payloads. Reads never fail: a missing, corrupt, or expired
// record is indistinguishable from an empty cache. Writes replace the record
// wholesale; the caller decides whether a write failure matters.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmcallister/weather-widget-service/internal/models"
)

// Record is the persisted envelope: when the payload was fetched and the raw
// body exactly as the API returned it.
type Record struct {
	Timestamp int64           `json:"timestamp"` // epoch millis
	Data      json.RawMessage `json:"data"`
}

// Store is implemented by each cache backend.
// Read returns the stored payload only while its age is within the variant's
// TTL; everything else (missing, unparsable, expired) reads as absent.
type Store interface {
	Read(ctx context.Context, variant models.Variant) (json.RawMessage, bool)
	Write(ctx context.Context, variant models.Variant, data json.RawMessage) error
}

// TTLs holds the per-variant freshness windows.
type TTLs struct {
	Current  time.Duration
	Forecast time.Duration
}

// For returns the TTL for a variant. Unknown variants get the shorter
// current-conditions window.
func (t TTLs) For(variant models.Variant) time.Duration {
	if variant == models.VariantForecast {
		return t.Forecast
	}
	return t.Current
}

// DefaultTTLs are the out-of-the-box freshness windows.
func DefaultTTLs() TTLs {
	return TTLs{Current: 5 * time.Minute, Forecast: 20 * time.Minute}
}

// fresh reports whether a record timestamp is within ttl of now.
func fresh(timestampMillis int64, ttl time.Duration, now time.Time) bool {
	if timestampMillis <= 0 {
		return false
	}
	age := now.Sub(time.UnixMilli(timestampMillis))
	return age <= ttl
}
