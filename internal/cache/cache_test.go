package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmcallister/weather-widget-service/internal/models"
)

func testTTLs() TTLs {
	return TTLs{Current: 5 * time.Minute, Forecast: 20 * time.Minute}
}

// fixedClock returns a now func pinned to base that tests can shift.
func fixedClock(base time.Time) (func() time.Time, func(d time.Duration)) {
	cur := base
	return func() time.Time { return cur }, func(d time.Duration) { cur = cur.Add(d) }
}

// TestFileStore_WriteRead verifies a write followed by a read within TTL
// returns byte-equivalent data.
func TestFileStore_WriteRead(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir(), testTTLs())

	data := json.RawMessage(`{"temperature":{"degrees":21.4,"unit":"CELSIUS"}}`)
	if err := s.Write(ctx, models.VariantCurrent, data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, ok := s.Read(ctx, models.VariantCurrent)
	if !ok {
		t.Fatal("Read() ok = false, want true")
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Read() = %s, want %s", got, data)
	}
}

// TestFileStore_Expired verifies a record older than its TTL reads as absent
// and stays on disk.
func TestFileStore_Expired(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFileStore(dir, testTTLs())
	now, advance := fixedClock(time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC))
	s.now = now

	if err := s.Write(ctx, models.VariantCurrent, json.RawMessage(`{"a":1}`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	advance(5 * time.Minute) // age == TTL, still valid
	if _, ok := s.Read(ctx, models.VariantCurrent); !ok {
		t.Error("Read() at exactly TTL should still hit")
	}

	advance(time.Second)
	if _, ok := s.Read(ctx, models.VariantCurrent); ok {
		t.Error("Read() past TTL should miss")
	}

	if _, err := os.Stat(filepath.Join(dir, "current.json")); err != nil {
		t.Errorf("expired record should remain on disk: %v", err)
	}
}

// TestFileStore_VariantTTLs verifies the forecast variant uses its own,
// longer window.
func TestFileStore_VariantTTLs(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir(), testTTLs())
	now, advance := fixedClock(time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC))
	s.now = now

	if err := s.Write(ctx, models.VariantForecast, json.RawMessage(`{"forecastDays":[]}`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	advance(10 * time.Minute)
	if _, ok := s.Read(ctx, models.VariantForecast); !ok {
		t.Error("forecast record at 10m should still be valid under a 20m TTL")
	}
}

// TestFileStore_Corrupt verifies malformed or incomplete records read as
// absent without an error.
func TestFileStore_Corrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFileStore(dir, testTTLs())

	tests := []struct {
		name     string
		contents string
	}{
		{"invalid json", `{"timestamp": 17`},
		{"missing timestamp", `{"data":{"a":1}}`},
		{"zero timestamp", `{"timestamp":0,"data":{"a":1}}`},
		{"empty file", ``},
		{"wrong shape", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "current.json")
			if err := os.WriteFile(path, []byte(tt.contents), 0o644); err != nil {
				t.Fatalf("seed cache file: %v", err)
			}
			if _, ok := s.Read(ctx, models.VariantCurrent); ok {
				t.Error("Read() ok = true, want false for corrupt record")
			}
		})
	}
}

// TestFileStore_Missing verifies a missing file reads as absent.
func TestFileStore_Missing(t *testing.T) {
	s := NewFileStore(t.TempDir(), testTTLs())
	if _, ok := s.Read(context.Background(), models.VariantCurrent); ok {
		t.Error("Read() on empty dir should miss")
	}
}

// TestFileStore_Overwrite verifies a second write replaces the record
// wholesale.
func TestFileStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir(), testTTLs())

	if err := s.Write(ctx, models.VariantCurrent, json.RawMessage(`{"v":1}`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := s.Write(ctx, models.VariantCurrent, json.RawMessage(`{"v":2}`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, ok := s.Read(ctx, models.VariantCurrent)
	if !ok || !bytes.Equal(got, json.RawMessage(`{"v":2}`)) {
		t.Errorf("Read() = %s, %v; want {\"v\":2}, true", got, ok)
	}
}

// TestMemoryStore verifies hit, miss, and expiry for the in-memory backend.
func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(testTTLs())
	now, advance := fixedClock(time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC))
	s.now = now

	if _, ok := s.Read(ctx, models.VariantCurrent); ok {
		t.Error("Read() on empty store should miss")
	}
	if err := s.Write(ctx, models.VariantCurrent, json.RawMessage(`{"a":1}`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, ok := s.Read(ctx, models.VariantCurrent); !ok {
		t.Error("Read() after Write should hit")
	}
	advance(6 * time.Minute)
	if _, ok := s.Read(ctx, models.VariantCurrent); ok {
		t.Error("Read() past TTL should miss")
	}
}

// TestTTLsFor verifies variant-to-window resolution.
func TestTTLsFor(t *testing.T) {
	ttls := DefaultTTLs()
	if got := ttls.For(models.VariantCurrent); got != 5*time.Minute {
		t.Errorf("For(current) = %v, want 5m", got)
	}
	if got := ttls.For(models.VariantForecast); got != 20*time.Minute {
		t.Errorf("For(forecast) = %v, want 20m", got)
	}
}
