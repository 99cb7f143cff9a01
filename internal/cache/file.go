package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmcallister/weather-widget-service/internal/models"
)

// FileStore persists one JSON record per variant under a state directory.
// This is the default backend: the widget host keeps the directory between
// invocations.
type FileStore struct {
	dir  string
	ttls TTLs
	now  func() time.Time
}

// NewFileStore creates a FileStore rooted at dir. The directory is created on
// the first write, not here.
func NewFileStore(dir string, ttls TTLs) *FileStore {
	return &FileStore{dir: dir, ttls: ttls, now: time.Now}
}

func (s *FileStore) path(variant models.Variant) string {
	return filepath.Join(s.dir, string(variant)+".json")
}

// Read returns the stored payload while the record is within its TTL.
// Missing files, unparsable contents, and records without a timestamp all
// read as absent; an expired record is left on disk untouched.
func (s *FileStore) Read(ctx context.Context, variant models.Variant) (json.RawMessage, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	raw, err := os.ReadFile(s.path(variant))
	if err != nil {
		return nil, false
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false
	}
	if !fresh(rec.Timestamp, s.ttls.For(variant), s.now()) {
		return nil, false
	}
	if len(rec.Data) == 0 {
		return nil, false
	}
	return rec.Data, true
}

// Write replaces the variant's record with {now, data}. The write goes to a
// temp file first and is renamed into place so a crash never leaves a
// half-written record behind.
func (s *FileStore) Write(ctx context.Context, variant models.Variant, data json.RawMessage) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	rec := Record{Timestamp: s.now().UnixMilli(), Data: data}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode cache record: %w", err)
	}

	path := s.path(variant)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write cache record: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace cache record: %w", err)
	}
	return nil
}
