package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/jmcallister/weather-widget-service/internal/models"
)

const keyPrefix = "widget:"

// MemcachedStore keeps records in memcached. Lets several serve-mode
// replicas share one cache; the daemon's own expiration mirrors the TTL so
// expired records read as a plain miss.
type MemcachedStore struct {
	client *memcache.Client
	ttls   TTLs
	now    func() time.Time
}

// NewMemcachedStore creates a MemcachedStore. addrs is a comma-separated
// server list; timeout and maxIdleConns use client defaults when zero.
func NewMemcachedStore(addrs string, ttls TTLs, timeout time.Duration, maxIdleConns int) *MemcachedStore {
	servers := parseAddrs(addrs)
	if len(servers) == 0 {
		servers = []string{"localhost:11211"}
	}
	client := memcache.New(servers...)
	if timeout > 0 {
		client.Timeout = timeout
	}
	if maxIdleConns > 0 {
		client.MaxIdleConns = maxIdleConns
	}
	return &MemcachedStore{client: client, ttls: ttls, now: time.Now}
}

func parseAddrs(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

func (s *MemcachedStore) key(variant models.Variant) string {
	return keyPrefix + string(variant)
}

// Read returns the stored payload while the record is within its TTL.
// Misses and transport errors both read as absent per the gate contract.
func (s *MemcachedStore) Read(ctx context.Context, variant models.Variant) (json.RawMessage, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	item, err := s.client.Get(s.key(variant))
	if err != nil {
		return nil, false
	}
	var rec Record
	if err := json.Unmarshal(item.Value, &rec); err != nil {
		return nil, false
	}
	if !fresh(rec.Timestamp, s.ttls.For(variant), s.now()) {
		return nil, false
	}
	return rec.Data, true
}

// Write replaces the variant's record. The item expiration matches the
// variant TTL so the daemon evicts what Read would refuse anyway.
func (s *MemcachedStore) Write(ctx context.Context, variant models.Variant, data json.RawMessage) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	rec := Record{Timestamp: s.now().UnixMilli(), Data: data}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	expSec := int32(s.ttls.For(variant).Seconds())
	if expSec <= 0 {
		expSec = 60
	}
	return s.client.Set(&memcache.Item{
		Key:        s.key(variant),
		Value:      raw,
		Expiration: expSec,
	})
}

// Ping checks whether memcached is reachable. Used by the serve-mode health
// endpoint.
func (s *MemcachedStore) Ping() error {
	return s.client.Ping()
}

// Close shuts down the client connections.
func (s *MemcachedStore) Close() error {
	return s.client.Close()
}
