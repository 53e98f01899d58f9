package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	pageCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_page_cache_hits_total",
		Help: "Index page requests served from the rendered-page cache.",
	})
	pageCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_page_cache_misses_total",
		Help: "Index page requests that had to query and render.",
	})
)

const indexKeyPrefix = "pagecache:index:"

// DefaultIndexTTL is how long a rendered index page stays valid when the
// configuration does not override it.
const DefaultIndexTTL = 20 * time.Second

// IndexKey returns the cache key for one page of the global index.
func IndexKey(page int) string {
	return fmt.Sprintf("%s%d", indexKeyPrefix, page)
}

type memoryEntry struct {
	body      string
	expiresAt time.Time
}

// PageCache memoizes rendered HTML for the global index. A hit within the
// TTL returns the stored bytes verbatim and skips the whole query/paginate/
// render chain; writes never invalidate proactively, so staleness up to the
// TTL is expected. Backed by Redis when a client is supplied, otherwise by
// process memory.
//
// Concurrent requests racing to populate the same key each compute
// independently and the last writer wins. That race is benign: the values
// derive from the same data at nearly the same instant.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewPageCache creates a PageCache with the given TTL. client may be nil.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultIndexTTL
	}
	return &PageCache{
		client:  client,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// WithClock replaces the time source of the in-memory backend so tests can
// advance time without sleeping. Returns the cache for chaining.
func (p *PageCache) WithClock(now func() time.Time) *PageCache {
	p.now = now
	return p
}

// TTL returns the configured time-to-live.
func (p *PageCache) TTL() time.Duration {
	return p.ttl
}

// Get returns the cached rendered body for key, if present and fresh.
func (p *PageCache) Get(ctx context.Context, key string) (string, bool) {
	if p.client != nil {
		body, err := p.client.Get(ctx, key).Result()
		if err != nil {
			pageCacheMisses.Inc()
			return "", false
		}
		pageCacheHits.Inc()
		return body, true
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.entries[key]
	if !ok || p.now().After(entry.expiresAt) {
		delete(p.entries, key)
		pageCacheMisses.Inc()
		return "", false
	}
	pageCacheHits.Inc()
	return entry.body, true
}

// Set stores the rendered body under key for the configured TTL. Storage is
// best-effort: a Redis failure only means the next request recomputes.
func (p *PageCache) Set(ctx context.Context, key, body string) {
	if p.client != nil {
		p.client.Set(ctx, key, body, p.ttl)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[key] = memoryEntry{body: body, expiresAt: p.now().Add(p.ttl)}
}

// Flush drops every cached index page immediately.
func (p *PageCache) Flush(ctx context.Context) {
	if p.client != nil {
		var cursor uint64
		for {
			keys, next, err := p.client.Scan(ctx, cursor, indexKeyPrefix+"*", 100).Result()
			if err != nil {
				return
			}
			if len(keys) > 0 {
				p.client.Del(ctx, keys...)
			}
			if next == 0 {
				return
			}
			cursor = next
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = make(map[string]memoryEntry)
}
