// Package cache holds the most recent analysis result per project path.
//
// Entries are immutable once published: a new analysis replaces the entry
// instead of mutating it, and readers always receive a clone.
package cache

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// DefaultTTL is how long an analysis stays fresh when no TTL is configured.
const DefaultTTL = 5 * time.Minute

// ComputeFunc produces a fresh analysis for a project path.
type ComputeFunc func(ctx context.Context, projectPath string) (*entities.AnalysisResult, error)

type entry struct {
	result   *entities.AnalysisResult
	storedAt time.Time
}

// Stats counts cache activity since creation.
type Stats struct {
	Hits          int64
	Misses        int64
	Computations  int64
	Invalidations int64
}

// AnalysisCache maps project paths to their latest analysis.
//
// Thread Safety:
//
//	AnalysisCache is safe for concurrent use. Concurrent misses for the same
//	path share one computation.
type AnalysisCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	// generations changes on every invalidation of a path so that a computation
	// started before the invalidation does not publish its stale result.
	generations map[string]uint64
	epoch       uint64
	flight      singleflight.Group
	ttl         time.Duration
	now         func() time.Time

	hits          int64
	misses        int64
	computations  int64
	invalidations int64
}

// Option configures an AnalysisCache.
type Option func(*AnalysisCache)

// WithTTL sets how long entries stay fresh. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *AnalysisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *AnalysisCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewAnalysisCache creates an empty cache.
func NewAnalysisCache(opts ...Option) *AnalysisCache {
	c := &AnalysisCache{
		entries:     make(map[string]*entry),
		generations: make(map[string]uint64),
		ttl:         DefaultTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a copy of the fresh entry for projectPath.
func (c *AnalysisCache) Get(projectPath string) (*entities.AnalysisResult, bool) {
	key := cacheKey(projectPath)

	c.mu.RLock()
	current, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(current.storedAt) >= c.ttl {
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}
	atomic.AddInt64(&c.hits, 1)
	return current.result.Clone(), true
}

// Put publishes result as the entry for projectPath, replacing any previous one.
func (c *AnalysisCache) Put(projectPath string, result *entities.AnalysisResult) {
	key := cacheKey(projectPath)
	stored := &entry{result: result.Clone(), storedAt: c.now()}

	c.mu.Lock()
	c.entries[key] = stored
	c.mu.Unlock()
}

// flightResult is what one shared computation hands to its callers.
type flightResult struct {
	result *entities.AnalysisResult
	// cancelled is set when the computing caller's context ended during the
	// run; the result may then lack data from skipped lookups.
	cancelled bool
}

// GetOrCompute returns the fresh entry or runs compute once for all concurrent
// callers of the same path. Errors are returned and never cached. A result
// computed under a cancelled context is returned to that caller only: it is
// not stored, and callers that joined the computation with a live context
// compute again.
func (c *AnalysisCache) GetOrCompute(
	ctx context.Context,
	projectPath string,
	compute ComputeFunc,
) (*entities.AnalysisResult, error) {
	key := cacheKey(projectPath)
	for {
		if result, ok := c.Get(projectPath); ok {
			return result, nil
		}

		value, err, _ := c.flight.Do(key, func() (interface{}, error) {
			return c.computeAndStore(ctx, key, projectPath, compute)
		})
		if err != nil {
			return nil, err
		}
		shared := value.(flightResult)
		if shared.cancelled && ctx.Err() == nil {
			continue
		}
		return shared.result.Clone(), nil
	}
}

func (c *AnalysisCache) computeAndStore(
	ctx context.Context,
	key, projectPath string,
	compute ComputeFunc,
) (flightResult, error) {
	c.mu.RLock()
	generation, epoch := c.generations[key], c.epoch
	c.mu.RUnlock()

	atomic.AddInt64(&c.computations, 1)
	result, err := compute(ctx, projectPath)
	if err != nil {
		return flightResult{}, err
	}
	if ctx.Err() != nil {
		return flightResult{result: result.Clone(), cancelled: true}, nil
	}

	stored := &entry{result: result.Clone(), storedAt: c.now()}
	c.mu.Lock()
	if c.generations[key] == generation && c.epoch == epoch {
		c.entries[key] = stored
	}
	c.mu.Unlock()
	return flightResult{result: stored.result}, nil
}

// Invalidate drops the entry for projectPath.
func (c *AnalysisCache) Invalidate(projectPath string) {
	key := cacheKey(projectPath)

	c.mu.Lock()
	delete(c.entries, key)
	c.generations[key]++
	c.mu.Unlock()

	c.flight.Forget(key)
	atomic.AddInt64(&c.invalidations, 1)
}

// Clear drops every entry.
func (c *AnalysisCache) Clear() {
	c.mu.Lock()
	for key := range c.entries {
		c.flight.Forget(key)
	}
	c.entries = make(map[string]*entry)
	c.epoch++
	c.mu.Unlock()

	atomic.AddInt64(&c.invalidations, 1)
}

// Len returns the number of stored entries, fresh or not.
func (c *AnalysisCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the counters.
func (c *AnalysisCache) Stats() Stats {
	return Stats{
		Hits:          atomic.LoadInt64(&c.hits),
		Misses:        atomic.LoadInt64(&c.misses),
		Computations:  atomic.LoadInt64(&c.computations),
		Invalidations: atomic.LoadInt64(&c.invalidations),
	}
}

func cacheKey(projectPath string) string {
	if abs, err := filepath.Abs(projectPath); err == nil {
		return abs
	}
	return filepath.Clean(projectPath)
}
