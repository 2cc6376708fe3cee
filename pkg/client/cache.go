package client

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Result is the observable state of one cached query.
// Stale is set when Data comes from an earlier success and the latest fetch failed.
type Result[T any] struct {
	Data    T
	Err     error
	Stale   bool
	Loading bool
	// HasData is false until the first successful fetch.
	HasData bool
}

type entry struct {
	data      any
	hasData   bool
	err       error
	fetchedAt time.Time
	// base tags are known from the key itself and apply before the first response
	base []string
	tags map[string]struct{}
	// gen moves on every invalidation; a fetch started under an older gen
	// may store its data but never marks the entry fresh.
	gen     uint64
	fresh   bool
	loading int
}

// fetchFunc performs the request and returns the value plus the tags it provides.
type fetchFunc func(ctx context.Context) (any, []string, error)

// queryCache is a tag-invalidated, TTL-bounded cache with in-flight deduplication.
type queryCache struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
	ttl     time.Duration
	now     func() time.Time
}

func newQueryCache(ttl time.Duration, now func() time.Time) *queryCache {
	return &queryCache{entries: make(map[string]*entry), ttl: ttl, now: now}
}

func (c *queryCache) usable(e *entry) bool {
	return e.hasData && e.fresh && e.err == nil && c.now().Sub(e.fetchedAt) < c.ttl
}

// load serves key from cache or runs fetch once for all concurrent callers.
// The shared fetch is detached from any single caller's cancellation; a caller
// whose ctx ends first gets ctx's error and the eventual response is only cached.
func (c *queryCache) load(ctx context.Context, key string, base []string, fetch fetchFunc) (any, bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{base: base, tags: tagSet(base, nil)}
		c.entries[key] = e
	}
	if c.usable(e) {
		data := e.data
		c.mu.Unlock()
		return data, false, nil
	}
	gen := e.gen
	e.loading++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur == e {
			e.loading--
		}
		c.mu.Unlock()
	}()

	flightKey := key + "#" + strconv.FormatUint(gen, 10)
	ch := c.group.DoChan(flightKey, func() (any, error) {
		v, tags, err := fetch(context.WithoutCancel(ctx))
		c.store(key, e, gen, v, tags, err)
		return v, err
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case r := <-ch:
		if r.Err == nil {
			return r.Val, false, nil
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if e.hasData {
			return e.data, true, r.Err
		}
		return nil, false, r.Err
	}
}

func (c *queryCache) store(key string, e *entry, gen uint64, v any, tags []string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.entries[key]; !ok || cur != e {
		// dropped by Clear while in flight
		return
	}
	if err != nil {
		e.err = err
		return
	}
	e.data = v
	e.hasData = true
	e.err = nil
	e.fetchedAt = c.now()
	e.tags = tagSet(e.base, tags)
	e.fresh = e.gen == gen
}

func tagSet(base, provided []string) map[string]struct{} {
	set := make(map[string]struct{}, len(base)+len(provided))
	for _, t := range base {
		set[t] = struct{}{}
	}
	for _, t := range provided {
		set[t] = struct{}{}
	}
	return set
}

// invalidate marks every entry carrying any of tags as needing a refetch.
// Data stays available for stale reads.
func (c *queryCache) invalidate(tags ...string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		for _, t := range tags {
			if _, ok := e.tags[t]; ok {
				e.fresh = false
				e.gen++
				n++
				break
			}
		}
	}
	return n
}

// peek reports the current state of key without fetching.
func (c *queryCache) peek(key string) (data any, hasData bool, err error, loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil, false
	}
	return e.data, e.hasData, e.err, e.loading > 0
}

func (c *queryCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}
