// Package querycache is a keyed, freshness-aware request cache. Each key has
// its own entry, so a response can only ever land on the key it was fetched for.
package querycache

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"moviesearch/internal/clock"
	"moviesearch/internal/domain"
)

const (
	DefaultStaleTime = 5 * time.Minute
	DefaultTimeout   = 10 * time.Second
	DefaultSize      = 256
)

// Options tunes a Cache. Zero values mean defaults.
type Options struct {
	StaleTime time.Duration
	Timeout   time.Duration
	Size      int
	Clock     clock.Clock
}

type listener struct {
	id uint64
	fn func(key string)
}

// Cache holds one entry per key and de-duplicates in-flight fetches
type Cache struct {
	mu        sync.Mutex
	entries   *lru.Cache[string, *entry]
	inflight  map[string]bool
	listeners []listener
	nextID    uint64
	closed    bool

	group     singleflight.Group
	fetch     FetchFunc
	clock     clock.Clock
	staleTime time.Duration
	timeout   time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a cache that loads missing or stale keys with fetch
func New(fetch FetchFunc, opts Options) (*Cache, error) {
	if fetch == nil {
		return nil, fmt.Errorf("query cache: fetch function is required")
	}
	if opts.StaleTime <= 0 {
		opts.StaleTime = DefaultStaleTime
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}

	entries, err := lru.New[string, *entry](opts.Size)
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		entries:   entries,
		inflight:  make(map[string]bool),
		fetch:     fetch,
		clock:     opts.Clock,
		staleTime: opts.StaleTime,
		timeout:   opts.Timeout,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// OnSettle registers fn to be called after every fetch finishes, successful
// or not. It returns a function that removes the listener.
func (c *Cache) OnSettle(fn func(key string)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, listener{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Ensure returns the entry for key and starts a background fetch when the
// entry is missing, stale or failed and nothing is in flight for it. The
// second result reports whether a fetch was started.
func (c *Cache) Ensure(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Entry{Key: key}, false
	}
	if c.inflight[key] || c.isFreshLocked(key) {
		return c.snapshotLocked(key), false
	}

	c.markLoadingLocked(key)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_, _, _ = c.group.Do(key, func() (interface{}, error) {
			return c.load(key)
		})
	}()

	return c.snapshotLocked(key), true
}

// Fetch returns fresh rows for key, joining an in-flight fetch when there is
// one. It blocks until the fetch settles or ctx is done.
func (c *Cache) Fetch(ctx context.Context, key string) (Entry, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Entry{Key: key}, ErrClosed
	}
	if !c.inflight[key] && c.isFreshLocked(key) {
		e := c.snapshotLocked(key)
		c.mu.Unlock()
		return e, nil
	}
	c.markLoadingLocked(key)
	c.wg.Add(1)
	c.mu.Unlock()

	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.load(key)
	})

	// The shared load keeps running if the caller gives up early
	done := make(chan error, 1)
	go func() {
		defer c.wg.Done()
		res := <-ch
		done <- res.Err
	}()

	select {
	case <-ctx.Done():
		return c.Peek(key), ctx.Err()
	case err := <-done:
		return c.Peek(key), err
	}
}

// Peek returns the entry for key without triggering a fetch
func (c *Cache) Peek(key string) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked(key)
}

// Invalidate drops the cached rows for key
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Remove(key)
}

// Clear drops every cached entry
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}

// Len returns the number of cached keys
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Close cancels in-flight fetches and waits for them to return
func (c *Cache) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

// load runs inside the singleflight group, so at most one load per key
// executes at a time.
func (c *Cache) load(key string) ([]domain.Movie, error) {
	c.mu.Lock()
	if c.closed {
		c.settleLocked(key)
		c.mu.Unlock()
		return nil, ErrClosed
	}
	// Another load may have finished between the caller's check and now
	if e, ok := c.entries.Peek(key); ok && e.status == StatusSuccess && c.isFreshEntry(e) {
		rows := e.rows
		c.settleLocked(key)
		c.mu.Unlock()
		return rows, nil
	}
	c.markLoadingLocked(key)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	log.Printf("Query cache: fetching %q", key)
	rows, err := c.fetch(ctx, key)

	c.mu.Lock()
	c.settleLocked(key)
	e, ok := c.entries.Get(key)
	if !ok {
		e = &entry{}
		c.entries.Add(key, e)
	}
	if err != nil {
		e.status = StatusError
		e.err = err
		e.rows = nil
		log.Printf("Query cache: fetch for %q failed: %v", key, err)
	} else {
		if rows == nil {
			rows = []domain.Movie{}
		}
		e.status = StatusSuccess
		e.err = nil
		e.rows = rows
		e.fetchedAt = c.clock.Now()
	}
	listeners := make([]listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, l := range listeners {
		l.fn(key)
	}
	return rows, err
}

// settleLocked ends the in-flight load for key. Forgetting the singleflight
// call under c.mu means a caller that marks key in flight after this point
// starts a new load instead of joining the one that is finishing.
func (c *Cache) settleLocked(key string) {
	delete(c.inflight, key)
	c.group.Forget(key)
}

// markLoadingLocked leaves the stored status alone so stale rows and the
// freshness check survive until the load settles
func (c *Cache) markLoadingLocked(key string) {
	c.inflight[key] = true
}

func (c *Cache) isFreshLocked(key string) bool {
	e, ok := c.entries.Peek(key)
	return ok && e.status == StatusSuccess && c.isFreshEntry(e)
}

func (c *Cache) isFreshEntry(e *entry) bool {
	return c.clock.Now().Sub(e.fetchedAt) < c.staleTime
}

func (c *Cache) snapshotLocked(key string) Entry {
	e, ok := c.entries.Peek(key)
	if !ok {
		if c.inflight[key] {
			return Entry{Key: key, Status: StatusLoading}
		}
		return Entry{Key: key, Status: StatusIdle}
	}

	status := e.status
	if c.inflight[key] {
		status = StatusLoading
	}
	return Entry{
		Key:       key,
		Rows:      e.rows,
		Status:    status,
		Err:       e.err,
		FetchedAt: e.fetchedAt,
		Fresh:     e.status == StatusSuccess && c.isFreshEntry(e),
	}
}
