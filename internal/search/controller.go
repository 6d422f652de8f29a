package search

import (
	"log"
	"sync"
	"unicode/utf8"

	"moviesearch/internal/debounce"
	"moviesearch/internal/domain"
	"moviesearch/internal/eventbus"
	"moviesearch/internal/querycache"
)

// Controller owns the committed keyword, debounces input and derives the
// view flags from the cache entry of the current keyword.
type Controller struct {
	mu        sync.Mutex
	keyword   string
	opts      Options
	cache     QueryCache
	debouncer *debounce.Debouncer
	observers map[uint64]func(State)
	nextID    uint64
	closed    bool
	// epoch advances on every Clear; commits scheduled before it are dropped
	epoch uint64

	unsubscribeCache func()
}

// NewController creates a controller reading from cache
func NewController(cache QueryCache, opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		opts:      opts,
		cache:     cache,
		debouncer: debounce.New(opts.Debounce, opts.Clock),
		observers: make(map[uint64]func(State)),
	}
	c.unsubscribeCache = cache.OnSettle(c.onSettle)
	return c
}

// Search commits input as the keyword once no other call has arrived for
// the debounce window
func (c *Controller) Search(input string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.debouncer.Trigger(c.commitLocked(input))
}

// commitLocked returns the deferred commit for input, bound to the current
// epoch. A timer that already fired can still be running when Clear happens.
func (c *Controller) commitLocked(input string) func() {
	epoch := c.epoch
	return func() { c.commit(input, epoch) }
}

// Flush commits the pending search input without waiting. It reports
// whether there was one.
func (c *Controller) Flush() bool {
	return c.debouncer.Flush()
}

// Clear resets the keyword immediately and drops any pending search
func (c *Controller) Clear() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.epoch++
	c.debouncer.Cancel()
	c.keyword = ""
	state := c.stateLocked()
	c.mu.Unlock()

	c.opts.Bus.Publish(eventbus.SearchClearedEvent{})
	c.notify(state)
}

// Keyword returns the committed keyword
func (c *Controller) Keyword() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keyword
}

// Results returns the rows for the current keyword, at most MaxResults
func (c *Controller) Results() []domain.Movie {
	return c.Snapshot().Results
}

// IsLoading reports whether a fetch for the current keyword is in flight
func (c *Controller) IsLoading() bool {
	return c.Snapshot().IsLoading
}

// NoResults reports a finished, successful search that found nothing
func (c *Controller) NoResults() bool {
	return c.Snapshot().NoResults
}

// Err returns the fetch error for the current keyword
func (c *Controller) Err() error {
	return c.Snapshot().Err
}

// Snapshot returns all outputs computed from a single read
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Subscribe registers fn to be called after every change that can alter the
// outputs. fn runs on the goroutine that caused the change.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.observers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

// Close stops the debounce timer and detaches from the cache
func (c *Controller) Close() {
	c.debouncer.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.observers = make(map[uint64]func(State))
	c.unsubscribeCache()
}

func (c *Controller) commit(keyword string, epoch uint64) {
	c.mu.Lock()
	if c.closed || epoch != c.epoch {
		c.mu.Unlock()
		return
	}
	c.keyword = keyword

	started := false
	if c.qualifies(keyword) {
		_, started = c.cache.Ensure(keyword)
	}
	state := c.stateLocked()
	c.mu.Unlock()

	c.opts.Bus.Publish(eventbus.KeywordCommittedEvent{Keyword: keyword})
	if started {
		log.Printf("Search: fetching results for %q", keyword)
		c.opts.Bus.Publish(eventbus.QueryStartedEvent{Keyword: keyword})
	}
	c.notify(state)
}

func (c *Controller) onSettle(key string) {
	entry := c.cache.Peek(key)
	switch entry.Status {
	case querycache.StatusError:
		c.opts.Bus.Publish(eventbus.QueryFailedEvent{Keyword: key, Err: entry.Err})
	case querycache.StatusSuccess:
		c.opts.Bus.Publish(eventbus.QuerySettledEvent{Keyword: key, Count: len(entry.Rows)})
	}

	c.mu.Lock()
	// A response for a superseded keyword has nothing to show
	if c.closed || key != c.keyword {
		c.mu.Unlock()
		return
	}
	state := c.stateLocked()
	c.mu.Unlock()

	c.notify(state)
}

func (c *Controller) qualifies(keyword string) bool {
	return utf8.RuneCountInString(keyword) >= c.opts.MinKeywordLength
}

func (c *Controller) stateLocked() State {
	state := State{Keyword: c.keyword, Results: []domain.Movie{}}
	if c.qualifies(c.keyword) {
		entry := c.cache.Peek(c.keyword)
		state.IsLoading = entry.IsLoading()
		if entry.Status == querycache.StatusError && !state.IsLoading {
			state.Err = entry.Err
		}
		if state.Err == nil && len(entry.Rows) > 0 {
			rows := entry.Rows
			if len(rows) > c.opts.MaxResults {
				rows = rows[:c.opts.MaxResults]
			}
			state.Results = append(state.Results, rows...)
		}
	}
	state.NoResults = state.Keyword != "" && !state.IsLoading && len(state.Results) == 0 && state.Err == nil
	return state
}

func (c *Controller) notify(state State) {
	c.mu.Lock()
	observers := make([]func(State), 0, len(c.observers))
	for _, fn := range c.observers {
		observers = append(observers, fn)
	}
	c.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}
