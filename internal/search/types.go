package search

import (
	"time"

	"moviesearch/internal/clock"
	"moviesearch/internal/domain"
	"moviesearch/internal/eventbus"
	"moviesearch/internal/querycache"
)

const (
	DefaultMaxResults       = 20
	DefaultDebounce         = 500 * time.Millisecond
	DefaultMinKeywordLength = 2
)

// QueryCache is the keyed request cache the controller reads from
type QueryCache interface {
	Ensure(key string) (querycache.Entry, bool)
	Peek(key string) querycache.Entry
	OnSettle(fn func(key string)) func()
}

// Options configures a Controller. Zero values mean defaults.
type Options struct {
	// MaxResults truncates displayed rows. It never changes the request.
	MaxResults int
	Debounce   time.Duration
	// MinKeywordLength is the shortest keyword, in characters, that is sent
	// to the provider
	MinKeywordLength int
	Clock            clock.Clock
	Bus              eventbus.EventBus
}

func (o Options) withDefaults() Options {
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.MinKeywordLength <= 0 {
		o.MinKeywordLength = DefaultMinKeywordLength
	}
	if o.Clock == nil {
		o.Clock = clock.Real()
	}
	if o.Bus == nil {
		o.Bus = eventbus.NullBus{}
	}
	return o
}

// State is a consistent view of the controller's outputs for one keyword
type State struct {
	Keyword   string
	Results   []domain.Movie
	IsLoading bool
	NoResults bool
	Err       error
}
