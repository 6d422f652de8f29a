package querycache

import (
	"context"
	"errors"
	"time"

	"moviesearch/internal/domain"
)

// ErrClosed is returned by Fetch after Close
var ErrClosed = errors.New("query cache closed")

// Status is the lifecycle state of a cache entry
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// FetchFunc loads the rows for a key
type FetchFunc func(ctx context.Context, key string) ([]domain.Movie, error)

// Entry is a read-only snapshot of what the cache holds for a key.
// Rows are shared with the cache and must not be modified.
type Entry struct {
	Key       string
	Rows      []domain.Movie
	Status    Status
	Err       error
	FetchedAt time.Time
	// Fresh is computed when the snapshot is taken
	Fresh bool
}

// IsLoading reports whether a fetch for the key is in flight
func (e Entry) IsLoading() bool { return e.Status == StatusLoading }

// entry is the mutable record kept in the LRU
type entry struct {
	rows      []domain.Movie
	status    Status
	err       error
	fetchedAt time.Time
}
