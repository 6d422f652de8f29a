package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviesearch/internal/config"
)

func newTestServer(t *testing.T, rows int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var items []string
		for i := 0; i < rows; i++ {
			items = append(items, fmt.Sprintf(`{"_id":"%d","title":"Movie %d","rank":"%d","id":"m%d"}`, i, i, i+1, i))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"rows":[%s],"total":%d,"page":1,"pageSize":%d,"totalPages":1}`, strings.Join(items, ","), rows, rows)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunQueryTruncates(t *testing.T) {
	srv := newTestServer(t, 30)
	cfg := config.DefaultConfig()
	cfg.Endpoint = srv.URL

	cache, err := newQueryCache(cfg)
	require.NoError(t, err)
	defer cache.Close()

	var out bytes.Buffer
	require.NoError(t, runQuery(context.Background(), cache, "movie", 2, 5, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 5)
	assert.Equal(t, "Movie 0\tRank: 1", lines[0])
}

func TestRunQueryNoResults(t *testing.T) {
	srv := newTestServer(t, 0)
	cfg := config.DefaultConfig()
	cfg.Endpoint = srv.URL

	cache, err := newQueryCache(cfg)
	require.NoError(t, err)
	defer cache.Close()

	var out bytes.Buffer
	require.NoError(t, runQuery(context.Background(), cache, "zzzzznotreal", 2, 20, &out))
	assert.Equal(t, "No Results Found\n", out.String())
}

func TestRunQueryReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Endpoint = srv.URL

	cache, err := newQueryCache(cfg)
	require.NoError(t, err)
	defer cache.Close()

	var out bytes.Buffer
	err = runQuery(context.Background(), cache, "batman", 2, 20, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Empty(t, out.String())
}

func TestNewQueryCacheRejectsBadEndpoint(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Endpoint = "not a url"

	_, err := newQueryCache(cfg)
	assert.Error(t, err)
}

func TestRunQueryGatesShortKeywords(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"rows":[]}`)
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Endpoint = srv.URL

	cache, err := newQueryCache(cfg)
	require.NoError(t, err)
	defer cache.Close()

	for _, keyword := range []string{"a", "é"} {
		var out bytes.Buffer
		require.NoError(t, runQuery(context.Background(), cache, keyword, cfg.MinKeywordLength, 20, &out))
		assert.Equal(t, "No Results Found\n", out.String())
	}
	assert.Zero(t, hits.Load(), "single characters never reach the endpoint")
}

func TestLoadConfigKeepsOverridesOutOfSavedConfig(t *testing.T) {
	t.Setenv(config.EndpointEnv, "https://env.example.com/movies")
	path := filepath.Join(t.TempDir(), "config.toml")
	svc := config.NewConfigServiceWithPath(path)

	loaded, effective, err := loadConfig(svc, "", 7)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com/movies", effective.Endpoint)
	assert.Equal(t, 7, effective.MaxResults)
	assert.Equal(t, config.DefaultConfig().Endpoint, loaded.Endpoint)
	assert.Equal(t, config.DefaultConfig().MaxResults, loaded.MaxResults)

	require.NoError(t, svc.Save(loaded))
	reloaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, loaded.Endpoint, reloaded.Endpoint)
	assert.Equal(t, loaded.MaxResults, reloaded.MaxResults)

	_, flagged, err := loadConfig(svc, "https://flag.example.com", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example.com", flagged.Endpoint)
}
