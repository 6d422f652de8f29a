package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviesearch/internal/eventbus"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 20, cfg.MaxResults)
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce())
	assert.Equal(t, 5*time.Minute, cfg.StaleTime())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 2, cfg.MinKeywordLength)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := NewConfigServiceWithPath(path)

	cfg := DefaultConfig()
	cfg.Endpoint = "http://localhost:9999/search"
	cfg.MaxResults = 10
	cfg.UISettings.ShowRank = false
	require.NoError(t, svc.Save(cfg))

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_results = 10\n\n[ui]\nshow_rank = false\n"), 0644))

	cfg, err := NewConfigServiceWithPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MaxResults)
	assert.False(t, cfg.UISettings.ShowRank)
	assert.Equal(t, 500, cfg.DebounceMS)
	assert.Equal(t, 5, cfg.StaleMinutes)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigServiceWithPath(filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, err := NewConfigService().LoadFromPath(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorContains(t, err, "config file not found")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("debounce_ms = 0\nmax_results = -1\n"), 0644))

	_, err := NewConfigServiceWithPath(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debounce_ms")
	assert.Contains(t, err.Error(), "max_results")
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_results = [\n"), 0644))

	_, err := NewConfigServiceWithPath(path).Load()
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EndpointEnv, "http://env.example/search")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, "http://env.example/search", cfg.Endpoint)
}

func TestSavePublishesEvent(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	saved := make(chan string, 1)
	bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
		saved <- e.(eventbus.ConfigSavedEvent).Path
	})

	path := filepath.Join(t.TempDir(), "config.toml")
	svc := WithBus(NewConfigServiceWithPath(path), bus)
	require.NoError(t, svc.Save(DefaultConfig()))

	select {
	case got := <-saved:
		assert.Equal(t, path, got)
	case <-time.After(2 * time.Second):
		t.Fatal("ConfigSaved was not published")
	}
}
