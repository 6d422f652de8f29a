package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"moviesearch/internal/eventbus"
	"moviesearch/internal/movies"
)

// EndpointEnv overrides the configured endpoint when set
const EndpointEnv = "MOVIESEARCH_ENDPOINT"

// Config represents the application configuration
type Config struct {
	Version               int        `toml:"version"`
	Endpoint              string     `toml:"endpoint"`
	MaxResults            int        `toml:"max_results"`
	DebounceMS            int        `toml:"debounce_ms"`
	StaleMinutes          int        `toml:"stale_minutes"`
	MinKeywordLength      int        `toml:"min_keyword_length"`
	RequestTimeoutSeconds int        `toml:"request_timeout_seconds"`
	RequestsPerSecond     float64    `toml:"requests_per_second"`
	CacheSize             int        `toml:"cache_size"`
	LogFile               string     `toml:"log_file"`
	UISettings            UISettings `toml:"ui"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowRank       bool `toml:"show_rank"`
	AutosaveOnExit bool `toml:"autosave_on_exit"`
}

// Debounce returns the quiescence window before a search is committed
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// StaleTime returns how long a result set stays fresh
func (c *Config) StaleTime() time.Duration {
	return time.Duration(c.StaleMinutes) * time.Minute
}

// RequestTimeout returns the per-request timeout
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Validate checks the values a hand-edited file could get wrong
func (c *Config) Validate() error {
	var errs []error
	if c.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("max_results must be positive, got %d", c.MaxResults))
	}
	if c.DebounceMS <= 0 {
		errs = append(errs, fmt.Errorf("debounce_ms must be positive, got %d", c.DebounceMS))
	}
	if c.StaleMinutes <= 0 {
		errs = append(errs, fmt.Errorf("stale_minutes must be positive, got %d", c.StaleMinutes))
	}
	if c.MinKeywordLength <= 0 {
		errs = append(errs, fmt.Errorf("min_keyword_length must be positive, got %d", c.MinKeywordLength))
	}
	if c.RequestTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout_seconds must be positive, got %d", c.RequestTimeoutSeconds))
	}
	if c.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("requests_per_second must not be negative, got %v", c.RequestsPerSecond))
	}
	if c.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("cache_size must be positive, got %d", c.CacheSize))
	}
	return errors.Join(errs...)
}

// ApplyEnv applies environment overrides
func (c *Config) ApplyEnv() {
	if endpoint := os.Getenv(EndpointEnv); endpoint != "" {
		c.Endpoint = endpoint
	}
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service backed by the user config dir
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "moviesearch", "config.toml"),
	}
}

// NewConfigServiceWithPath creates a config service for an explicit file
func NewConfigServiceWithPath(path string) ConfigService {
	return &configService{filePath: path}
}

// WithBus attaches an event bus to a config service
func WithBus(svc ConfigService, bus eventbus.EventBus) ConfigService {
	if cs, ok := svc.(*configService); ok {
		cs.bus = bus
	}
	return svc
}

// Path returns the file the service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults when the
// file does not exist
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cs.publish(eventbus.ConfigLoadedEvent{Path: ""})
		return cfg, nil
	}

	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}

	cs.publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	cs.publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (cs *configService) publish(event eventbus.DomainEvent) {
	if cs.bus != nil {
		cs.bus.Publish(event)
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:               1,
		Endpoint:              movies.DefaultEndpoint,
		MaxResults:            20,
		DebounceMS:            500,
		StaleMinutes:          5,
		MinKeywordLength:      2,
		RequestTimeoutSeconds: 10,
		RequestsPerSecond:     0,
		CacheSize:             256,
		LogFile:               "moviesearch.log",
		UISettings: UISettings{
			ShowRank:       true,
			AutosaveOnExit: false,
		},
	}
}
