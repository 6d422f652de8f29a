package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"moviesearch/internal/config"
	"moviesearch/internal/domain"
	"moviesearch/internal/eventbus"
	"moviesearch/internal/movies"
	"moviesearch/internal/querycache"
	"moviesearch/internal/search"
	"moviesearch/internal/ui"
)

func main() {
	// Parse command line arguments
	var (
		endpoint   string
		maxResults int
		configPath string
		query      string
	)
	flag.StringVar(&endpoint, "endpoint", "", "Movie search endpoint URL")
	flag.IntVar(&maxResults, "max", 0, "Maximum number of results to show")
	flag.StringVar(&configPath, "config", "", "Path to the config file")
	flag.StringVar(&query, "q", "", "Search once, print the results and exit")
	flag.Parse()

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	// Load configuration
	var configSvc config.ConfigService
	if configPath != "" {
		configSvc = config.NewConfigServiceWithPath(configPath)
	} else {
		configSvc = config.NewConfigService()
	}
	configSvc = config.WithBus(configSvc, bus)

	loaded, cfg, err := loadConfig(configSvc, endpoint, maxResults)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Set up logging
	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Printf("Could not open log file: %v", err)
		} else {
			defer logFile.Close()
			log.SetOutput(logFile)
		}
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	cache, err := newQueryCache(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer cache.Close()

	if query != "" {
		if err := runQuery(ctx, cache, query, cfg.MinKeywordLength, cfg.MaxResults, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctrl := search.NewController(cache, search.Options{
		MaxResults:       cfg.MaxResults,
		Debounce:         cfg.Debounce(),
		MinKeywordLength: cfg.MinKeywordLength,
		Bus:              bus,
	})
	defer ctrl.Close()

	// Create UI model
	uiModel := ui.NewModel(ctrl, bus, cfg)
	if flag.NArg() > 0 {
		uiModel.SetInput(flag.Arg(0))
	}

	// Create Bubble Tea program
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithContext(ctx))
	uiModel.SetProgram(p)

	// Forward controller changes and errors to the UI. Changes can come from
	// inside Update, so the send must not block the caller.
	unsubscribe := ctrl.Subscribe(func(search.State) {
		go p.Send(ui.StateChangedMsg{})
	})
	defer unsubscribe()
	bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	})
	bus.Subscribe(eventbus.EventMovieSelected, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.MovieSelectedEvent); ok {
			log.Printf("Selected %q (rank %s)", event.Movie.Title, event.Movie.Rank)
		}
	})

	// Run the UI
	log.Printf("Starting UI against %s", cfg.Endpoint)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("UI exited normally")

	if movie, ok := uiModel.Selected(); ok {
		fmt.Printf("%s\tRank: %s\n", movie.Title, movie.Rank)
	}

	if cfg.UISettings.AutosaveOnExit {
		if err := configSvc.Save(loaded); err != nil {
			log.Printf("Failed to save config: %v", err)
		}
	}
}

// loadConfig returns the config as stored and the copy this run uses. Env and
// flag overrides only touch the copy, so autosave never persists them.
func loadConfig(svc config.ConfigService, endpoint string, maxResults int) (loaded, effective *config.Config, err error) {
	loaded, err = svc.Load()
	if err != nil {
		return nil, nil, err
	}

	cfg := *loaded
	cfg.ApplyEnv()
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if maxResults > 0 {
		cfg.MaxResults = maxResults
	}
	return loaded, &cfg, nil
}

// newQueryCache builds the provider client and the keyed cache in front of it
func newQueryCache(cfg *config.Config) (*querycache.Cache, error) {
	client, err := movies.NewClient(cfg.Endpoint, movies.WithRateLimit(cfg.RequestsPerSecond))
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, keyword string) ([]domain.Movie, error) {
		page, err := client.Search(ctx, keyword)
		if err != nil {
			return nil, err
		}
		return page.Rows, nil
	}

	return querycache.New(fetch, querycache.Options{
		StaleTime: cfg.StaleTime(),
		Timeout:   cfg.RequestTimeout(),
		Size:      cfg.CacheSize,
	})
}

// runQuery searches once and prints at most limit rows. Keywords shorter
// than minLength runes never reach the provider.
func runQuery(ctx context.Context, cache *querycache.Cache, keyword string, minLength, limit int, w io.Writer) error {
	var rows []domain.Movie
	if utf8.RuneCountInString(keyword) >= minLength {
		entry, err := cache.Fetch(ctx, keyword)
		if err != nil {
			return err
		}
		rows = entry.Rows
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No Results Found")
		return err
	}
	for _, movie := range rows {
		if _, err := fmt.Fprintf(w, "%s\tRank: %s\n", movie.Title, movie.Rank); err != nil {
			return err
		}
	}
	return nil
}
