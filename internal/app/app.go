// Package app wires the reader's components together once at startup
package app

import (
	"fmt"
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/novelreader/cache"
	"github.com/briangreenhill/novelreader/internal/config"
	"github.com/briangreenhill/novelreader/meionovel"
	"github.com/briangreenhill/novelreader/store"
)

// App holds everything a page or handler needs. Build one per process (or
// per test) with New.
type App struct {
	Config    config.Config
	Log       zerolog.Logger
	Cache     *cache.Memory[meionovel.Envelope]
	API       *meionovel.Client
	Store     store.Store
	History   *store.History
	Bookmarks *store.Bookmarks

	// UserID identifies this device's local state; empty if it could not be saved
	UserID string
}

// New validates cfg, opens the local store and builds the API client
func New(cfg config.Config, logger zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Store.Driver, cfg.Store.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}

	return build(cfg, logger, st), nil
}

// NewWithStore is New with a caller-provided store
func NewWithStore(cfg config.Config, logger zerolog.Logger, st store.Store) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return build(cfg, logger, st), nil
}

func build(cfg config.Config, logger zerolog.Logger, st store.Store) *App {
	respCache := meionovel.NewCache(cfg.API.CacheTTL, cfg.API.FailureTTL)
	api := meionovel.New(
		meionovel.WithHTTPClient(httpClient(cfg.API)),
		meionovel.WithBaseURL(cfg.API.BaseURL),
		meionovel.WithCache(respCache),
		meionovel.WithLogger(logger.With().Str("component", "meionovel").Logger()),
	)

	userID, err := store.EnsureUserID(st)
	if err != nil {
		logger.Warn().Err(err).Msg("could not save device user id")
	}
	logger.Debug().Str("user_id", userID).Str("store", cfg.Store.Driver).Msg("local state ready")

	return &App{
		UserID:    userID,
		Config:    cfg,
		Log:       logger,
		Cache:     respCache,
		API:       api,
		Store:     st,
		History:   store.NewHistory(st),
		Bookmarks: store.NewBookmarks(st),
	}
}

// httpClient honours the request timeout and, when enabled, layers an
// RFC 7234 caching transport under the response cache
func httpClient(cfg config.APIConfig) *http.Client {
	c := &http.Client{Timeout: cfg.HTTPTimeout}
	if cfg.HTTPCache {
		c.Transport = httpcache.NewMemoryCacheTransport()
	}
	return c
}

// Close releases the store
func (a *App) Close() error {
	return store.Close(a.Store)
}
