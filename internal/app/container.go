// Package app wires the application's services together.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/recipebox/internal/config"
	"github.com/nfrund/recipebox/internal/database"
	"github.com/nfrund/recipebox/internal/domain"
	"github.com/nfrund/recipebox/internal/favorites"
	"github.com/nfrund/recipebox/internal/pubsub"
	"github.com/nfrund/recipebox/internal/rendering"
	"github.com/nfrund/recipebox/internal/server"
	"github.com/nfrund/recipebox/internal/storage"
	"github.com/samber/do/v2"
)

// Stores bundles the repositories of the configured storage backend.
type Stores struct {
	Profiles  domain.ProfileRepository
	Favorites domain.FavoriteRepository

	// Healthy reports backend health; nil when the backend cannot fail
	// independently of the process.
	Healthy func() bool
	Close   func(context.Context) error
}

// NewContainer registers every service provider. Services are built lazily
// on first Invoke; ctx bounds connection attempts.
func NewContainer(ctx context.Context, cfg config.Provider) *do.RootScope {
	i := do.New()

	do.ProvideValue(i, cfg)
	do.Provide(i, provideBus)
	do.Provide(i, provideRenderer)
	do.Provide(i, provideStores(ctx))
	do.Provide(i, provideFavorites)
	do.Provide(i, provideFavoritesSource)
	do.Provide(i, provideToggler)
	do.Provide(i, provideServer)

	return i
}

func provideBus(i do.Injector) (*pubsub.WatermillBridge, error) {
	return pubsub.NewWatermillBridge(), nil
}

func provideRenderer(i do.Injector) (*rendering.UniversalRenderer, error) {
	return rendering.NewUniversalRenderer(), nil
}

func provideStores(ctx context.Context) func(do.Injector) (*Stores, error) {
	return func(i do.Injector) (*Stores, error) {
		cfg := do.MustInvoke[config.Provider](i)

		switch cfg.GetStorageBackend() {
		case config.BackendSurreal:
			return newSurrealStores(ctx, cfg)
		default:
			return newFileStores(cfg), nil
		}
	}
}

func newFileStores(cfg config.Provider) *Stores {
	slog.Info("Using file storage", "event", "storage_selected", "backend", config.BackendFile, "dir", cfg.GetDataDir())
	local := storage.NewLocalStore(storage.NewDiskStore(cfg.GetDataDir()), cfg.GetDefaultUsername())
	return &Stores{
		Profiles:  local,
		Favorites: local,
		Close:     func(context.Context) error { return nil },
	}
}

func newSurrealStores(ctx context.Context, cfg config.Provider) (*Stores, error) {
	slog.Info("Using SurrealDB storage", "event", "storage_selected", "backend", config.BackendSurreal)

	conn := database.NewConnection(cfg)
	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	conn.StartMonitoring()

	profileClient, err := database.NewClient[database.ProfileRecord](conn)
	if err != nil {
		return nil, err
	}
	favoriteClient, err := database.NewClient[database.FavoriteRecord](conn)
	if err != nil {
		return nil, err
	}

	return &Stores{
		Profiles:  database.NewProfileStore(profileClient, cfg.GetDefaultUsername()),
		Favorites: database.NewFavoriteStore(favoriteClient),
		Healthy:   conn.IsHealthy,
		Close:     conn.Close,
	}, nil
}

// provideFavorites returns the backend that owns favorites: the remote API
// when one is configured, the storage backend otherwise. Both the list and
// the card toggle go through it.
func provideFavorites(i do.Injector) (domain.FavoriteRepository, error) {
	cfg := do.MustInvoke[config.Provider](i)
	if url := cfg.GetFavoritesAPIURL(); url != "" {
		slog.Info("Using remote favorites API", "event", "favorites_backend", "url", url)
		return favorites.NewHTTPSource(url, cfg.GetFavoritesFetchTimeout()), nil
	}

	stores, err := do.Invoke[*Stores](i)
	if err != nil {
		return nil, err
	}
	return stores.Favorites, nil
}

func provideFavoritesSource(i do.Injector) (favorites.Source, error) {
	repo, err := do.Invoke[domain.FavoriteRepository](i)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func provideToggler(i do.Injector) (*favorites.Toggler, error) {
	repo, err := do.Invoke[domain.FavoriteRepository](i)
	if err != nil {
		return nil, err
	}
	return favorites.NewToggler(repo, do.MustInvoke[*pubsub.WatermillBridge](i)), nil
}

func provideServer(i do.Injector) (*server.Server, error) {
	cfg := do.MustInvoke[config.Provider](i)
	bus := do.MustInvoke[*pubsub.WatermillBridge](i)

	stores, err := do.Invoke[*Stores](i)
	if err != nil {
		return nil, err
	}
	source, err := do.Invoke[favorites.Source](i)
	if err != nil {
		return nil, err
	}
	toggler, err := do.Invoke[*favorites.Toggler](i)
	if err != nil {
		return nil, err
	}

	s := server.New(cfg, server.Dependencies{
		Publisher:   bus,
		Subscriber:  bus,
		Renderer:    do.MustInvoke[*rendering.UniversalRenderer](i),
		HealthCheck: stores.Healthy,
		Modules: NewModules(ModuleDependencies{
			Config:    cfg,
			Profiles:  stores.Profiles,
			Favorites: source,
			Toggler:   toggler,
		}),
	})
	s.RegisterRoutes()

	// Closers run in reverse: the bus stops before storage closes.
	s.OnShutdown(stores.Close)
	s.OnShutdown(func(context.Context) error { return bus.Close() })
	return s, nil
}
