package profile

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/recipebox/internal/domain"
	"github.com/nfrund/recipebox/internal/favorites"
	"github.com/nfrund/recipebox/internal/hub"
	"github.com/nfrund/recipebox/internal/middleware"
	"github.com/nfrund/recipebox/internal/module"
	"github.com/nfrund/recipebox/internal/profileview"
	"github.com/nfrund/recipebox/internal/registry"
)

// ViewsKey exposes the mounted profile views to other modules.
const ViewsKey registry.Key[*profileview.Registry] = "profile.views"

// Save is limited per session user.
const (
	saveRatePerSecond = 1
	saveBurst         = 5
)

// Views without a live connection are released after this much inactivity.
const (
	defaultViewIdleTimeout = 30 * time.Minute
	evictInterval          = time.Minute
)

// Dependencies holds the domain services the profile module needs. Bus and
// renderer are taken from the registry's core keys at Boot.
type Dependencies struct {
	Profiles     domain.ProfileRepository
	Favorites    favorites.Source
	Toggler      Toggler
	Navigator    Navigator
	FetchTimeout time.Duration

	// ViewIdleTimeout defaults to 30 minutes.
	ViewIdleTimeout time.Duration
}

// Module serves the profile page under /profile.
type Module struct {
	module.BaseModule
	deps  Dependencies
	views *profileview.Registry
	hub   *hub.Hub
}

func New(deps Dependencies) *Module {
	if deps.Navigator == nil {
		deps.Navigator = DefaultNavigator
	}
	if deps.ViewIdleTimeout <= 0 {
		deps.ViewIdleTimeout = defaultViewIdleTimeout
	}
	return &Module{deps: deps, hub: hub.NewHub()}
}

func (m *Module) Name() string {
	return "profile"
}

// Register creates the view registry. Views are created lazily on page load,
// each with its own favorites fetcher.
func (m *Module) Register(reg *registry.Registry) error {
	pub := registry.MustGet(reg, registry.PublisherKey)
	logger := slog.Default().With("module", m.Name())
	m.views = profileview.NewRegistry(func(userID string) *profileview.View {
		fetcher := favorites.NewFetcher(m.deps.Favorites, userID,
			favorites.WithPublisher(pub),
			favorites.WithTimeout(m.deps.FetchTimeout),
			favorites.WithLogger(logger),
		)
		return profileview.NewView(userID, m.deps.Profiles, fetcher)
	})
	registry.Set(reg, ViewsKey, m.views)
	return nil
}

// Boot starts the live hub and bus subscriptions, then sets up routes.
func (m *Module) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	sub := registry.MustGet(reg, registry.SubscriberKey)
	renderer := registry.MustGet(reg, registry.RendererKey)

	go m.hub.Run(ctx)
	go m.evictLoop(ctx)

	live := newLivePusher(m.views, m.hub, renderer)
	if err := favorites.StateEvent.Subscribe(ctx, sub, live.onStateChanged); err != nil {
		return err
	}
	if err := favorites.ToggledEvent.Subscribe(ctx, sub, m.onToggled); err != nil {
		return err
	}

	slog.Info("Booting profile module: setting up routes", "event", "module_boot", "module", m.Name())
	h := NewHandler(m.views, m.deps.Toggler, renderer, m.deps.Navigator, m.hub, ctx.Done())

	g.GET("", h.Page)
	g.GET("/favorites", h.Favorites)
	g.POST("/edit", h.Edit)
	g.POST("/save", h.Save, middleware.RateLimiter(saveRatePerSecond, saveBurst))
	g.POST("/favorites/:id/toggle", h.Toggle)
	g.POST("/favorites/:id/open", h.Open)
	g.GET("/live", h.Live)
	return nil
}

// onToggled asks the user's page to refetch after any card changed a
// favorite, so the list converges on the stored set.
func (m *Module) onToggled(ctx context.Context, userID string, ev favorites.Toggled) error {
	v, ok := m.views.Get(userID)
	if !ok {
		return nil
	}
	slog.DebugContext(ctx, "Favorite toggled, refetching", "user_id", userID, "recipe_id", ev.RecipeID, "favorited", ev.Favorited)
	v.Refetch(ctx)
	return nil
}

func (m *Module) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(evictInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evictIdleViews(ctx)
		}
	}
}

// evictIdleViews releases views idle for longer than ViewIdleTimeout whose
// user has no live connection.
func (m *Module) evictIdleViews(ctx context.Context) int {
	n := m.views.Evict(m.deps.ViewIdleTimeout, func(userID string) bool {
		return m.hub.Count(ctx, userID) > 0
	})
	if n > 0 {
		slog.InfoContext(ctx, "Released idle profile views", "event", "views_evicted", "count", n, "mounted_views", m.views.Len())
	}
	return n
}

func (m *Module) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down profile module", "event", "module_shutdown", "mounted_views", m.views.Len())
	return nil
}
