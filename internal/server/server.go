package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/recipebox/internal/config"
	"github.com/nfrund/recipebox/internal/middleware"
	"github.com/nfrund/recipebox/internal/module"
	"github.com/nfrund/recipebox/internal/pubsub"
	"github.com/nfrund/recipebox/internal/registry"
	"github.com/nfrund/recipebox/internal/rendering"
)

const sessionMaxAge = 86400 * 30 // 30 days

// Dependencies are the core services shared with every module.
type Dependencies struct {
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Renderer   *rendering.UniversalRenderer
	Modules    []module.Module

	// HealthCheck backs /health; nil means always healthy.
	HealthCheck func() bool
}

// Server holds the echo instance and the modules mounted on it.
type Server struct {
	E        *echo.Echo
	Cfg      config.Provider
	Registry *registry.Registry

	modules     []module.Module
	healthCheck func() bool
	closers     []func(context.Context) error
	booted      bool
}

// New creates a server with the middleware chain and core services in place.
// Call RegisterRoutes and then Start.
func New(cfg config.Provider, deps Dependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())

	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	if deps.Renderer == nil {
		deps.Renderer = rendering.NewUniversalRenderer()
	}
	e.Renderer = deps.Renderer
	setupErrorHandling(e)

	reg := registry.New(cfg)
	registry.Set(reg, registry.RendererKey, rendering.Renderer(deps.Renderer))
	if deps.Publisher != nil {
		registry.Set(reg, registry.PublisherKey, deps.Publisher)
	}
	if deps.Subscriber != nil {
		registry.Set(reg, registry.SubscriberKey, deps.Subscriber)
	}

	return &Server{
		E:           e,
		Cfg:         cfg,
		Registry:    reg,
		modules:     deps.Modules,
		healthCheck: deps.HealthCheck,
	}
}

// OnShutdown registers fn to run after the HTTP server and modules have
// stopped. Functions run in reverse registration order.
func (s *Server) OnShutdown(fn func(context.Context) error) {
	s.closers = append(s.closers, fn)
}

// Boot registers every module's services, then boots each module on its own
// route group, /<name>, behind the session user middleware. ctx bounds the
// modules' background work.
func (s *Server) Boot(ctx context.Context) error {
	if s.booted {
		return nil
	}
	for _, m := range s.modules {
		if err := m.Register(s.Registry); err != nil {
			return fmt.Errorf("register module %s: %w", m.Name(), err)
		}
	}
	for _, m := range s.modules {
		group := s.E.Group("/"+m.Name(), middleware.SessionUser)
		if err := m.Boot(ctx, group, s.Registry); err != nil {
			return fmt.Errorf("boot module %s: %w", m.Name(), err)
		}
		slog.Info("Module booted", "event", "module_booted", "module", m.Name())
	}
	s.booted = true
	return nil
}

func (s *Server) shutdown(ctx context.Context) error {
	var errs []error
	if err := s.E.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	for _, m := range s.modules {
		if err := m.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("module %s shutdown: %w", m.Name(), err))
		}
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
