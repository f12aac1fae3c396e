package module

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/recipebox/internal/registry"
)

// Module is a self-contained feature mounted by the server.
type Module interface {
	// Name is the module's unique identifier; the server mounts its routes
	// under "/" + Name.
	Name() string

	// Register publishes the module's services to the registry. It runs for
	// every module before any Boot.
	Register(reg *registry.Registry) error

	// Boot sets up routes and starts background work. ctx lives as long as
	// the server.
	Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error

	// Shutdown releases resources during graceful shutdown.
	Shutdown(ctx context.Context) error
}

// BaseModule provides no-op implementations for modules to embed.
type BaseModule struct{}

func (m *BaseModule) Register(reg *registry.Registry) error { return nil }
func (m *BaseModule) Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error {
	return nil
}
func (m *BaseModule) Shutdown(ctx context.Context) error { return nil }
