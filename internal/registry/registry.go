package registry

import (
	"fmt"
	"sync"

	"github.com/nfrund/recipebox/internal/config"
)

// Key is a typed key for registering and retrieving services. The string
// value should be unique, e.g. "profile.views".
type Key[T any] string

// Registry lets modules share services at runtime. It is safe for
// concurrent use.
type Registry struct {
	services sync.Map
	cfg      config.Provider
}

// New creates a registry carrying the application configuration.
func New(cfg config.Provider) *Registry {
	return &Registry{cfg: cfg}
}

// Config returns the configuration provider.
func (r *Registry) Config() config.Provider {
	return r.cfg
}

// Set registers value under key, replacing any previous value.
func Set[T any](r *Registry, key Key[T], value T) {
	r.services.Store(string(key), value)
}

// Get retrieves the service registered under key.
func Get[T any](r *Registry, key Key[T]) (T, bool) {
	val, ok := r.services.Load(string(key))
	if !ok {
		var zero T
		return zero, false
	}
	result, ok := val.(T)
	return result, ok
}

// MustGet retrieves a service or panics. Use it only while wiring at startup.
func MustGet[T any](r *Registry, key Key[T]) T {
	val, ok := Get(r, key)
	if !ok {
		panic(fmt.Sprintf("service not found for key: %s", string(key)))
	}
	return val
}

// Keys lists the registered keys, for diagnostics.
func (r *Registry) Keys() []string {
	var keys []string
	r.services.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	return keys
}
