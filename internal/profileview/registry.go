package profileview

import (
	"context"
	"sync"
	"time"
)

// Factory builds a fresh, unmounted view for a user.
type Factory func(userID string) *View

type entry struct {
	view     *View
	lastSeen time.Time
}

// Registry holds the currently mounted view of each user.
type Registry struct {
	newView Factory
	now     func() time.Time

	mu    sync.Mutex
	views map[string]*entry
}

func NewRegistry(newView Factory) *Registry {
	return &Registry{newView: newView, now: time.Now, views: make(map[string]*entry)}
}

// Mount creates and mounts a new view for userID, replacing any previous
// one. A page load is always a new mount. The view is registered before its
// first fetch starts, so every state change of that fetch is seen through
// Get. If the profile cannot be read, the previous view stays.
func (r *Registry) Mount(ctx context.Context, userID string) (*View, error) {
	v := r.newView(userID)
	if _, err := v.load(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.views[userID] = &entry{view: v, lastSeen: r.now()}
	r.mu.Unlock()

	v.Refetch(ctx)
	return v, nil
}

// Get returns the mounted view for userID and marks it as in use.
func (r *Registry) Get(userID string) (*View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.views[userID]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.view, true
}

// Release forgets userID's view if it is still v. A view replaced by a
// newer mount is left alone.
func (r *Registry) Release(userID string, v *View) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.views[userID]
	if !ok || e.view != v {
		return false
	}
	delete(r.views, userID)
	return true
}

// Evict releases views not used for maxIdle. keep is consulted outside the
// registry lock and may veto a release. It returns the number released.
func (r *Registry) Evict(maxIdle time.Duration, keep func(userID string) bool) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	idle := make(map[string]*View)
	for userID, e := range r.views {
		if e.lastSeen.Before(cutoff) {
			idle[userID] = e.view
		}
	}
	r.mu.Unlock()

	released := 0
	for userID, v := range idle {
		if keep != nil && keep(userID) {
			continue
		}
		r.mu.Lock()
		if e, ok := r.views[userID]; ok && e.view == v && e.lastSeen.Before(cutoff) {
			delete(r.views, userID)
			released++
		}
		r.mu.Unlock()
	}
	return released
}

// Len returns the number of mounted views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}
