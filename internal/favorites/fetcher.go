package favorites

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nfrund/recipebox/internal/domain"
	"github.com/nfrund/recipebox/internal/pubsub"
)

const defaultFetchTimeout = 10 * time.Second

// Fetcher loads one user's favorites from a Source in the background and
// exposes the result as a State. At most one fetch runs at a time.
type Fetcher struct {
	source  Source
	userID  string
	pub     pubsub.Publisher
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	state   State
	running bool
	pending bool
	wg      sync.WaitGroup
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithPublisher publishes a StateChanged event on every state change.
func WithPublisher(pub pubsub.Publisher) Option {
	return func(f *Fetcher) { f.pub = pub }
}

// WithTimeout bounds each fetch.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithLogger sets the logger for fetch and publish failures. The default
// is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher creates an idle Fetcher. Nothing is fetched until Refetch.
func NewFetcher(source Source, userID string, opts ...Option) *Fetcher {
	f := &Fetcher{
		source:  source,
		userID:  userID,
		timeout: defaultFetchTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// UserID returns the user whose favorites are fetched.
func (f *Fetcher) UserID() string {
	return f.userID
}

// State returns a copy of the current state.
func (f *Fetcher) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.clone()
}

// Refetch starts a fetch and returns immediately. If a fetch is already in
// flight, exactly one more fetch runs after it, however many times Refetch
// is called meanwhile. The fetch outlives ctx's cancellation but keeps its
// values.
func (f *Fetcher) Refetch(ctx context.Context) {
	f.mu.Lock()
	f.state.Loading = true
	f.state.Err = ""
	if f.running {
		f.pending = true
		f.mu.Unlock()
		return
	}
	f.running = true
	f.wg.Add(1)
	changed := f.changedLocked()
	f.mu.Unlock()

	f.publish(ctx, changed)
	go f.run(context.WithoutCancel(ctx))
}

// Wait blocks until no fetch is in flight.
func (f *Fetcher) Wait() {
	f.wg.Wait()
}

func (f *Fetcher) run(ctx context.Context) {
	defer f.wg.Done()

	for {
		fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
		favorites, err := f.source.ListFavorites(fetchCtx, f.userID)
		cancel()

		f.mu.Lock()
		if err != nil {
			f.logger.ErrorContext(ctx, "Failed to fetch favorites",
				"event", "favorites_fetch_failure", "user_id", f.userID, "error", err)
			f.state.Err = LoadErrorMessage
		} else {
			if favorites == nil {
				favorites = []domain.Recipe{}
			}
			f.state.Favorites = favorites
			f.state.Err = ""
			f.state.Version++
		}

		again := f.pending
		f.pending = false
		if again {
			f.state.Err = ""
		} else {
			f.state.Loading = false
			f.running = false
		}
		changed := f.changedLocked()
		f.mu.Unlock()

		f.publish(ctx, changed)
		if !again {
			return
		}
	}
}

func (f *Fetcher) changedLocked() StateChanged {
	return StateChanged{
		Version: f.state.Version,
		Loading: f.state.Loading,
		Err:     f.state.Err,
		Count:   len(f.state.Favorites),
	}
}

func (f *Fetcher) publish(ctx context.Context, changed StateChanged) {
	if f.pub == nil {
		return
	}
	if err := StateEvent.Publish(ctx, f.pub, f.userID, changed); err != nil {
		f.logger.WarnContext(ctx, "Failed to publish favorites state",
			"event", "favorites_state_publish_failure", "user_id", f.userID, "error", err)
	}
}
