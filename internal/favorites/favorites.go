// Package favorites provides the favorites fetch hook used by the profile
// page, the sources it can read from, and the toggle action recipe cards use.
package favorites

import (
	"context"
	"slices"

	"github.com/nfrund/recipebox/internal/domain"
	"github.com/nfrund/recipebox/internal/pubsub"
)

// LoadErrorMessage is the user-facing text reported when a fetch fails.
// The underlying error is logged, not shown.
const LoadErrorMessage = "Failed to load favorite recipes. Reload the page to try again."

// Source lists a user's favorites, most recently added first.
// database.FavoriteStore, storage.LocalStore and HTTPSource implement it.
type Source interface {
	ListFavorites(ctx context.Context, userID string) ([]domain.Recipe, error)
}

// State is a snapshot of the hook. Favorites is nil until the first
// successful fetch; Err is empty unless the latest fetch failed. Version
// increases by one on every successful fetch.
type State struct {
	Favorites []domain.Recipe
	Loading   bool
	Err       string
	Version   uint64
}

func (s State) clone() State {
	if s.Favorites != nil {
		s.Favorites = slices.Clone(s.Favorites)
	}
	return s
}

// StateChanged is published on StateEvent whenever a hook's state changes.
type StateChanged struct {
	Version uint64 `json:"version"`
	Loading bool   `json:"loading"`
	Err     string `json:"err,omitempty"`
	Count   int    `json:"count"`
}

// Toggled is published on ToggledEvent after a card changes a favorite.
type Toggled struct {
	RecipeID  string `json:"recipe_id"`
	Favorited bool   `json:"favorited"`
}

var (
	StateEvent   = pubsub.NewEvent[StateChanged]("favorites.state")
	ToggledEvent = pubsub.NewEvent[Toggled]("favorites.toggled")
)
