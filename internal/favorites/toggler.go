package favorites

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/recipebox/internal/domain"
	"github.com/nfrund/recipebox/internal/pubsub"
)

// Toggler flips a recipe's favorite status for a user. It is the backend
// of the heart button on a recipe card.
type Toggler struct {
	repo domain.FavoriteRepository
	pub  pubsub.Publisher
}

// NewToggler creates a Toggler. pub may be nil.
func NewToggler(repo domain.FavoriteRepository, pub pubsub.Publisher) *Toggler {
	return &Toggler{repo: repo, pub: pub}
}

// Toggle removes the recipe from the user's favorites if present and adds it
// otherwise. It reports the new status.
func (t *Toggler) Toggle(ctx context.Context, userID string, recipe domain.Recipe) (bool, error) {
	favorited, err := t.repo.IsFavorite(ctx, userID, recipe.ID)
	if err != nil {
		return false, fmt.Errorf("check favorite %s: %w", recipe.ID, err)
	}

	if favorited {
		err = t.repo.RemoveFavorite(ctx, userID, recipe.ID)
	} else {
		err = t.repo.AddFavorite(ctx, userID, recipe)
	}
	if err != nil {
		return favorited, fmt.Errorf("toggle favorite %s: %w", recipe.ID, err)
	}

	now := !favorited
	if t.pub != nil {
		if err := ToggledEvent.Publish(ctx, t.pub, userID, Toggled{RecipeID: recipe.ID, Favorited: now}); err != nil {
			// The change is stored; subscribers just miss the nudge.
			slog.WarnContext(ctx, "Failed to publish favorite toggle", "user_id", userID, "recipe_id", recipe.ID, "error", err)
		}
	}
	return now, nil
}
