package domain

import (
	"context"
	"errors"
)

// Recipe is the slice of a recipe the favorites list needs: its identity, its
// category (used for navigation) and the fields shown on a card.
type Recipe struct {
	ID              string `json:"id" validate:"required"`
	Category        string `json:"category" validate:"required"`
	Title           string `json:"title"`
	ImageURL        string `json:"image_url,omitempty"`
	CookTimeMinutes int    `json:"cook_time_minutes" validate:"gte=0"`
	Servings        int    `json:"servings" validate:"gte=0"`
}

// Validate runs validation checks on the Recipe struct using the defined tags.
func (r *Recipe) Validate() error {
	if err := validatorInstance.Struct(r); err != nil {
		return errors.Join(ErrInvalidRecipe, err)
	}
	return nil
}

// FavoriteRepository stores which recipes a user has favorited.
type FavoriteRepository interface {
	// ListFavorites returns the user's favorites, most recently added first.
	ListFavorites(ctx context.Context, userID string) ([]Recipe, error)
	IsFavorite(ctx context.Context, userID, recipeID string) (bool, error)
	// AddFavorite is a no-op when the recipe is already a favorite.
	AddFavorite(ctx context.Context, userID string, recipe Recipe) error
	// RemoveFavorite is a no-op when the recipe is not a favorite.
	RemoveFavorite(ctx context.Context, userID, recipeID string) error
}
