package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nfrund/recipebox/internal/domain"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

const favoriteTable = "favorite"

var _ domain.FavoriteRepository = (*FavoriteStore)(nil)

// FavoriteRecord is a row of the favorite table. Its record id is the array
// [user_id, recipe_id], so a recipe is favorited at most once per user. The
// recipe is stored as a snapshot of the card fields.
type FavoriteRecord struct {
	ID        *surrealmodels.RecordID       `json:"id,omitempty"`
	UserID    string                        `json:"user_id"`
	Recipe    domain.Recipe                 `json:"recipe"`
	CreatedAt *surrealmodels.CustomDateTime `json:"created_at,omitempty"`
}

// FavoriteStore implements domain.FavoriteRepository on SurrealDB.
type FavoriteStore struct {
	client Client[FavoriteRecord]
}

// NewFavoriteStore creates a new FavoriteStore with the given database client.
func NewFavoriteStore(client Client[FavoriteRecord]) *FavoriteStore {
	return &FavoriteStore{client: client}
}

func (s *FavoriteStore) ListFavorites(ctx context.Context, userID string) ([]domain.Recipe, error) {
	query := "SELECT * FROM favorite WHERE user_id = $user ORDER BY created_at DESC"
	records, err := s.client.Query(ctx, query, map[string]any{"user": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	recipes := make([]domain.Recipe, 0, len(records))
	for _, rec := range records {
		recipes = append(recipes, rec.Recipe)
	}
	return recipes, nil
}

func (s *FavoriteStore) IsFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	query := "SELECT * FROM type::thing($table, [$user, $recipe])"
	rec, err := s.client.QueryOne(ctx, query, favoriteParams(userID, recipeID))
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return rec != nil, nil
}

func (s *FavoriteStore) AddFavorite(ctx context.Context, userID string, recipe domain.Recipe) error {
	if err := recipe.Validate(); err != nil {
		return fmt.Errorf("validation failed for recipe: %w", err)
	}

	query := "CREATE type::thing($table, [$user, $recipe]) CONTENT $data"
	params := favoriteParams(userID, recipe.ID)
	params["data"] = map[string]any{
		"user_id":    userID,
		"recipe":     recipe,
		"created_at": surrealmodels.CustomDateTime{Time: time.Now().UTC()},
	}

	err := s.client.Execute(ctx, query, params)
	if err != nil && strings.Contains(err.Error(), "already exists") {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (s *FavoriteStore) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	query := "DELETE type::thing($table, [$user, $recipe])"
	if err := s.client.Execute(ctx, query, favoriteParams(userID, recipeID)); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func favoriteParams(userID, recipeID string) map[string]any {
	return map[string]any{
		"table":  favoriteTable,
		"user":   userID,
		"recipe": recipeID,
	}
}
