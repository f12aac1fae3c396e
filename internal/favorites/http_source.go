package favorites

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nfrund/recipebox/internal/domain"
)

const (
	favoritesPath = "/users/{userID}/favorites"
	favoritePath  = favoritesPath + "/{recipeID}"
)

// HTTPSource reads and changes favorites through a remote favorites API.
// Besides listing, it answers GET/PUT/DELETE on a single favorite, so the
// same backend serves the list and the card toggle.
type HTTPSource struct {
	client *resty.Client
}

var (
	_ Source                    = (*HTTPSource)(nil)
	_ domain.FavoriteRepository = (*HTTPSource)(nil)
)

// NewHTTPSource creates a source for the API rooted at baseURL.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &HTTPSource{client: client}
}

func (s *HTTPSource) ListFavorites(ctx context.Context, userID string) ([]domain.Recipe, error) {
	var recipes []domain.Recipe
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("userID", userID).
		SetResult(&recipes).
		Get(favoritesPath)
	if err != nil {
		return nil, fmt.Errorf("favorites request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("favorites request failed: unexpected status %d", resp.StatusCode())
	}

	for i := range recipes {
		if err := recipes[i].Validate(); err != nil {
			return nil, fmt.Errorf("favorites response item %d: %w", i, err)
		}
	}
	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	return recipes, nil
}

// IsFavorite reports 200 as favorited and 404 as not.
func (s *HTTPSource) IsFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	resp, err := s.favorite(ctx, userID, recipeID).Get(favoritePath)
	if err != nil {
		return false, fmt.Errorf("favorite lookup failed: %w", err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return false, nil
	case resp.IsError():
		return false, fmt.Errorf("favorite lookup failed: unexpected status %d", resp.StatusCode())
	}
	return true, nil
}

func (s *HTTPSource) AddFavorite(ctx context.Context, userID string, recipe domain.Recipe) error {
	if err := recipe.Validate(); err != nil {
		return err
	}
	resp, err := s.favorite(ctx, userID, recipe.ID).
		SetHeader("Content-Type", "application/json").
		SetBody(recipe).
		Put(favoritePath)
	if err != nil {
		return fmt.Errorf("add favorite failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("add favorite failed: unexpected status %d", resp.StatusCode())
	}
	return nil
}

// RemoveFavorite treats 404 as already removed.
func (s *HTTPSource) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	resp, err := s.favorite(ctx, userID, recipeID).Delete(favoritePath)
	if err != nil {
		return fmt.Errorf("remove favorite failed: %w", err)
	}
	if resp.IsError() && resp.StatusCode() != http.StatusNotFound {
		return fmt.Errorf("remove favorite failed: unexpected status %d", resp.StatusCode())
	}
	return nil
}

func (s *HTTPSource) favorite(ctx context.Context, userID, recipeID string) *resty.Request {
	return s.client.R().
		SetContext(ctx).
		SetPathParam("userID", userID).
		SetPathParam("recipeID", recipeID)
}
