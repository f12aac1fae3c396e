package favorites

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nfrund/recipebox/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource_ListFavorites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/u-1/favorites":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"id":"r-2","category":"main","title":"Stew","cook_time_minutes":90,"servings":4},
				{"id":"r-1","category":"dessert","title":"Pie"}
			]`))
		case "/users/empty/favorites":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		case "/users/bad/favorites":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"r-1"}]`))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)

	src := NewHTTPSource(srv.URL, 2*time.Second)
	ctx := context.Background()

	t.Run("decodes recipes in order", func(t *testing.T) {
		got, err := src.ListFavorites(ctx, "u-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, domain.Recipe{ID: "r-2", Category: "main", Title: "Stew", CookTimeMinutes: 90, Servings: 4}, got[0])
		assert.Equal(t, "r-1", got[1].ID)
	})

	t.Run("empty list", func(t *testing.T) {
		got, err := src.ListFavorites(ctx, "empty")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("server error", func(t *testing.T) {
		_, err := src.ListFavorites(ctx, "other")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("invalid item", func(t *testing.T) {
		_, err := src.ListFavorites(ctx, "bad")
		assert.ErrorIs(t, err, domain.ErrInvalidRecipe)
	})
}

func TestHTTPSource_DrivesFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"r-1","category":"dessert","title":"Pie"}]`))
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(NewHTTPSource(srv.URL, time.Second), "u-1")
	f.Refetch(context.Background())
	f.Wait()

	s := f.State()
	require.Len(t, s.Favorites, 1)
	assert.Equal(t, "Pie", s.Favorites[0].Title)
}

// favoritesAPI is an in-memory favorites API for one user.
type favoritesAPI struct {
	mu      sync.Mutex
	recipes []domain.Recipe
}

func (a *favoritesAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rest, ok := strings.CutPrefix(r.URL.Path, "/users/u-1/favorites")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if rest == "" && r.Method == http.MethodGet {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(a.recipes)
		return
	}

	id := strings.TrimPrefix(rest, "/")
	i := slices.IndexFunc(a.recipes, func(rc domain.Recipe) bool { return rc.ID == id })
	switch r.Method {
	case http.MethodGet:
		if i < 0 {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		var rc domain.Recipe
		if err := json.NewDecoder(r.Body).Decode(&rc); err != nil || rc.ID != id {
			http.Error(w, "bad recipe", http.StatusBadRequest)
			return
		}
		if i < 0 {
			a.recipes = append([]domain.Recipe{rc}, a.recipes...)
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if i < 0 {
			http.NotFound(w, r)
			return
		}
		a.recipes = slices.Delete(a.recipes, i, i+1)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *favoritesAPI) ids() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.recipes))
	for _, rc := range a.recipes {
		out = append(out, rc.ID)
	}
	return out
}

func TestHTTPSource_FavoriteRepository(t *testing.T) {
	pie := domain.Recipe{ID: "r-1", Category: "dessert", Title: "Pie"}
	stew := domain.Recipe{ID: "r-2", Category: "main", Title: "Stew"}
	api := &favoritesAPI{recipes: []domain.Recipe{pie, stew}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	src := NewHTTPSource(srv.URL, 2*time.Second)
	ctx := context.Background()

	ok, err := src.IsFavorite(ctx, "u-1", "r-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = src.IsFavorite(ctx, "u-1", "r-9")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, src.RemoveFavorite(ctx, "u-1", "r-1"))
	assert.Equal(t, []string{"r-2"}, api.ids())
	require.NoError(t, src.RemoveFavorite(ctx, "u-1", "r-1"), "removing twice is not an error")

	require.NoError(t, src.AddFavorite(ctx, "u-1", pie))
	assert.Equal(t, []string{"r-1", "r-2"}, api.ids())

	assert.ErrorIs(t, src.AddFavorite(ctx, "u-1", domain.Recipe{ID: "r-3"}), domain.ErrInvalidRecipe)

	_, err = src.IsFavorite(ctx, "other", "r-1")
	require.NoError(t, err, "unknown users have no favorites")
}

func TestHTTPSource_ToggleOffRemovesListedRecipe(t *testing.T) {
	pie := domain.Recipe{ID: "r-1", Category: "dessert", Title: "Pie"}
	stew := domain.Recipe{ID: "r-2", Category: "main", Title: "Stew"}
	api := &favoritesAPI{recipes: []domain.Recipe{pie, stew}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	src := NewHTTPSource(srv.URL, 2*time.Second)
	f := NewFetcher(src, "u-1")
	f.Refetch(context.Background())
	f.Wait()
	require.Len(t, f.State().Favorites, 2)

	favorited, err := NewToggler(src, nil).Toggle(context.Background(), "u-1", pie)
	require.NoError(t, err)
	assert.False(t, favorited)
	assert.Equal(t, []string{"r-2"}, api.ids())

	f.Refetch(context.Background())
	f.Wait()
	require.Len(t, f.State().Favorites, 1)
	assert.Equal(t, "r-2", f.State().Favorites[0].ID)
}
