package profile

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/recipebox/internal/domain"
	"github.com/nfrund/recipebox/internal/hub"
	"github.com/nfrund/recipebox/internal/middleware"
	"github.com/nfrund/recipebox/internal/profileview"
	"github.com/nfrund/recipebox/internal/rendering"
	"github.com/nfrund/recipebox/internal/view"
)

// headerHXRedirect makes htmx navigate the whole page.
const headerHXRedirect = "HX-Redirect"

// Toggler changes a recipe's favorite status and reports the new status.
// *favorites.Toggler implements it.
type Toggler interface {
	Toggle(ctx context.Context, userID string, recipe domain.Recipe) (bool, error)
}

// Handler serves the profile page and its htmx fragments.
type Handler struct {
	views    *profileview.Registry
	toggler  Toggler
	renderer rendering.Renderer
	navigate Navigator
	hub      *hub.Hub
	stop     <-chan struct{}
}

// NewHandler creates the profile handler. stop is closed when the server
// shuts down.
func NewHandler(views *profileview.Registry, toggler Toggler, renderer rendering.Renderer, navigate Navigator, h *hub.Hub, stop <-chan struct{}) *Handler {
	return &Handler{
		views:    views,
		toggler:  toggler,
		renderer: renderer,
		navigate: navigate,
		hub:      h,
		stop:     stop,
	}
}

// Page mounts a fresh view for the session user and renders the full page.
func (h *Handler) Page(c echo.Context) error {
	userID := middleware.UserID(c)
	v, err := h.views.Mount(c.Request().Context(), userID)
	if err != nil {
		return fmt.Errorf("mount profile page: %w", err)
	}
	return h.renderer.RenderPage(c, http.StatusOK, profileview.Page(v.Snapshot(), view.GetFlashData(c)))
}

// Favorites renders the favorites section; htmx polls it while loading.
func (h *Handler) Favorites(c echo.Context) error {
	v, ok := h.mounted(c)
	if !ok {
		return nil
	}
	return h.renderer.RenderPage(c, http.StatusOK, profileview.FavoritesBlock(v.Snapshot(), false))
}

// Edit switches the profile section to its form.
func (h *Handler) Edit(c echo.Context) error {
	v, ok := h.mounted(c)
	if !ok {
		return nil
	}
	v.EnterEdit()
	return h.renderer.RenderPage(c, http.StatusOK, profileview.ProfileBlock(v.Snapshot(), view.FlashData{}))
}

// Save stores the submitted drafts and renders the profile section with a
// confirmation or the failure reason.
func (h *Handler) Save(c echo.Context) error {
	v, ok := h.mounted(c)
	if !ok {
		return nil
	}

	v.SetDrafts(c.FormValue("username"), c.FormValue("bio"))
	result := v.Save(c.Request().Context())
	if result.OK {
		view.SetFlashSuccess(c, result.Message())
	} else {
		middleware.FromContext(c.Request().Context()).Warn("Profile save failed",
			"event", "profile_save_failed", "user_id", v.UserID(), "error", result.Err)
		view.SetFlashError(c, result.Message())
	}
	return h.renderer.RenderPage(c, http.StatusOK, profileview.ProfileBlock(v.Snapshot(), view.GetFlashData(c)))
}

// Toggle runs the card's favorite toggle and, once it has succeeded, applies
// it to the page.
func (h *Handler) Toggle(c echo.Context) error {
	v, ok := h.mounted(c)
	if !ok {
		return nil
	}
	recipe, err := h.favorite(c, v)
	if err != nil {
		return err
	}

	favorited, err := h.toggler.Toggle(c.Request().Context(), v.UserID(), recipe)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Could not update favorite.").SetInternal(err)
	}
	v.ToggleFavorite(recipe.ID, favorited)
	return h.renderer.RenderPage(c, http.StatusOK, profileview.FavoritesBlock(v.Snapshot(), false))
}

// Open sends the browser to the recipe's page.
func (h *Handler) Open(c echo.Context) error {
	v, ok := h.mounted(c)
	if !ok {
		return nil
	}
	recipe, err := h.favorite(c, v)
	if err != nil {
		return err
	}
	c.Response().Header().Set(headerHXRedirect, h.navigate(recipe.ID, recipe.Category))
	return c.NoContent(http.StatusOK)
}

// mounted returns the session user's view. Without one, it answers with a
// redirect to the page so the browser remounts.
func (h *Handler) mounted(c echo.Context) (*profileview.View, bool) {
	v, ok := h.views.Get(middleware.UserID(c))
	if !ok {
		c.Response().Header().Set(headerHXRedirect, profileview.BasePath)
		_ = c.NoContent(http.StatusOK)
	}
	return v, ok
}

func (h *Handler) favorite(c echo.Context, v *profileview.View) (domain.Recipe, error) {
	id, err := url.PathUnescape(c.Param("id"))
	if err != nil {
		return domain.Recipe{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid recipe id.")
	}
	recipe, ok := v.Favorite(id)
	if !ok {
		return domain.Recipe{}, echo.NewHTTPError(http.StatusNotFound, "Favorite not found.")
	}
	return recipe, nil
}
