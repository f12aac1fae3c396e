package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/recipebox/internal/favorites"
	"github.com/nfrund/recipebox/internal/hub"
	"github.com/nfrund/recipebox/internal/middleware"
	"github.com/nfrund/recipebox/internal/profileview"
	"github.com/nfrund/recipebox/internal/rendering"
)

const liveWriteTimeout = 5 * time.Second

// Live upgrades to a websocket and streams out-of-band favorites fragments
// to the page until the client goes away.
func (h *Handler) Live(c echo.Context) error {
	userID := middleware.UserID(c)
	logger := middleware.FromContext(c.Request().Context())

	// Same-origin only.
	conn, err := websocket.Accept(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("Failed to upgrade live connection", "error", err)
		return nil
	}
	defer conn.CloseNow()

	// The view this page mounted; it is released with the last connection.
	v, _ := h.views.Get(userID)

	sub := hub.NewSubscriber(userID)
	select {
	case h.hub.Register <- sub:
	case <-h.stop:
		return conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
	defer func() {
		select {
		case h.hub.Unregister <- sub:
		case <-h.stop:
			return
		}
		h.releaseIfIdle(userID, v)
	}()
	logger.Debug("Live connection opened", "event", "live_open")

	// The page only sends pings; reading happens in the background.
	ctx := conn.CloseRead(c.Request().Context())
	for {
		select {
		case msg, ok := <-sub.Send:
			if !ok {
				return conn.Close(websocket.StatusGoingAway, "")
			}
			if err := writeFrame(ctx, conn, msg); err != nil {
				logger.Debug("Live connection closed", "event", "live_close", "error", err)
				return nil
			}
		case <-ctx.Done():
			logger.Debug("Live connection closed", "event", "live_close")
			return nil
		}
	}
}

// releaseIfIdle drops v once the user has no live connections left. A view
// replaced by a newer page load is never touched.
func (h *Handler) releaseIfIdle(userID string, v *profileview.View) {
	if v == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if h.hub.Count(ctx, userID) > 0 {
		return
	}
	if h.views.Release(userID, v) {
		slog.Debug("Released profile view", "event", "view_released", "user_id", userID)
	}
}

func writeFrame(ctx context.Context, conn *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, liveWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, msg)
}

// livePusher renders the favorites section whenever a user's fetch state
// changes and hands it to the hub.
type livePusher struct {
	views    *profileview.Registry
	hub      *hub.Hub
	renderer rendering.Renderer
}

func newLivePusher(views *profileview.Registry, h *hub.Hub, r rendering.Renderer) *livePusher {
	return &livePusher{views: views, hub: h, renderer: r}
}

func (p *livePusher) onStateChanged(ctx context.Context, userID string, ev favorites.StateChanged) error {
	v, ok := p.views.Get(userID)
	if !ok {
		return nil
	}
	body, err := p.renderer.RenderComponent(ctx, profileview.FavoritesBlock(v.Snapshot(), true))
	if err != nil {
		return fmt.Errorf("render favorites for %s: %w", userID, err)
	}

	select {
	case p.hub.Direct <- &hub.DirectMessage{UserID: userID, Payload: body}:
	case <-ctx.Done():
		return ctx.Err()
	}
	slog.DebugContext(ctx, "Pushed favorites update", "user_id", userID, "version", ev.Version, "loading", ev.Loading)
	return nil
}
