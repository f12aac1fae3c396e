package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLive_PushesFavoritesUpdates(t *testing.T) {
	env := newTestEnv(t, nil)
	v := env.mount(t)

	srv := httptest.NewServer(env.e)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/profile/live", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	require.Eventually(t, func() bool {
		return env.module.hub.Count(ctx, testUser) == 1
	}, time.Second, 5*time.Millisecond)

	env.seed(t, pie)
	v.Refetch(ctx)

	var frame string
	for !strings.Contains(frame, `id="favorite-pie"`) {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		frame = string(data)
		assert.Contains(t, frame, `hx-swap-oob="true"`)
	}
}

func TestLive_UnregistersOnClose(t *testing.T) {
	env := newTestEnv(t, nil)
	env.mount(t)

	srv := httptest.NewServer(env.e)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/profile/live", nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return env.module.hub.Count(ctx, testUser) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
	require.Eventually(t, func() bool {
		return env.module.hub.Count(ctx, testUser) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func dialLive(t *testing.T, ctx context.Context, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/profile/live", nil)
	require.NoError(t, err)
	return conn
}

func TestLive_ReleasesViewWithLastConnection(t *testing.T) {
	env := newTestEnv(t, nil)
	env.mount(t)

	srv := httptest.NewServer(env.e)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first := dialLive(t, ctx, srv)
	second := dialLive(t, ctx, srv)
	require.Eventually(t, func() bool {
		return env.module.hub.Count(ctx, testUser) == 2
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, first.Close(websocket.StatusNormalClosure, ""))
	require.Eventually(t, func() bool {
		return env.module.hub.Count(ctx, testUser) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, env.module.views.Len(), "another tab is still open")

	require.NoError(t, second.Close(websocket.StatusNormalClosure, ""))
	require.Eventually(t, func() bool {
		return env.module.views.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)

	rec := env.do(http.MethodGet, "/profile/favorites", nil)
	assert.Equal(t, "/profile", rec.Header().Get("HX-Redirect"))
}

func TestLive_KeepsViewOfNewerPageLoad(t *testing.T) {
	env := newTestEnv(t, nil)
	env.mount(t)

	srv := httptest.NewServer(env.e)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialLive(t, ctx, srv)
	require.Eventually(t, func() bool {
		return env.module.hub.Count(ctx, testUser) == 1
	}, time.Second, 5*time.Millisecond)

	reloaded := env.mount(t)
	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
	require.Eventually(t, func() bool {
		return env.module.hub.Count(ctx, testUser) == 0
	}, 2*time.Second, 10*time.Millisecond)

	got, ok := env.module.views.Get(testUser)
	require.True(t, ok)
	assert.Same(t, reloaded, got)
}

func TestModule_EvictsIdleViews(t *testing.T) {
	env := newTestEnv(t, nil)
	env.mount(t)
	env.module.deps.ViewIdleTimeout = time.Millisecond
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, 1, env.module.evictIdleViews(context.Background()))
	assert.Zero(t, env.module.views.Len())
}
