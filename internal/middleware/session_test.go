package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionEcho() *echo.Echo {
	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))))
	e.Use(SessionUser)
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, UserID(c))
	})
	return e
}

func TestSessionUser(t *testing.T) {
	e := newSessionEcho()

	t.Run("mints a user on first visit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		_, err := uuid.Parse(rec.Body.String())
		assert.NoError(t, err)
		assert.NotEmpty(t, rec.Result().Cookies())
	})

	t.Run("keeps the user across requests", func(t *testing.T) {
		first := httptest.NewRecorder()
		e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range first.Result().Cookies() {
			req.AddCookie(c)
		}
		second := httptest.NewRecorder()
		e.ServeHTTP(second, req)

		assert.Equal(t, first.Body.String(), second.Body.String())
	})

	t.Run("replaces a tampered cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: userSessionName, Value: "garbage"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		_, err := uuid.Parse(rec.Body.String())
		assert.NoError(t, err)
	})
}

func TestUserID_Unset(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Empty(t, UserID(c))
}
