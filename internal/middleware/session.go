package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	// UserContextKey holds the session user ID on the echo context.
	UserContextKey = "user_id"

	userSessionName = "recipebox-user"
	userSessionKey  = "user_id"
)

// SessionUser identifies the visitor by a UUID kept in a session cookie,
// minting one on the first request. It must run after the session middleware.
func SessionUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get(userSessionName, c)
		if err != nil {
			// An undecodable cookie (e.g. a rotated secret) yields a fresh
			// session; only a missing store is fatal.
			if sess == nil {
				return err
			}
		}

		id, _ := sess.Values[userSessionKey].(string)
		if _, perr := uuid.Parse(id); perr != nil {
			id = uuid.NewString()
			sess.Values[userSessionKey] = id
			if err := sess.Save(c.Request(), c.Response()); err != nil {
				return err
			}
			FromContext(c.Request().Context()).Info("Issued session user", "event", "session_user_created", "user_id", id)
		}

		c.Set(UserContextKey, id)
		setLogger(c, FromContext(c.Request().Context()).With("user_id", id))
		return next(c)
	}
}

// UserID returns the session user set by SessionUser, or "".
func UserID(c echo.Context) string {
	id, _ := c.Get(UserContextKey).(string)
	return id
}
