package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/recipebox/internal/profileview"
	"github.com/nfrund/recipebox/web"
)

// RegisterRoutes sets up the routes that belong to no module.
func (s *Server) RegisterRoutes() {
	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))

	s.E.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, profileview.BasePath)
	})

	s.E.GET("/health", func(c echo.Context) error {
		if s.healthCheck != nil && !s.healthCheck() {
			return c.String(http.StatusServiceUnavailable, "UNAVAILABLE")
		}
		return c.String(http.StatusOK, "OK")
	})
}
