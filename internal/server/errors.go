package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/recipebox/internal/middleware"
	"github.com/nfrund/recipebox/web/src/templates/layouts"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// setupErrorHandling installs the HTTP error handler. echo.HTTPErrors are
// answered with their status and message; anything else is logged with a
// stack trace and answered with a generic 500.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		logger := middleware.FromContext(c.Request().Context())

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			message = fmt.Sprint(he.Message)
			if he.Internal != nil {
				logger.Warn("Request failed", "status", code, "error", he.Internal)
			}
		} else {
			logger.Error("Internal Server Error (Unhandled)",
				"error", err,
				"stack_trace", string(debug.Stack()),
			)
		}

		if err := respondError(c, code, message); err != nil {
			logger.Error("Failed to write error response", "error", err)
		}
	}
}

func respondError(c echo.Context, code int, message string) error {
	if c.Request().Method == http.MethodHead {
		return c.NoContent(code)
	}
	// htmx swaps nothing on error statuses; plain text is enough.
	if c.Request().Header.Get("HX-Request") != "" {
		return c.String(code, message)
	}

	var buf bytes.Buffer
	if err := errorPage(code, message).Render(&buf); err != nil {
		return c.String(code, message)
	}
	return c.HTMLBlob(code, buf.Bytes())
}

func errorPage(code int, message string) g.Node {
	return layouts.Layout(http.StatusText(code), nil,
		Section(
			Class("error-page mx-auto max-w-lg rounded-xl bg-white p-8 text-center shadow"),
			H1(Class("text-4xl font-bold text-orange-600"), g.Textf("%d", code)),
			P(Class("mt-4 text-gray-700"), g.Text(message)),
			A(Href("/profile"), Class("mt-6 inline-block text-orange-600 underline"), g.Text("Back to your profile")),
		),
	)
}
