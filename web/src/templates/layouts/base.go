package layouts

import (
	"github.com/a-h/templ"
	"github.com/nfrund/recipebox/internal/view"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

const (
	htmxScriptURL   = "https://unpkg.com/htmx.org@2.0.4"
	htmxWSScriptURL = "https://unpkg.com/htmx-ext-ws@2.0.2/ws.js"
)

// Layout is the HTML document shared by every page. head holds extra templ
// components rendered at the end of <head>.
func Layout(title string, head []templ.Component, body ...g.Node) g.Node {
	headNodes := make([]g.Node, 0, len(head))
	for _, c := range head {
		headNodes = append(headNodes, view.AdaptTemplToGomponent(c))
	}

	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(g.Text(CalculateTitle(title))),
				Link(Rel("stylesheet"), Href("/static/css/app.css")),
				Script(Src(htmxScriptURL), Defer()),
				Script(Src(htmxWSScriptURL), Defer()),
				g.Group(headNodes),
			),
			Body(
				Class("min-h-screen bg-orange-50 text-gray-900"),
				Header(
					Class("bg-white shadow-sm"),
					Div(Class("container mx-auto px-4 py-3 font-bold text-orange-600"), g.Text(AppName)),
				),
				Main(Class("container mx-auto px-4 py-8"), g.Group(body)),
			),
		),
	)
}

// Flash renders pending flash messages.
func Flash(f view.FlashData) g.Node {
	if f.Empty() {
		return nil
	}
	nodes := make([]g.Node, 0, len(f.Success)+len(f.Error))
	for _, msg := range f.Success {
		nodes = append(nodes, Div(Class("flash flash-success rounded bg-green-100 p-3 text-green-800"), Role("status"), g.Text(msg)))
	}
	for _, msg := range f.Error {
		nodes = append(nodes, Div(Class("flash flash-error rounded bg-red-100 p-3 text-red-800"), Role("alert"), g.Text(msg)))
	}
	return Div(ID("flash"), Class("mb-4 space-y-2"), g.Group(nodes))
}
