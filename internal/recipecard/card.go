// Package recipecard renders the recipe card used wherever a recipe is listed.
package recipecard

import (
	"fmt"

	"github.com/nfrund/recipebox/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

var titleCaser = cases.Title(language.English)

// Actions wires the card's controls to htmx endpoints. Target is the element
// the toggle response replaces. An empty URL hides the control.
type Actions struct {
	OpenURL   string
	ToggleURL string
	Target    string
	Favorited bool
}

// ElementID is the DOM id of the card for recipe id.
func ElementID(recipeID string) string {
	return "favorite-" + recipeID
}

// CategoryLabel formats a category slug for display ("main-course" -> "Main-Course").
func CategoryLabel(category string) string {
	return titleCaser.String(category)
}

// Card renders a recipe card.
func Card(r domain.Recipe, a Actions) g.Node {
	return Article(
		ID(ElementID(r.ID)),
		Class("recipe-card relative bg-white rounded-xl shadow hover:shadow-lg transition overflow-hidden"),
		g.If(a.OpenURL != "",
			Button(
				Type("button"),
				Class("block w-full text-left"),
				hx.Post(a.OpenURL),
				hx.Swap("none"),
				cardBody(r),
			),
		),
		g.If(a.OpenURL == "", cardBody(r)),
		g.If(a.ToggleURL != "", heartButton(r, a)),
	)
}

func cardBody(r domain.Recipe) g.Node {
	return Div(
		image(r),
		Div(
			Class("p-4"),
			Span(Class("text-xs uppercase tracking-wide text-orange-600"), g.Text(CategoryLabel(r.Category))),
			H3(Class("mt-1 font-semibold text-gray-900"), g.Text(r.Title)),
			Div(
				Class("mt-2 flex gap-4 text-sm text-gray-500"),
				g.If(r.CookTimeMinutes > 0, Span(Class("recipe-cook-time"), g.Textf("%d min", r.CookTimeMinutes))),
				g.If(r.Servings > 0, Span(Class("recipe-servings"), g.Text(servings(r.Servings)))),
			),
		),
	)
}

func image(r domain.Recipe) g.Node {
	if r.ImageURL == "" {
		return Div(Class("h-40 bg-orange-100"))
	}
	return Img(Class("h-40 w-full object-cover"), Src(r.ImageURL), Alt(r.Title), g.Attr("loading", "lazy"))
}

func heartButton(r domain.Recipe, a Actions) g.Node {
	label := "Add to favorites"
	if a.Favorited {
		label = "Remove from favorites"
	}
	return Button(
		Type("button"),
		Class("favorite-toggle absolute top-2 right-2 rounded-full bg-white/90 p-2"),
		Aria("label", label),
		g.Attr("aria-pressed", fmt.Sprint(a.Favorited)),
		hx.Post(a.ToggleURL),
		g.If(a.Target != "", hx.Target(a.Target)),
		hx.Swap("outerHTML"),
		g.If(a.Favorited, g.Text("♥")),
		g.If(!a.Favorited, g.Text("♡")),
	)
}

func servings(n int) string {
	if n == 1 {
		return "1 serving"
	}
	return fmt.Sprintf("%d servings", n)
}
