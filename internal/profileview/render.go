package profileview

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/nfrund/recipebox/internal/domain"
	"github.com/nfrund/recipebox/internal/recipecard"
	"github.com/nfrund/recipebox/internal/view"
	"github.com/nfrund/recipebox/web/src/templates/layouts"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// Routes and DOM ids the page is wired to.
const (
	BasePath      = "/profile"
	EditPath      = BasePath + "/edit"
	SavePath      = BasePath + "/save"
	FavoritesPath = BasePath + "/favorites"
	LivePath      = BasePath + "/live"

	ProfileBlockID   = "profile-block"
	FavoritesBlockID = "favorites-block"

	// Favorites are polled while a fetch is in flight, in case the live
	// channel is unavailable.
	favoritesPollTrigger = "every 2s"
)

const (
	bioPlaceholder    = "This user hasn't written a bio yet."
	emptyFavorites    = "You don't have any favorite recipes yet."
	emptyFavoriteHint = "Tap the heart on any recipe to save it here."
)

// FavoriteOpenURL is the endpoint a card posts to when opened.
func FavoriteOpenURL(recipeID string) string {
	return FavoritesPath + "/" + url.PathEscape(recipeID) + "/open"
}

// FavoriteToggleURL is the endpoint a card's heart posts to.
func FavoriteToggleURL(recipeID string) string {
	return FavoritesPath + "/" + url.PathEscape(recipeID) + "/toggle"
}

// Page renders the full profile document.
func Page(s Snapshot, flash view.FlashData) g.Node {
	head := []templ.Component{
		view.AdaptGomponentToTempl(Meta(Name("htmx-config"), Content(`{"defaultSwapStyle":"outerHTML"}`))),
	}
	return layouts.Layout("Profile", head,
		Div(
			ID("profile-page"),
			Class("mx-auto max-w-4xl space-y-8"),
			hx.Ext("ws"),
			g.Attr("ws-connect", LivePath),
			ProfileBlock(s, flash),
			FavoritesBlock(s, false),
		),
	)
}

// ProfileBlock renders the identity section: static details, or the edit
// form while editing.
func ProfileBlock(s Snapshot, flash view.FlashData) g.Node {
	return Section(
		ID(ProfileBlockID),
		Class("rounded-xl bg-white p-6 shadow"),
		layouts.Flash(flash),
		Div(
			Class("flex items-start gap-6"),
			avatar(s.Profile.Username),
			g.If(s.Editing, editForm(s)),
			g.If(!s.Editing, details(s.Profile)),
		),
	)
}

func avatar(username string) g.Node {
	initial := "?"
	if r, _ := utf8.DecodeRuneInString(strings.TrimSpace(username)); r != utf8.RuneError {
		initial = string(unicode.ToUpper(r))
	}
	return Div(
		Class("avatar flex h-20 w-20 shrink-0 items-center justify-center rounded-full bg-orange-500 text-3xl font-bold text-white"),
		Aria("hidden", "true"),
		g.Text(initial),
	)
}

func details(p domain.Profile) g.Node {
	bio := P(Class("profile-bio mt-3 text-gray-700"), g.Text(p.Bio))
	if p.Bio == "" {
		bio = P(Class("profile-bio mt-3 italic text-gray-400"), g.Text(bioPlaceholder))
	}
	return Div(
		Class("flex-1"),
		H1(Class("profile-username text-2xl font-bold"), g.Text(p.Username)),
		P(Class("profile-user-id text-sm text-gray-500"), g.Text("User ID: "+p.UserID)),
		bio,
		Button(
			Type("button"),
			Class("mt-4 rounded bg-orange-500 px-4 py-2 text-white"),
			hx.Post(EditPath),
			hx.Target("#"+ProfileBlockID),
			hx.Swap("outerHTML"),
			g.Text("Edit Profile"),
		),
	)
}

func editForm(s Snapshot) g.Node {
	return Form(
		Class("flex-1 space-y-3"),
		hx.Post(SavePath),
		hx.Target("#"+ProfileBlockID),
		hx.Swap("outerHTML"),
		Div(
			Label(For("username"), Class("block text-sm font-medium"), g.Text("Username")),
			Input(
				Type("text"), ID("username"), Name("username"),
				Class("mt-1 w-full rounded border px-3 py-2"),
				Value(s.DraftUsername),
				MaxLength("50"),
				Required(),
			),
		),
		Div(
			Label(For("bio"), Class("block text-sm font-medium"), g.Text("Bio")),
			Textarea(
				ID("bio"), Name("bio"),
				Class("mt-1 w-full rounded border px-3 py-2"),
				Rows("4"),
				MaxLength("280"),
				g.Text(s.DraftBio),
			),
		),
		Button(
			Type("submit"),
			Class("rounded bg-orange-500 px-4 py-2 text-white"),
			g.Text("Save"),
		),
	)
}

// FavoritesBlock renders the favorites section for the snapshot's branch.
// With oob set it is marked for an htmx out-of-band swap, as pushed over the
// live channel.
func FavoritesBlock(s Snapshot, oob bool) g.Node {
	return Section(
		ID(FavoritesBlockID),
		Class("space-y-4"),
		g.If(oob, hx.SwapOOB("true")),
		g.If(s.Loading, hx.Get(FavoritesPath)),
		g.If(s.Loading, hx.Trigger(favoritesPollTrigger)),
		g.If(s.Loading, hx.Swap("outerHTML")),
		H2(Class("text-xl font-semibold"), g.Text("♥ Favorite Recipes")),
		favoritesBody(s),
	)
}

func favoritesBody(s Snapshot) g.Node {
	switch s.Branch {
	case BranchSkeleton:
		nodes := make([]g.Node, 0, SkeletonCount)
		for range SkeletonCount {
			nodes = append(nodes, Div(Class("favorite-skeleton skeleton h-56"), Aria("hidden", "true")))
		}
		return Div(Class("favorites-grid"), Aria("busy", "true"), g.Group(nodes))

	case BranchError:
		return P(Class("favorites-error text-red-600"), Role("alert"), g.Text(s.Err))

	case BranchEmpty:
		return Div(
			Class("favorites-empty rounded-xl bg-white p-6 text-center text-gray-500"),
			P(g.Text(emptyFavorites)),
			P(Class("mt-1 text-sm"), g.Text(emptyFavoriteHint)),
		)

	case BranchList:
		return Div(
			Class("favorites-grid"),
			g.Map(s.Favorites, func(r domain.Recipe) g.Node {
				return recipecard.Card(r, recipecard.Actions{
					OpenURL:   FavoriteOpenURL(r.ID),
					ToggleURL: FavoriteToggleURL(r.ID),
					Target:    "#" + FavoritesBlockID,
					Favorited: true,
				})
			}),
		)

	default:
		return nil
	}
}
