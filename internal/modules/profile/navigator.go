package profile

import "net/url"

// Navigator maps a favorite to the URL the browser opens when its card is
// clicked.
type Navigator func(recipeID, category string) string

// DefaultNavigator links to /recipes/{category}/{id}.
func DefaultNavigator(recipeID, category string) string {
	return "/recipes/" + url.PathEscape(category) + "/" + url.PathEscape(recipeID)
}
