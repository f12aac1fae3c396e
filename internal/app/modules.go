package app

import (
	"github.com/nfrund/recipebox/internal/config"
	"github.com/nfrund/recipebox/internal/domain"
	"github.com/nfrund/recipebox/internal/favorites"
	"github.com/nfrund/recipebox/internal/module"
	"github.com/nfrund/recipebox/internal/modules/profile"
)

// ModuleDependencies holds the services modules are built from.
type ModuleDependencies struct {
	Config    config.Provider
	Profiles  domain.ProfileRepository
	Favorites favorites.Source
	Toggler   *favorites.Toggler
}

// NewModules returns every active module. This is the single place features
// are enabled.
func NewModules(deps ModuleDependencies) []module.Module {
	return []module.Module{
		profile.New(profile.Dependencies{
			Profiles:     deps.Profiles,
			Favorites:    deps.Favorites,
			Toggler:      deps.Toggler,
			FetchTimeout: deps.Config.GetFavoritesFetchTimeout(),
		}),
	}
}
