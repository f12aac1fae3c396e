// Package profileview holds the server-side state of a user's profile page and
// renders it.
//
// A View is the page's single rendering context. Every htmx request against
// the page is delivered to the View under its mutex, so operations observe
// each other in order.
package profileview

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/nfrund/recipebox/internal/domain"
	"github.com/nfrund/recipebox/internal/favorites"
)

// SaveSuccessMessage confirms a successful save.
const SaveSuccessMessage = "Profile updated successfully!"

// ErrNotEditing is returned by Save when the page is not in edit mode.
var ErrNotEditing = errors.New("profile is not being edited")

// Hook is the favorites fetch hook a View reads from. *favorites.Fetcher
// implements it.
type Hook interface {
	State() favorites.State
	Refetch(ctx context.Context)
}

// SaveResult reports the outcome of Save.
type SaveResult struct {
	OK  bool
	Err error
}

// Message is the confirmation text for the result.
func (r SaveResult) Message() string {
	if r.OK {
		return SaveSuccessMessage
	}
	if r.Err == nil {
		return ""
	}
	if errors.Is(r.Err, domain.ErrInvalidProfile) {
		return r.Err.Error()
	}
	return "Could not save your profile. Please try again."
}

// View is the state of one mounted profile page.
type View struct {
	userID   string
	profiles domain.ProfileRepository
	hook     Hook

	mu            sync.Mutex
	mounted       bool
	profile       domain.Profile
	editing       bool
	draftUsername string
	draftBio      string
	favorites     []domain.Recipe
	syncedVersion uint64
}

// NewView creates an unmounted view for userID.
func NewView(userID string, profiles domain.ProfileRepository, hook Hook) *View {
	return &View{
		userID:   userID,
		profiles: profiles,
		hook:     hook,
		profile:  domain.Profile{UserID: userID},
	}
}

func (v *View) UserID() string {
	return v.userID
}

// Mount reads the profile and starts the first favorites fetch. Later calls
// are no-ops. If the profile cannot be read the view stays unmounted.
func (v *View) Mount(ctx context.Context) error {
	first, err := v.load(ctx)
	if err != nil || !first {
		return err
	}
	// Outside the lock: state subscribers render this view.
	v.hook.Refetch(ctx)
	return nil
}

// load reads the profile and marks the view mounted. It reports whether
// this call did the mounting.
func (v *View) load(ctx context.Context) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mounted {
		return false, nil
	}
	p, err := v.profiles.Get(ctx, v.userID)
	if err != nil {
		return false, fmt.Errorf("load profile %s: %w", v.userID, err)
	}
	v.profile = *p
	v.mounted = true
	return true, nil
}

// Refetch asks the hook for fresh favorites.
func (v *View) Refetch(ctx context.Context) {
	v.hook.Refetch(ctx)
}

// Sync copies the hook's favorites into the local list when a fetch has
// completed since the last sync. It reports whether the list was replaced.
func (v *View) Sync(state favorites.State) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.syncLocked(state)
}

func (v *View) syncLocked(state favorites.State) bool {
	if state.Favorites == nil || state.Version == v.syncedVersion {
		return false
	}
	v.favorites = slices.Clone(state.Favorites)
	v.syncedVersion = state.Version
	return true
}

// EnterEdit switches to edit mode with drafts seeded from the profile.
func (v *View) EnterEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.draftUsername = v.profile.Username
	v.draftBio = v.profile.Bio
	v.editing = true
}

// SetDrafts records the edit form's current values.
func (v *View) SetDrafts(username, bio string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.draftUsername = username
	v.draftBio = bio
}

// Save validates the drafts, writes username and bio as two separate
// updates, and re-reads the profile. Edit mode ends only if every step
// succeeded; otherwise the drafts are kept for another attempt.
func (v *View) Save(ctx context.Context) SaveResult {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.editing {
		return SaveResult{Err: ErrNotEditing}
	}

	update := domain.ProfileUpdate{Username: v.draftUsername, Bio: v.draftBio}
	if err := update.Validate(); err != nil {
		return SaveResult{Err: err}
	}

	var errs []error
	if err := v.profiles.UpdateUsername(ctx, v.userID, update.Username); err != nil {
		errs = append(errs, fmt.Errorf("update username: %w", err))
	}
	if err := v.profiles.UpdateBio(ctx, v.userID, update.Bio); err != nil {
		errs = append(errs, fmt.Errorf("update bio: %w", err))
	}

	p, err := v.profiles.Get(ctx, v.userID)
	if err != nil {
		errs = append(errs, fmt.Errorf("reload profile: %w", err))
	} else {
		v.profile = *p
	}

	if err := errors.Join(errs...); err != nil {
		return SaveResult{Err: err}
	}
	v.editing = false
	return SaveResult{OK: true}
}

// ToggleFavorite applies a completed card toggle. A recipe toggled off
// disappears from the list at once; toggling on waits for the next fetch.
func (v *View) ToggleFavorite(recipeID string, favorited bool) {
	if favorited {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.favorites = slices.DeleteFunc(v.favorites, func(r domain.Recipe) bool {
		return r.ID == recipeID
	})
}

// Favorite returns the locally listed favorite with the given id.
func (v *View) Favorite(recipeID string) (domain.Recipe, bool) {
	state := v.hook.State()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.syncLocked(state)

	i := slices.IndexFunc(v.favorites, func(r domain.Recipe) bool { return r.ID == recipeID })
	if i < 0 {
		return domain.Recipe{}, false
	}
	return v.favorites[i], true
}

// Snapshot syncs from the hook and returns a copy of the render state.
func (v *View) Snapshot() Snapshot {
	state := v.hook.State()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.syncLocked(state)

	return Snapshot{
		Profile:       v.profile,
		Editing:       v.editing,
		DraftUsername: v.draftUsername,
		DraftBio:      v.draftBio,
		Favorites:     slices.Clone(v.favorites),
		Loading:       state.Loading,
		Err:           state.Err,
		Branch:        SelectBranch(state.Loading, state.Err, len(v.favorites)),
	}
}

// Snapshot is an immutable copy of everything the page renders.
type Snapshot struct {
	Profile       domain.Profile
	Editing       bool
	DraftUsername string
	DraftBio      string
	Favorites     []domain.Recipe
	Loading       bool
	Err           string
	Branch        Branch
}
