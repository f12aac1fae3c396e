package profileview

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nfrund/recipebox/internal/domain"
	"github.com/nfrund/recipebox/internal/favorites"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeHook is a favorites hook whose state the test sets directly.
type fakeHook struct {
	mu        sync.Mutex
	state     favorites.State
	refetches int
}

func (h *fakeHook) State() favorites.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *fakeHook) Refetch(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.refetches++
	h.state.Loading = true
	h.state.Err = ""
}

// resolve simulates a successful fetch.
func (h *fakeHook) resolve(recipes ...domain.Recipe) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	h.state.Favorites = recipes
	h.state.Loading = false
	h.state.Err = ""
	h.state.Version++
}

func (h *fakeHook) fail(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.Loading = false
	h.state.Err = msg
}

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockProfileRepo) UpdateUsername(ctx context.Context, userID, username string) error {
	return m.Called(ctx, userID, username).Error(0)
}

func (m *mockProfileRepo) UpdateBio(ctx context.Context, userID, bio string) error {
	return m.Called(ctx, userID, bio).Error(0)
}

// memProfiles is a working in-memory profile store.
type memProfiles struct {
	mu sync.Mutex
	p  domain.Profile
}

func (m *memProfiles) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.p
	return &p, nil
}

func (m *memProfiles) UpdateUsername(ctx context.Context, userID, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.p.Username = username
	return nil
}

func (m *memProfiles) UpdateBio(ctx context.Context, userID, bio string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.p.Bio = bio
	return nil
}

var (
	r1 = domain.Recipe{ID: "r1", Category: "dessert", Title: "Pie"}
	r2 = domain.Recipe{ID: "r2", Category: "main", Title: "Stew"}
	r3 = domain.Recipe{ID: "r3", Category: "soup", Title: "Broth"}
)

func newMountedView(t *testing.T, p domain.Profile) (*View, *fakeHook, *memProfiles) {
	t.Helper()
	store := &memProfiles{p: p}
	hook := &fakeHook{}
	v := NewView(p.UserID, store, hook)
	require.NoError(t, v.Mount(context.Background()))
	return v, hook, store
}

func ids(rs []domain.Recipe) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestView_MountReadsProfileAndRefetchesOnce(t *testing.T) {
	v, hook, _ := newMountedView(t, domain.Profile{UserID: "u-1", Username: "chef", Bio: "I bake."})
	require.NoError(t, v.Mount(context.Background()))

	assert.Equal(t, 1, hook.refetches)
	s := v.Snapshot()
	assert.Equal(t, "chef", s.Profile.Username)
	assert.Equal(t, "I bake.", s.Profile.Bio)
	assert.False(t, s.Editing)
}

func TestView_MountFailureLeavesViewUnmounted(t *testing.T) {
	repo := &mockProfileRepo{}
	hook := &fakeHook{}
	repo.On("Get", mock.Anything, "u-1").Return(nil, errors.New("store offline")).Once()
	repo.On("Get", mock.Anything, "u-1").Return(&domain.Profile{UserID: "u-1", Username: "chef"}, nil).Once()

	v := NewView("u-1", repo, hook)
	require.Error(t, v.Mount(context.Background()))
	assert.Zero(t, hook.refetches)

	require.NoError(t, v.Mount(context.Background()))
	assert.Equal(t, 1, hook.refetches)
}

func TestView_EditThenSaveUnchangedKeepsProfile(t *testing.T) {
	profiles := []domain.Profile{
		{UserID: "u-1", Username: "chef", Bio: "I bake."},
		{UserID: "u-2", Username: "Guest", Bio: ""},
		{UserID: "u-3", Username: "Zoë", Bio: "Ünïcode\nand lines"},
	}
	for _, p := range profiles {
		t.Run(p.UserID, func(t *testing.T) {
			v, _, _ := newMountedView(t, p)
			v.EnterEdit()

			s := v.Snapshot()
			assert.True(t, s.Editing)
			assert.Equal(t, p.Username, s.DraftUsername)
			assert.Equal(t, p.Bio, s.DraftBio)

			res := v.Save(context.Background())
			require.True(t, res.OK, "save failed: %v", res.Err)
			assert.Equal(t, SaveSuccessMessage, res.Message())

			s = v.Snapshot()
			assert.False(t, s.Editing)
			assert.Equal(t, p, s.Profile)
		})
	}
}

func TestView_SaveWritesDrafts(t *testing.T) {
	v, _, store := newMountedView(t, domain.Profile{UserID: "u-1", Username: "chef"})
	v.EnterEdit()
	v.SetDrafts("baker", "Sourdough every day.")

	res := v.Save(context.Background())
	require.True(t, res.OK)
	assert.Equal(t, domain.Profile{UserID: "u-1", Username: "baker", Bio: "Sourdough every day."}, store.p)
	assert.Equal(t, store.p, v.Snapshot().Profile)
}

func TestView_SaveRejectsInvalidDrafts(t *testing.T) {
	v, _, store := newMountedView(t, domain.Profile{UserID: "u-1", Username: "chef"})
	v.EnterEdit()
	v.SetDrafts("   ", "bio")

	res := v.Save(context.Background())
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, domain.ErrInvalidProfile)
	assert.Contains(t, res.Message(), "username is required")

	s := v.Snapshot()
	assert.True(t, s.Editing, "still editing after a rejected save")
	assert.Equal(t, "   ", s.DraftUsername)
	assert.Equal(t, "chef", store.p.Username, "nothing written")
}

func TestView_SaveSurfacesStoreFailure(t *testing.T) {
	repo := &mockProfileRepo{}
	repo.On("Get", mock.Anything, "u-1").Return(&domain.Profile{UserID: "u-1", Username: "chef"}, nil)
	repo.On("UpdateUsername", mock.Anything, "u-1", "baker").Return(errors.New("write refused"))
	repo.On("UpdateBio", mock.Anything, "u-1", "new bio").Return(nil)

	v := NewView("u-1", repo, &fakeHook{})
	require.NoError(t, v.Mount(context.Background()))
	v.EnterEdit()
	v.SetDrafts("baker", "new bio")

	res := v.Save(context.Background())
	assert.False(t, res.OK)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "update username")
	assert.Equal(t, "Could not save your profile. Please try again.", res.Message())

	// Both updates were attempted and the profile re-read.
	repo.AssertCalled(t, "UpdateBio", mock.Anything, "u-1", "new bio")
	repo.AssertNumberOfCalls(t, "Get", 2)

	s := v.Snapshot()
	assert.True(t, s.Editing)
	assert.Equal(t, "baker", s.DraftUsername)
	assert.Equal(t, "new bio", s.DraftBio)
}

func TestView_SaveWhenNotEditing(t *testing.T) {
	v, _, _ := newMountedView(t, domain.Profile{UserID: "u-1", Username: "chef"})
	res := v.Save(context.Background())
	assert.ErrorIs(t, res.Err, ErrNotEditing)
}

func TestView_ToggleOffRemovesExactlyThatEntry(t *testing.T) {
	for _, id := range []string{"r1", "r2", "r3"} {
		t.Run(id, func(t *testing.T) {
			v, hook, _ := newMountedView(t, domain.Profile{UserID: "u-1", Username: "chef"})
			hook.resolve(r1, r2, r3)
			before := ids(v.Snapshot().Favorites)

			v.ToggleFavorite(id, false)

			var want []string
			for _, b := range before {
				if b != id {
					want = append(want, b)
				}
			}
			assert.Equal(t, want, ids(v.Snapshot().Favorites))
		})
	}
}

func TestView_ToggleOnNeverMutates(t *testing.T) {
	v, hook, _ := newMountedView(t, domain.Profile{UserID: "u-1", Username: "chef"})
	hook.resolve(r1, r2)
	v.Snapshot()

	v.ToggleFavorite("r3", true)
	v.ToggleFavorite("r1", true)
	assert.Equal(t, []string{"r1", "r2"}, ids(v.Snapshot().Favorites))
}

func TestView_ToggleUnknownIDIsHarmless(t *testing.T) {
	v, hook, _ := newMountedView(t, domain.Profile{UserID: "u-1", Username: "chef"})
	hook.resolve(r1, r2)
	v.Snapshot()

	v.ToggleFavorite("nope", false)
	assert.Equal(t, []string{"r1", "r2"}, ids(v.Snapshot().Favorites))
}

func TestView_SyncOnlyOnNewVersion(t *testing.T) {
	v, _, _ := newMountedView(t, domain.Profile{UserID: "u-1", Username: "chef"})

	assert.False(t, v.Sync(favorites.State{Loading: true}), "absent favorites never sync")
	assert.True(t, v.Sync(favorites.State{Favorites: []domain.Recipe{r1, r2}, Version: 1}))

	v.ToggleFavorite("r1", false)
	assert.False(t, v.Sync(favorites.State{Favorites: []domain.Recipe{r1, r2}, Version: 1}),
		"same version does not undo an optimistic removal")
	assert.Equal(t, []string{"r2"}, ids(v.Snapshot().Favorites))

	assert.True(t, v.Sync(favorites.State{Favorites: []domain.Recipe{r2, r1}, Version: 2}))
	assert.Equal(t, []string{"r2", "r1"}, ids(v.Snapshot().Favorites), "fresh fetch may reorder")
}

func TestView_SyncCopiesTheList(t *testing.T) {
	v, _, _ := newMountedView(t, domain.Profile{UserID: "u-1", Username: "chef"})
	src := []domain.Recipe{r1, r2}
	v.Sync(favorites.State{Favorites: src, Version: 1})

	v.ToggleFavorite("r1", false)
	assert.Equal(t, "r1", src[0].ID, "hook data is not mutated")
}

func TestView_Favorite(t *testing.T) {
	v, hook, _ := newMountedView(t, domain.Profile{UserID: "u-1", Username: "chef"})
	hook.resolve(r1)
	v.Snapshot()

	got, ok := v.Favorite("r1")
	assert.True(t, ok)
	assert.Equal(t, r1, got)

	_, ok = v.Favorite("r2")
	assert.False(t, ok)
}

func TestView_Scenario(t *testing.T) {
	v, hook, _ := newMountedView(t, domain.Profile{UserID: "u-1", Username: "chef"})

	// Mounted: nothing fetched yet, loading.
	s := v.Snapshot()
	assert.Equal(t, BranchSkeleton, s.Branch)
	assert.Empty(t, s.Favorites)

	hook.resolve(r1, r2)
	s = v.Snapshot()
	assert.Equal(t, BranchList, s.Branch)
	assert.Equal(t, []string{"r1", "r2"}, ids(s.Favorites))

	v.ToggleFavorite("r1", false)
	s = v.Snapshot()
	assert.Equal(t, BranchList, s.Branch)
	assert.Equal(t, []string{"r2"}, ids(s.Favorites))

	// A later refetch restores R1.
	v.Refetch(context.Background())
	s = v.Snapshot()
	assert.True(t, s.Loading)
	assert.Equal(t, BranchList, s.Branch, "existing items stay visible while reloading")
	hook.resolve(r1, r2)
	s = v.Snapshot()
	assert.Equal(t, BranchList, s.Branch)
	assert.Equal(t, []string{"r1", "r2"}, ids(s.Favorites))
}

func TestView_ErrorSuppressesPriorList(t *testing.T) {
	v, hook, _ := newMountedView(t, domain.Profile{UserID: "u-1", Username: "chef"})
	hook.resolve(r1, r2)
	v.Snapshot()

	hook.fail("Failed to load favorite recipes.")
	s := v.Snapshot()
	assert.Equal(t, BranchError, s.Branch)
	assert.Len(t, s.Favorites, 2, "local list is kept, just not shown")
}
