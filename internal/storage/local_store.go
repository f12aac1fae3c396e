package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"slices"
	"sync"
	"time"

	"github.com/nfrund/recipebox/internal/domain"
)

// userDocument is the on-disk shape of everything LocalStore keeps for a user.
type userDocument struct {
	Profile   *domain.Profile  `json:"profile,omitempty"`
	Favorites []favoriteRecord `json:"favorites"`
}

type favoriteRecord struct {
	Recipe  domain.Recipe `json:"recipe"`
	AddedAt time.Time     `json:"added_at"`
}

// LocalStore keeps profiles and favorites as one JSON document per user.
// It implements both domain.ProfileRepository and domain.FavoriteRepository.
type LocalStore struct {
	store           Store
	defaultUsername string

	mu  sync.Mutex
	now func() time.Time
}

var (
	_ domain.ProfileRepository  = (*LocalStore)(nil)
	_ domain.FavoriteRepository = (*LocalStore)(nil)
)

// NewLocalStore creates a LocalStore over store. Users without a stored
// profile are reported with defaultUsername and an empty bio.
func NewLocalStore(store Store, defaultUsername string) *LocalStore {
	return &LocalStore{
		store:           store,
		defaultUsername: defaultUsername,
		now:             time.Now,
	}
}

func documentPath(userID string) string {
	return path.Join("users", userID+".json")
}

func (s *LocalStore) load(ctx context.Context, userID string) (*userDocument, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", domain.ErrNotFound)
	}

	r, err := s.store.Open(ctx, documentPath(userID))
	if errors.Is(err, ErrNotExist) {
		return &userDocument{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open user document: %w", err)
	}
	defer r.Close()

	var doc userDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode user document %s: %w", userID, err)
	}
	return &doc, nil
}

func (s *LocalStore) save(ctx context.Context, userID string, doc *userDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user document: %w", err)
	}
	if _, err := s.store.Save(ctx, documentPath(userID), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("save user document: %w", err)
	}
	return nil
}

// update loads the user's document, applies fn and writes it back.
func (s *LocalStore) update(ctx context.Context, userID string, fn func(doc *userDocument) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if !fn(doc) {
		return nil
	}
	return s.save(ctx, userID, doc)
}

func (s *LocalStore) profileOf(userID string, doc *userDocument) *domain.Profile {
	if doc.Profile == nil {
		return domain.DefaultProfile(userID, s.defaultUsername)
	}
	p := *doc.Profile
	p.UserID = userID
	return &p
}

// Get returns the stored profile or a default one for unknown users.
func (s *LocalStore) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profileOf(userID, doc), nil
}

// UpdateUsername persists only the username.
func (s *LocalStore) UpdateUsername(ctx context.Context, userID, username string) error {
	return s.update(ctx, userID, func(doc *userDocument) bool {
		doc.Profile = s.profileOf(userID, doc)
		doc.Profile.Username = username
		return true
	})
}

// UpdateBio persists only the bio.
func (s *LocalStore) UpdateBio(ctx context.Context, userID, bio string) error {
	return s.update(ctx, userID, func(doc *userDocument) bool {
		doc.Profile = s.profileOf(userID, doc)
		doc.Profile.Bio = bio
		return true
	})
}

// ListFavorites returns the user's favorites, newest first.
func (s *LocalStore) ListFavorites(ctx context.Context, userID string) ([]domain.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	records := slices.Clone(doc.Favorites)
	slices.SortStableFunc(records, func(a, b favoriteRecord) int {
		return b.AddedAt.Compare(a.AddedAt)
	})

	recipes := make([]domain.Recipe, 0, len(records))
	for _, rec := range records {
		recipes = append(recipes, rec.Recipe)
	}
	return recipes, nil
}

func (s *LocalStore) IsFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	return indexOf(doc.Favorites, recipeID) >= 0, nil
}

func (s *LocalStore) AddFavorite(ctx context.Context, userID string, recipe domain.Recipe) error {
	if err := recipe.Validate(); err != nil {
		return err
	}
	return s.update(ctx, userID, func(doc *userDocument) bool {
		if indexOf(doc.Favorites, recipe.ID) >= 0 {
			return false
		}
		doc.Favorites = append(doc.Favorites, favoriteRecord{Recipe: recipe, AddedAt: s.now().UTC()})
		return true
	})
}

func (s *LocalStore) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	return s.update(ctx, userID, func(doc *userDocument) bool {
		i := indexOf(doc.Favorites, recipeID)
		if i < 0 {
			return false
		}
		doc.Favorites = slices.Delete(doc.Favorites, i, i+1)
		return true
	})
}

func indexOf(records []favoriteRecord, recipeID string) int {
	return slices.IndexFunc(records, func(r favoriteRecord) bool {
		return r.Recipe.ID == recipeID
	})
}
