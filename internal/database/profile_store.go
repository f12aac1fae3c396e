package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nfrund/recipebox/internal/domain"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

const profileTable = "profile"

var _ domain.ProfileRepository = (*ProfileStore)(nil)

// ProfileRecord is a row of the profile table. The record id is the user id.
// Fields written by only one update may be absent, hence the pointers.
type ProfileRecord struct {
	ID        *surrealmodels.RecordID       `json:"id,omitempty"`
	Username  *string                       `json:"username,omitempty"`
	Bio       *string                       `json:"bio,omitempty"`
	UpdatedAt *surrealmodels.CustomDateTime `json:"updated_at,omitempty"`
}

// ProfileStore implements domain.ProfileRepository on SurrealDB.
type ProfileStore struct {
	client          Client[ProfileRecord]
	defaultUsername string
}

// NewProfileStore creates a ProfileStore. Users without a profile row are
// reported with defaultUsername.
func NewProfileStore(client Client[ProfileRecord], defaultUsername string) *ProfileStore {
	return &ProfileStore{client: client, defaultUsername: defaultUsername}
}

func (s *ProfileStore) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", domain.ErrNotFound)
	}

	rec, err := s.client.Select(ctx, profileTable, userID)
	if errors.Is(err, ErrNotFound) {
		return domain.DefaultProfile(userID, s.defaultUsername), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	p := domain.DefaultProfile(userID, s.defaultUsername)
	if rec.Username != nil {
		p.Username = *rec.Username
	}
	if rec.Bio != nil {
		p.Bio = *rec.Bio
	}
	return p, nil
}

func (s *ProfileStore) UpdateUsername(ctx context.Context, userID, username string) error {
	return s.merge(ctx, userID, "username", username)
}

func (s *ProfileStore) UpdateBio(ctx context.Context, userID, bio string) error {
	return s.merge(ctx, userID, "bio", bio)
}

// merge writes a single profile field, creating the row if needed.
func (s *ProfileStore) merge(ctx context.Context, userID, field, value string) error {
	if userID == "" {
		return fmt.Errorf("%w: empty user id", domain.ErrNotFound)
	}

	query := "UPSERT type::thing($table, $id) MERGE $data"
	params := map[string]any{
		"table": profileTable,
		"id":    userID,
		"data": map[string]any{
			field:        value,
			"updated_at": surrealmodels.CustomDateTime{Time: time.Now().UTC()},
		},
	}
	if err := s.client.Execute(ctx, query, params); err != nil {
		return fmt.Errorf("failed to update %s: %w", field, err)
	}
	return nil
}
