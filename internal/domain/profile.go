package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validatorInstance is a package-level validator instance.
// Using a single instance is more efficient as it caches struct information.
var validatorInstance = validator.New(validator.WithRequiredStructEnabled())

// Profile limits, counted in runes.
const (
	MaxUsernameLength = 50
	MaxBioLength      = 280
)

// Profile is the user-facing identity shown on the profile page.
type Profile struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
}

// DefaultProfile is the profile reported for a user the store has never seen.
func DefaultProfile(userID, username string) *Profile {
	return &Profile{UserID: userID, Username: username}
}

// ProfileUpdate carries the draft fields submitted from the edit form.
type ProfileUpdate struct {
	Username string `validate:"required,max=50"`
	Bio      string `validate:"max=280"`
}

// Validate checks the draft against the profile limits. Whitespace-only
// usernames are rejected. The returned error wraps ErrInvalidProfile.
func (u ProfileUpdate) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidProfile)
	}
	if err := validatorInstance.Struct(u); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalidProfile, describe(verrs[0]))
		}
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// ProfileRepository is the profile store the page reads from and writes to.
// Get never reports ErrNotFound: an unknown user yields a default profile.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	UpdateUsername(ctx context.Context, userID, username string) error
	UpdateBio(ctx context.Context, userID, bio string) error
}
