package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
)

// UserStore defines the interface for identity persistence. It plays the
// role of the credential store: it owns password hashing, uniqueness of
// email and username, and role lookup.
type UserStore interface {
	// Create saves a new user to the store.
	// It checks the password policy and hashes the plaintext password.
	// Returns a *domain.PasswordPolicyError if the password is too weak.
	// Returns ErrEmailExists or ErrUsernameExists when a unique key is taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email address, case-insensitively.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByUsername retrieves a user by username, case-insensitively.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByIDs returns the users matching ids keyed by ID. Unknown IDs are
	// absent from the map; this is not an error.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.User, error)

	// GetRoles lists the role names held by a user, sorted by name.
	GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
}
