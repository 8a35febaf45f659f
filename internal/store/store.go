package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/rolodex/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable.
type Store interface {
	Users() Users
	Contacts() Contacts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., refresh
	// rotation). The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// This is the recommended way to handle transactions as it automatically
	// handles commit/rollback logic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Users is the user directory the auth core mutates. Lookup is by email
// because the token subject is the email.
type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and identity resolution.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// A duplicate email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// SaveRefreshToken replaces the stored refresh-token fingerprint and
	// bumps updated_at. A nil fingerprint clears it (forced logout).
	SaveRefreshToken(ctx context.Context, userID string, fingerprint *string) error

	// MarkConfirmed flips confirmed to true.
	MarkConfirmed(ctx context.Context, userID string) error

	// UpdateAvatarURL sets the avatar_url and bumps updated_at.
	UpdateAvatarURL(ctx context.Context, userID string, avatarURL string) error

	// UpdateRole changes the user's role and bumps updated_at.
	UpdateRole(ctx context.Context, userID string, role domain.Role) error
}

// Contacts is owner-scoped throughout: every method takes the owning user's
// id and never returns another user's rows.
type Contacts interface {
	// CreateContact inserts a new contact (id is ULID).
	CreateContact(ctx context.Context, c domain.Contact) error

	// GetContactByID returns the contact only if it belongs to userID.
	GetContactByID(ctx context.Context, userID, contactID string) (domain.Contact, error)

	// ListContacts pages through a user's contacts ordered by creation.
	ListContacts(ctx context.Context, userID string, limit, offset int) ([]domain.Contact, error)

	// UpdateContact rewrites the mutable fields of an owned contact.
	UpdateContact(ctx context.Context, c domain.Contact) error

	// DeleteContact removes an owned contact.
	DeleteContact(ctx context.Context, userID, contactID string) error
}
