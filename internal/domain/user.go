package domain

import "time"

// Role gates access to protected routes. Stored as text on the user row.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// In reports whether r is one of the allowed roles. Pure check, no side
// effects; the HTTP layer composes it after identity resolution so 401 and
// 403 come out in the right order.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

type User struct {
	ID           string
	Username     string
	Email        string // unique
	PasswordHash string // argon2 encoded
	Role         Role
	Confirmed    bool    // set true exactly once by the email-confirmation flow
	RefreshToken *string // SHA-256 fingerprint of the active refresh token (nullable)
	AvatarURL    *string // nullable
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
