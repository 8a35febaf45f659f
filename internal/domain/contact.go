package domain

import "time"

// Contact is an address-book entry. Every contact belongs to exactly one
// user; all queries are owner-scoped.
type Contact struct {
	ID          string
	UserID      string
	FullName    string
	Email       string
	PhoneNumber string
	Birthday    time.Time // date only, stored as YYYY-MM-DD
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
