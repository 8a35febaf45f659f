package service

import (
	"context"
	"io"

	"github.com/aussiebroadwan/rolodex/internal/avatar"
	"github.com/aussiebroadwan/rolodex/internal/domain"
	"github.com/aussiebroadwan/rolodex/internal/store"
)

// UserService covers profile operations on the caller's own account.
type UserService struct {
	Store   store.Store
	Avatars avatar.Store
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// UpdateRole changes a user's role. The caller is responsible for checking
// the new role is a known one and that it is allowed to grant it.
func (s *UserService) UpdateRole(ctx context.Context, userID string, role domain.Role) (domain.User, error) {
	if err := s.Store.Users().UpdateRole(ctx, userID, role); err != nil {
		return domain.User{}, err
	}
	return s.Store.Users().GetUserByID(ctx, userID)
}

// UpdateAvatar stores the uploaded image and persists its public URL on the
// user row. Returns the new URL.
func (s *UserService) UpdateAvatar(ctx context.Context, userID, contentType string, r io.Reader) (string, error) {
	url, err := s.Avatars.Put(ctx, userID, contentType, r)
	if err != nil {
		return "", err
	}

	if err := s.Store.Users().UpdateAvatarURL(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}
