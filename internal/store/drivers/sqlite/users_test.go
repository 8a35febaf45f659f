package sqlite

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/rolodex/internal/domain"
	"github.com/aussiebroadwan/rolodex/internal/store"
	"github.com/aussiebroadwan/rolodex/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s store.Store, email string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Username:     "alice",
		Email:        email,
		PasswordHash: "argon2:dummy",
		Role:         domain.RoleUser,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := seedUser(t, s, "alice@example.com")

	t.Run("get by id", func(t *testing.T) {
		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, got.Email)
		require.Equal(t, domain.RoleUser, got.Role)
		require.False(t, got.Confirmed)
		require.Nil(t, got.RefreshToken)
		require.Nil(t, got.AvatarURL)
		require.False(t, got.CreatedAt.IsZero())
	})

	t.Run("get by email", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("unknown lookups return not found", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.Users().GetUserByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := domain.User{
			ID:           idx.New().String(),
			Username:     "alice2",
			Email:        "alice@example.com",
			PasswordHash: "argon2:dummy",
			Role:         domain.RoleUser,
		}
		err := s.Users().CreateUser(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestUsersSaveRefreshToken(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := seedUser(t, s, "bob@example.com")

	fingerprint := "fp-1"
	require.NoError(t, s.Users().SaveRefreshToken(ctx, u.ID, &fingerprint))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RefreshToken)
	require.Equal(t, "fp-1", *got.RefreshToken)

	t.Run("replace with new fingerprint", func(t *testing.T) {
		next := "fp-2"
		require.NoError(t, s.Users().SaveRefreshToken(ctx, u.ID, &next))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "fp-2", *got.RefreshToken)
	})

	t.Run("nil clears the stored token", func(t *testing.T) {
		require.NoError(t, s.Users().SaveRefreshToken(ctx, u.ID, nil))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Nil(t, got.RefreshToken)
	})

	t.Run("unknown user returns not found", func(t *testing.T) {
		fp := "fp-x"
		err := s.Users().SaveRefreshToken(ctx, idx.New().String(), &fp)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUsersMarkConfirmed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := seedUser(t, s, "carol@example.com")

	require.NoError(t, s.Users().MarkConfirmed(ctx, u.ID))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.Confirmed)

	// Marking twice is harmless.
	require.NoError(t, s.Users().MarkConfirmed(ctx, u.ID))

	err = s.Users().MarkConfirmed(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersUpdateAvatarURL(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := seedUser(t, s, "dave@example.com")

	require.NoError(t, s.Users().UpdateAvatarURL(ctx, u.ID, "/avatars/dave.png"))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AvatarURL)
	require.Equal(t, "/avatars/dave.png", *got.AvatarURL)

	err = s.Users().UpdateAvatarURL(ctx, idx.New().String(), "/avatars/x.png")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := domain.User{
		ID:           idx.New().String(),
		Username:     "eve",
		Email:        "eve@example.com",
		PasswordHash: "argon2:dummy",
		Role:         domain.RoleUser,
	}

	boom := store.ErrNotFound
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().GetUserByEmail(ctx, "eve@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxCommits(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := domain.User{
		ID:           idx.New().String(),
		Username:     "frank",
		Email:        "frank@example.com",
		PasswordHash: "argon2:dummy",
		Role:         domain.RoleUser,
	}

	err := s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().CreateUser(ctx, u)
	})
	require.NoError(t, err)

	got, err := s.Users().GetUserByEmail(ctx, "frank@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
}
