package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/rolodex/internal/store"
	"github.com/aussiebroadwan/rolodex/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestContactServiceCRUD(t *testing.T) {
	ctx := context.Background()
	authSvc, notifier := newAuthService(t)
	svc := &ContactService{Store: authSvc.Store}

	owner := signupConfirmed(t, authSvc, notifier, "owner@example.com", "owner-password")
	other := signupConfirmed(t, authSvc, notifier, "other@example.com", "other-password")

	birthday := time.Date(1992, time.March, 4, 0, 0, 0, 0, time.UTC)

	created, err := svc.CreateContact(ctx, owner.ID, "Ada Lovelace", "ada@example.com", "+61 400 123 456", birthday)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, owner.ID, created.UserID)
	require.Equal(t, birthday, created.Birthday)
	require.False(t, created.CreatedAt.IsZero())

	t.Run("get", func(t *testing.T) {
		got, err := svc.GetContact(ctx, owner.ID, created.ID)
		require.NoError(t, err)
		require.Equal(t, "Ada Lovelace", got.FullName)
	})

	t.Run("foreign contact is invisible", func(t *testing.T) {
		_, err := svc.GetContact(ctx, other.ID, created.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update returns the new row", func(t *testing.T) {
		updated, err := svc.UpdateContact(ctx, owner.ID, created.ID,
			"Ada King", "ada@example.com", "+61 400 123 456", birthday)
		require.NoError(t, err)
		require.Equal(t, "Ada King", updated.FullName)
	})

	t.Run("update of a foreign contact fails", func(t *testing.T) {
		_, err := svc.UpdateContact(ctx, other.ID, created.ID,
			"Stolen", "x@example.com", "0", birthday)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteContact(ctx, owner.ID, created.ID))
		_, err := svc.GetContact(ctx, owner.ID, created.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestContactServiceListClampsPaging(t *testing.T) {
	ctx := context.Background()
	authSvc, notifier := newAuthService(t)
	svc := &ContactService{Store: authSvc.Store}

	owner := signupConfirmed(t, authSvc, notifier, "lister@example.com", "lister-password")

	for i := 0; i < 25; i++ {
		_, err := svc.CreateContact(ctx, owner.ID, "Contact", "c@example.com", "0",
			time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
	}

	t.Run("zero limit gets the default page", func(t *testing.T) {
		got, err := svc.ListContacts(ctx, owner.ID, 0, 0)
		require.NoError(t, err)
		require.Len(t, got, defaultContactPageSize)
	})

	t.Run("limit is capped", func(t *testing.T) {
		got, err := svc.ListContacts(ctx, owner.ID, 10_000, 0)
		require.NoError(t, err)
		require.Len(t, got, 25)
	})

	t.Run("negative offset is treated as zero", func(t *testing.T) {
		got, err := svc.ListContacts(ctx, owner.ID, 5, -3)
		require.NoError(t, err)
		require.Len(t, got, 5)
	})

	t.Run("stranger sees nothing", func(t *testing.T) {
		got, err := svc.ListContacts(ctx, idx.New().String(), 10, 0)
		require.NoError(t, err)
		require.Empty(t, got)
	})
}
