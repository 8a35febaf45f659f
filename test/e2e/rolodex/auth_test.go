package rolodex_test

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/rolodex/pkg/rolodexsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

// TestSignupLoginFlow walks the full account lifecycle against a running
// container: signup, confirmation via the logged email link, login, and
// identity resolution.
func TestSignupLoginFlow(t *testing.T) {
	baseURL, container := setupRolodexContainer(t)
	client := rolodexsdk.NewClient(baseURL)
	ctx := t.Context()

	user, err := client.Signup(ctx, rolodexsdk.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "alices-long-password",
	})
	require.NoError(t, err)
	require.Equal(t, "user", user.Role)
	require.False(t, user.Confirmed)

	// Login before confirming is rejected.
	_, err = client.Login(ctx, "alice@example.com", "alices-long-password")
	var apiErr *rolodexsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Email not confirmed", apiErr.Detail)

	token := confirmationToken(t, container, "alice@example.com")
	require.NoError(t, client.ConfirmEmail(ctx, token))

	pair, err := client.Login(ctx, "alice@example.com", "alices-long-password")
	require.NoError(t, err)
	require.Equal(t, "bearer", pair.TokenType)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	me, err := client.Me(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, me.ID)
	require.True(t, me.Confirmed)

	// Avatar upload round trip: the returned URL must serve the bytes back.
	image := bytes.Repeat([]byte{0xC3}, 128)
	updated, err := client.UpdateAvatar(ctx, pair.AccessToken, "avatar.png", "image/png", bytes.NewReader(image))
	require.NoError(t, err)
	require.NotNil(t, updated.AvatarURL)

	resp, err := http.Get(baseURL + *updated.AvatarURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	served, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, image, served)
}

// TestRefreshRotation verifies a refresh token is single use and that
// replaying a stale one burns the whole session.
func TestRefreshRotation(t *testing.T) {
	baseURL, container := setupRolodexContainer(t)
	client := rolodexsdk.NewClient(baseURL)
	ctx := t.Context()

	pair := signupConfirmLogin(t, client, container, "bob@example.com", "bobs-long-password")

	rotated, err := client.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// Replaying the old token is rejected.
	_, err = client.Refresh(ctx, pair.RefreshToken)
	var apiErr *rolodexsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	// The replay also revoked the rotated token.
	_, err = client.Refresh(ctx, rotated.RefreshToken)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	// Fresh login recovers the account.
	_, err = client.Login(ctx, "bob@example.com", "bobs-long-password")
	require.NoError(t, err)
}

// TestContactsFlow exercises the address book CRUD over the wire.
func TestContactsFlow(t *testing.T) {
	baseURL, container := setupRolodexContainer(t)
	client := rolodexsdk.NewClient(baseURL)
	ctx := t.Context()

	owner := signupConfirmLogin(t, client, container, "carol@example.com", "carols-long-password")
	other := signupConfirmLogin(t, client, container, "dave@example.com", "daves-long-password")

	created, err := client.CreateContact(ctx, owner.AccessToken, rolodexsdk.ContactRequest{
		FullName:    "Ada Lovelace",
		Email:       "ada@example.com",
		PhoneNumber: "+61 400 111 222",
		Birthday:    "1815-12-10",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	contacts, err := client.ListContacts(ctx, owner.AccessToken, 0, 0)
	require.NoError(t, err)
	require.Len(t, contacts, 1)

	// Another user cannot see it.
	_, err = client.GetContact(ctx, other.AccessToken, created.ID)
	var apiErr *rolodexsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	updated, err := client.UpdateContact(ctx, owner.AccessToken, created.ID, rolodexsdk.ContactRequest{
		FullName:    "Ada King",
		Email:       "ada@example.com",
		PhoneNumber: "+61 400 111 222",
		Birthday:    "1815-12-10",
	})
	require.NoError(t, err)
	require.Equal(t, "Ada King", updated.FullName)

	require.NoError(t, client.DeleteContact(ctx, owner.AccessToken, created.ID))

	_, err = client.GetContact(ctx, owner.AccessToken, created.ID)
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

// signupConfirmLogin walks a fresh account to a usable token pair.
func signupConfirmLogin(t *testing.T, client *rolodexsdk.Client, container testcontainers.Container, email, password string) rolodexsdk.TokenResponse {
	t.Helper()
	ctx := t.Context()

	_, err := client.Signup(ctx, rolodexsdk.SignupRequest{
		Username: "tester",
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	token := confirmationToken(t, container, email)
	require.NoError(t, client.ConfirmEmail(ctx, token))

	pair, err := client.Login(ctx, email, password)
	require.NoError(t, err)
	return pair
}
