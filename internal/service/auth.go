package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/rolodex/internal/domain"
	"github.com/aussiebroadwan/rolodex/internal/notify"
	"github.com/aussiebroadwan/rolodex/internal/store"
	"github.com/aussiebroadwan/rolodex/pkg/cryptox"
	"github.com/aussiebroadwan/rolodex/pkg/idx"
	"github.com/aussiebroadwan/rolodex/pkg/jwtx"
	"github.com/aussiebroadwan/rolodex/pkg/slogx"
)

var (
	// ErrEmailExists is returned by Signup when the email is taken.
	ErrEmailExists = errors.New("email_already_exists")

	// ErrInvalidEmail means no account exists for the email. Note this is
	// distinguishable from ErrInvalidPassword at the API surface, which
	// leaks account existence. Kept as-is for client compatibility; a
	// hardening pass would collapse the two.
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidPassword = errors.New("invalid_password")

	// ErrEmailNotConfirmed blocks login until the confirmation link is used.
	ErrEmailNotConfirmed = errors.New("email_not_confirmed")

	// ErrRefreshRevoked means the presented refresh token is no longer the
	// active one for the account. The stored token has already been cleared
	// by the time callers see this.
	ErrRefreshRevoked = errors.New("refresh_token_revoked")

	// ErrUnauthorized covers every bearer-token failure: bad signature,
	// expired, wrong kind, or a subject that no longer resolves to a user.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrVerification covers every email-confirmation failure the same way.
	ErrVerification = errors.New("verification_error")

	// ErrForbidden means the identity resolved fine but its role is not
	// allowed on the route.
	ErrForbidden = errors.New("forbidden")
)

// AuthService owns the session lifecycle: signup, email confirmation, login,
// refresh rotation, and identity resolution. All mutable session state lives
// on the user row in the store; the service itself is stateless and safe for
// concurrent use.
type AuthService struct {
	Store    store.Store
	Codec    *jwtx.Codec
	Notifier notify.Notifier

	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	EmailConfirmTTL time.Duration
}

// Signup creates an unconfirmed account and kicks off the confirmation email
// in the background. Delivery failures are logged, never surfaced: the
// account exists either way and the user can request a resend.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (domain.User, error) {
	email = normalizeEmail(email)

	// 1. Hash the password before touching the store
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}

	// 2. Insert; a duplicate email maps to the conflict error
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailExists
		}
		return domain.User{}, err
	}

	// 3. Fire-and-forget the confirmation email
	s.sendConfirmation(ctx, user)

	return user, nil
}

// Login authenticates credentials and starts a session. Error order is
// fixed: unknown email, then unconfirmed account, then wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	email = normalizeEmail(email)

	// 1. Resolve the account
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidEmail
		}
		return domain.TokenPair{}, err
	}

	// 2. Unconfirmed accounts cannot log in
	if !user.Confirmed {
		return domain.TokenPair{}, ErrEmailNotConfirmed
	}

	// 3. Check the password
	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.TokenPair{}, ErrInvalidPassword
		}
		return domain.TokenPair{}, err
	}

	// 4. Issue a fresh pair and persist the refresh fingerprint. Overwrites
	// any prior session: one active refresh token per account.
	return s.issuePair(ctx, s.Store, user.Email, user.ID)
}

// Refresh rotates the session's token pair. The presented token must verify
// as kind=refresh AND match the fingerprint stored on the user row. A
// mismatch means it was already rotated or stolen, so the stored token is
// cleared (forced logout) before the call fails. The compare-and-rotate runs
// in one transaction so two racing refreshes cannot both win; the loser
// observes ErrRefreshRevoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	// 1. Signature, expiry, and kind checks
	claims, err := s.Codec.Verify(refreshToken, jwtx.KindRefresh)
	if err != nil {
		return domain.TokenPair{}, ErrUnauthorized
	}

	fp := cryptox.FingerprintToken(refreshToken)

	var (
		pair    domain.TokenPair
		revoked bool
	)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 2. Subject lookup inside the transaction
		user, err := tx.Users().GetUserByEmail(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUnauthorized
			}
			return err
		}

		// 3. Compare against the stored fingerprint. On mismatch, burn the
		// stored token and commit: the forced logout must stick even though
		// the operation fails.
		if user.RefreshToken == nil || !cryptox.FingerprintEqual(*user.RefreshToken, fp) {
			revoked = true
			return tx.Users().SaveRefreshToken(ctx, user.ID, nil)
		}

		// 4. Rotate: issue a new pair and persist the new fingerprint
		pair, err = s.issuePair(ctx, tx, user.Email, user.ID)
		return err
	})
	if err != nil {
		return domain.TokenPair{}, err
	}
	if revoked {
		slogx.FromContext(ctx).Warn("refresh token reuse detected, session revoked",
			slog.String("subject", claims.Subject))
		return domain.TokenPair{}, ErrRefreshRevoked
	}

	return pair, nil
}

// ResolveIdentity maps a bearer access token to its user. Confirmation and
// refresh-token state are not re-checked: an access token is trusted until
// it expires.
func (s *AuthService) ResolveIdentity(ctx context.Context, accessToken string) (domain.User, error) {
	claims, err := s.Codec.Verify(accessToken, jwtx.KindAccess)
	if err != nil {
		return domain.User{}, ErrUnauthorized
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnauthorized
		}
		return domain.User{}, err
	}
	return user, nil
}

// ConfirmEmail consumes a confirmation token. Idempotent: confirming an
// already-confirmed account succeeds without touching the store.
func (s *AuthService) ConfirmEmail(ctx context.Context, confirmToken string) error {
	claims, err := s.Codec.Verify(confirmToken, jwtx.KindEmailConfirm)
	if err != nil {
		return ErrVerification
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrVerification
		}
		return err
	}

	if user.Confirmed {
		return nil
	}
	return s.Store.Users().MarkConfirmed(ctx, user.ID)
}

// RequestConfirmationResend re-sends the confirmation email. It always
// reports success to the caller; whether the account exists or is already
// confirmed is not leaked beyond the email inbox itself.
func (s *AuthService) RequestConfirmationResend(ctx context.Context, email string) {
	email = normalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Error("confirmation resend lookup failed", "error", err)
		}
		return
	}
	if user.Confirmed {
		return
	}

	s.sendConfirmation(ctx, user)
}

// Authorize gates an identity against the route's allowed roles. Pure check;
// call it only after ResolveIdentity so 401 and 403 come out in order.
func (s *AuthService) Authorize(user domain.User, allowed ...domain.Role) error {
	if !user.Role.In(allowed...) {
		return ErrForbidden
	}
	return nil
}

// issuePair signs a fresh access+refresh pair and persists the refresh
// fingerprint on the user row through the given store (plain or tx-scoped).
func (s *AuthService) issuePair(ctx context.Context, st store.Store, email, userID string) (domain.TokenPair, error) {
	access, err := s.Codec.Issue(jwtx.KindAccess, email, s.AccessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.Codec.Issue(jwtx.KindRefresh, email, s.RefreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}

	fp := cryptox.FingerprintToken(refresh)
	if err := st.Users().SaveRefreshToken(ctx, userID, &fp); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// sendConfirmation issues a confirmation token and delivers it in the
// background. The goroutine holds a detached context so the email still goes
// out after the triggering request returns.
func (s *AuthService) sendConfirmation(ctx context.Context, user domain.User) {
	token, err := s.Codec.Issue(jwtx.KindEmailConfirm, user.Email, s.EmailConfirmTTL)
	if err != nil {
		slogx.FromContext(ctx).Error("confirmation token issue failed", "error", err)
		return
	}

	bg := context.WithoutCancel(ctx)
	go func() {
		if err := s.Notifier.SendConfirmation(bg, user.Email, user.Username, token); err != nil {
			slogx.FromContext(bg).Error("confirmation email send failed",
				slog.String("email", user.Email), "error", err)
		}
	}()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
