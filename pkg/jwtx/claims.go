package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants for the three token kinds.
// These provide sensible security defaults but can be overridden per-service.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	// Short-lived for security - typical range is 15m to 1h.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	// Longer-lived for user convenience - typical range is 7d to 30d.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour

	// DefaultEmailConfirmTTL is the default lifetime for email confirmation
	// tokens. Long enough for someone to find the mail, short enough that a
	// leaked link goes stale.
	DefaultEmailConfirmTTL = 24 * time.Hour
)

// Kind discriminates the three token flavours the service issues. It is
// embedded as a claim and enforced on every verification, so a token issued
// for one purpose can never be presented for another (e.g. an email
// confirmation link used as an access token).
type Kind string

const (
	KindAccess       Kind = "access"
	KindRefresh      Kind = "refresh"
	KindEmailConfirm Kind = "email_confirm"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindAccess, KindRefresh, KindEmailConfirm:
		return true
	}
	return false
}

// Claims are the signed token payload. The subject is the user's email, we
// are keeping additive changes to preserve compatibility for later.
type Claims struct {
	jwt.RegisteredClaims

	// Kind is the token-type discriminator. Load-bearing: see Kind.
	Kind Kind `json:"kind"`
}

// NewClaims builds minimally-correct claims for the given kind.
func NewClaims(kind Kind, subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Kind: kind,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateKind checks the kind discriminator against the expected kind.
func (c *Claims) ValidateKind(expected Kind) error {
	if c.Kind != expected {
		return ErrWrongKind
	}
	return nil
}

// ValidateExpiryAt ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf), evaluated at the given instant with leeway for
// clock skew. Because time sync is never perfect.
func (c *Claims) ValidateExpiryAt(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
