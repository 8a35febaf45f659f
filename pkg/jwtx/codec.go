package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed        = errors.New("jwtx: malformed token")
	ErrInvalidSignature = errors.New("jwtx: invalid signature")
	ErrWrongKind        = errors.New("jwtx: wrong token kind")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")

	errShortSecret = errors.New("jwtx: secret must be at least 32 bytes")
)

// minSecretLen guards against weak HMAC keys. HS256 keys shorter than the
// hash output undermine the signature strength.
const minSecretLen = 32

// Codec signs and verifies the service's tokens with a single server-held
// secret using HS256. The kind discriminator is enforced on every Verify
// call, never optionally.
type Codec struct {
	secret []byte
	issuer string
	leeway time.Duration
}

// NewCodec builds a Codec. The secret must be at least 32 bytes.
func NewCodec(secret []byte, issuer string, leeway time.Duration) (*Codec, error) {
	if len(secret) < minSecretLen {
		return nil, errShortSecret
	}
	return &Codec{secret: secret, issuer: issuer, leeway: leeway}, nil
}

// Issue signs a token of the given kind for the subject, expiring after ttl.
func (c *Codec) Issue(kind Kind, subject string, ttl time.Duration) (string, error) {
	return c.IssueAt(time.Now().UTC(), kind, subject, ttl)
}

// IssueAt is Issue with an explicit clock, useful for tests that need to
// simulate token age.
func (c *Codec) IssueAt(now time.Time, kind Kind, subject string, ttl time.Duration) (string, error) {
	if !kind.Valid() {
		return "", ErrWrongKind
	}

	claims := NewClaims(kind, subject, c.issuer, ttl, now)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify validates the token string and returns its parsed Claims. It checks,
// in order: signature, issuer, expiry/not-before, and the kind discriminator.
// Each failure mode maps to a distinct sentinel so callers can return precise
// statuses.
func (c *Codec) Verify(tokenStr string, expected Kind) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// Claim checks are done by hand below so each failure keeps its own
		// sentinel instead of collapsing into one parse error.
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return Claims{}, ErrInvalidSignature
		}
		return Claims{}, ErrMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(c.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiryAt(time.Now().UTC(), c.leeway); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateKind(expected); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}
