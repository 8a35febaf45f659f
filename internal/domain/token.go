package domain

import "time"

// TokenPair is what login and refresh hand back: a short-lived access token
// and a longer-lived refresh token, both signed JWTs. The HTTP layer maps
// ExpiresIn to seconds on the wire.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string // always "bearer"
	ExpiresIn    time.Duration
}
