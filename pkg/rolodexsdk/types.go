package rolodexsdk

// ErrorResponse is the standard error envelope every failing endpoint
// returns.
type ErrorResponse struct {
	// Detail is the human-readable failure message.
	Detail string `json:"detail"`
}

// SignupRequest creates a new unconfirmed account.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest exchanges credentials for a token pair.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest rotates a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// EmailRequest asks for the confirmation email to be re-sent.
type EmailRequest struct {
	Email string `json:"email"`
}

// RoleRequest changes a user's role. Admin only.
type RoleRequest struct {
	// Role is one of "admin", "moderator" or "user".
	Role string `json:"role"`
}

// TokenResponse is returned by the login and refresh endpoints.
type TokenResponse struct {
	// AccessToken is the short-lived JWT presented as a bearer token.
	AccessToken string `json:"access_token"`

	// RefreshToken is the long-lived JWT used to rotate the session.
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`
}

// UserResponse is the public view of a user record.
type UserResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Confirmed bool    `json:"confirmed"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// ContactRequest carries the mutable fields of a contact for create and
// update.
type ContactRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`

	// Birthday is a plain YYYY-MM-DD date.
	Birthday string `json:"birthday"`
}

// ContactResponse is the wire shape of an address-book entry.
type ContactResponse struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Birthday    string `json:"birthday"`
}

// MessageResponse is returned by endpoints that only acknowledge an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthChecks reports per-dependency status inside a HealthResponse.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
