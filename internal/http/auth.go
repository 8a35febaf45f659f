package http

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"github.com/aussiebroadwan/rolodex/internal/domain"
	"github.com/aussiebroadwan/rolodex/internal/service"
	"github.com/aussiebroadwan/rolodex/pkg/httpx"
	"github.com/aussiebroadwan/rolodex/pkg/rolodexsdk"
)

func newTokenResponse(pair domain.TokenPair) rolodexsdk.TokenResponse {
	return rolodexsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	}
}

func newUserResponse(u domain.User) rolodexsdk.UserResponse {
	return rolodexsdk.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		Confirmed: u.Confirmed,
		AvatarURL: u.AvatarURL,
	}
}

type SignupHandler struct {
	AuthService *service.AuthService
}

const minPasswordLen = 8

// ServeHTTP creates a new unconfirmed account.
//
//	@Summary		Sign up
//	@Description	Creates an unconfirmed account and emails a confirmation link.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		rolodexsdk.SignupRequest	true	"New account"
//	@Success		201		{object}	rolodexsdk.UserResponse
//	@Failure		400		{object}	rolodexsdk.ErrorResponse	"Invalid request body"
//	@Failure		409		{object}	rolodexsdk.ErrorResponse	"Email already registered"
//	@Router			/v1/auth/signup [post].
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rolodexsdk.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg, ok := validateSignup(req); !ok {
		httpx.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := h.AuthService.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, newUserResponse(user))
}

func validateSignup(req rolodexsdk.SignupRequest) (string, bool) {
	if strings.TrimSpace(req.Username) == "" {
		return "Username is required", false
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return "Invalid email address", false
	}
	if len(req.Password) < minPasswordLen {
		return "Password must be at least 8 characters", false
	}
	return "", true
}

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP authenticates credentials and starts a session.
//
//	@Summary		Log in
//	@Description	Issues an access and refresh token pair for valid credentials.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		rolodexsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	rolodexsdk.TokenResponse
//	@Failure		401		{object}	rolodexsdk.ErrorResponse	"Bad credentials or unconfirmed email"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rolodexsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, newTokenResponse(pair))
}

type RefreshHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP rotates a refresh token into a new pair.
//
//	@Summary		Refresh session
//	@Description	Exchanges the current refresh token for a new access and refresh pair. The old refresh token is invalidated.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		rolodexsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	rolodexsdk.TokenResponse
//	@Failure		401		{object}	rolodexsdk.ErrorResponse	"Expired, revoked, or malformed token"
//	@Router			/v1/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rolodexsdk.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	pair, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, newTokenResponse(pair))
}
