package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/rolodex/internal/service"
	"github.com/aussiebroadwan/rolodex/pkg/httpx"
	"github.com/aussiebroadwan/rolodex/pkg/rolodexsdk"
)

type ConfirmEmailHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP consumes an email-confirmation token from the link path.
//
//	@Summary		Confirm email
//	@Description	Marks the account confirmed. Safe to call more than once.
//	@Tags			Email
//	@Produce		json
//	@Param			token	path		string	true	"Confirmation token"
//	@Success		200		{object}	rolodexsdk.MessageResponse
//	@Failure		400		{object}	rolodexsdk.ErrorResponse	"Bad or expired token"
//	@Router			/v1/email/confirm/{token} [get].
func (h *ConfirmEmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Verification error")
		return
	}

	if err := h.AuthService.ConfirmEmail(r.Context(), token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, rolodexsdk.MessageResponse{Message: "Email confirmed"})
}

type RequestEmailHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP re-sends the confirmation email. The response is the same
// whether or not the account exists or is already confirmed.
//
//	@Summary		Request confirmation email
//	@Description	Re-sends the confirmation link if the account is unconfirmed.
//	@Tags			Email
//	@Accept			json
//	@Produce		json
//	@Param			request	body		rolodexsdk.EmailRequest	true	"Account email"
//	@Success		200		{object}	rolodexsdk.MessageResponse
//	@Failure		400		{object}	rolodexsdk.ErrorResponse	"Invalid request body"
//	@Router			/v1/email/request [post].
func (h *RequestEmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rolodexsdk.EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.AuthService.RequestConfirmationResend(r.Context(), req.Email)

	httpx.WriteJSON(w, http.StatusOK, rolodexsdk.MessageResponse{Message: "Check your email for confirmation"})
}
