package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/rolodex/internal/avatar"
	"github.com/aussiebroadwan/rolodex/internal/service"
	"github.com/aussiebroadwan/rolodex/pkg/httpx"
)

type MeHandler struct{}

// ServeHTTP returns the authenticated user's own record.
//
//	@Summary		Current user
//	@Description	Returns the profile of the authenticated user.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	rolodexsdk.UserResponse
//	@Failure		401	{object}	rolodexsdk.ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/users/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFrom(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, newUserResponse(user))
}

type AvatarHandler struct {
	UserService *service.UserService
}

// ServeHTTP replaces the authenticated user's avatar image. The body is a
// multipart form with the image under the "file" field.
//
//	@Summary		Update avatar
//	@Description	Stores a new avatar image and returns its public URL.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Avatar image (jpeg, png, gif or webp)"
//	@Success		200		{object}	rolodexsdk.UserResponse
//	@Failure		400		{object}	rolodexsdk.ErrorResponse	"Missing file field"
//	@Failure		401		{object}	rolodexsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		413		{object}	rolodexsdk.ErrorResponse	"Image too large"
//	@Failure		415		{object}	rolodexsdk.ErrorResponse	"Unsupported image type"
//	@Router			/v1/users/me/avatar [patch].
func (h *AvatarHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFrom(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	// Headroom on top of MaxSize covers the multipart framing; the store
	// enforces the exact image limit.
	r.Body = http.MaxBytesReader(w, r.Body, avatar.MaxSize+4096)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.WriteError(w, http.StatusRequestEntityTooLarge, "Image too large")
			return
		}
		httpx.WriteError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	url, err := h.UserService.UpdateAvatar(r.Context(), user.ID, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	user.AvatarURL = &url
	httpx.WriteJSON(w, http.StatusOK, newUserResponse(user))
}
