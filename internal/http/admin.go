package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/rolodex/internal/domain"
	"github.com/aussiebroadwan/rolodex/internal/service"
	"github.com/aussiebroadwan/rolodex/pkg/httpx"
	"github.com/aussiebroadwan/rolodex/pkg/rolodexsdk"
)

// AdminUsersHandler exposes user lookups for moderation tooling. The route
// is gated to admin and moderator roles by the router.
type AdminUsersHandler struct {
	UserService *service.UserService
}

// HandleGet returns any user's record by id.
//
//	@Summary		Get user (admin)
//	@Description	Returns any user's profile. Requires the admin or moderator role.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"User id"
//	@Success		200	{object}	rolodexsdk.UserResponse
//	@Failure		401	{object}	rolodexsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	rolodexsdk.ErrorResponse	"Caller's role is not allowed"
//	@Failure		404	{object}	rolodexsdk.ErrorResponse	"No such user"
//	@Router			/v1/admin/users/{id} [get].
func (h *AdminUsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUserByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, newUserResponse(user))
}

// HandleUpdateRole changes a user's role.
//
//	@Summary		Update user role (admin)
//	@Description	Changes a user's role. Requires the admin role.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"User id"
//	@Param			request	body		rolodexsdk.RoleRequest	true	"New role"
//	@Success		200		{object}	rolodexsdk.UserResponse
//	@Failure		400		{object}	rolodexsdk.ErrorResponse	"Unknown role"
//	@Failure		401		{object}	rolodexsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403		{object}	rolodexsdk.ErrorResponse	"Caller's role is not allowed"
//	@Failure		404		{object}	rolodexsdk.ErrorResponse	"No such user"
//	@Router			/v1/admin/users/{id}/role [patch].
func (h *AdminUsersHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	var req rolodexsdk.RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	role := domain.Role(req.Role)
	if !role.Valid() {
		httpx.WriteError(w, http.StatusBadRequest, "Unknown role")
		return
	}

	user, err := h.UserService.UpdateRole(r.Context(), r.PathValue("id"), role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, newUserResponse(user))
}
