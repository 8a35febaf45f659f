package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/rolodex/internal/domain"
	"github.com/aussiebroadwan/rolodex/internal/service"
	"github.com/aussiebroadwan/rolodex/pkg/httpx"
	"github.com/aussiebroadwan/rolodex/pkg/rolodexsdk"
)

const birthdayLayout = "2006-01-02"

func newContactResponse(c domain.Contact) rolodexsdk.ContactResponse {
	return rolodexsdk.ContactResponse{
		ID:          c.ID,
		FullName:    c.FullName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Birthday:    c.Birthday.Format(birthdayLayout),
	}
}

func validateContact(req rolodexsdk.ContactRequest) (time.Time, string, bool) {
	if strings.TrimSpace(req.FullName) == "" {
		return time.Time{}, "Full name is required", false
	}
	birthday, err := time.Parse(birthdayLayout, req.Birthday)
	if err != nil {
		return time.Time{}, "Birthday must be YYYY-MM-DD", false
	}
	return birthday, "", true
}

// ContactsHandler serves the owner-scoped contact CRUD routes. The owner is
// always the authenticated user; contact ids belonging to someone else look
// like they don't exist.
type ContactsHandler struct {
	ContactService *service.ContactService
}

// HandleCreate adds a contact to the caller's address book.
//
//	@Summary		Create contact
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		rolodexsdk.ContactRequest	true	"Contact"
//	@Success		201		{object}	rolodexsdk.ContactResponse
//	@Failure		400		{object}	rolodexsdk.ErrorResponse	"Invalid request body"
//	@Failure		401		{object}	rolodexsdk.ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/contacts [post].
func (h *ContactsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFrom(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	var req rolodexsdk.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	birthday, msg, ok := validateContact(req)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	contact, err := h.ContactService.CreateContact(r.Context(), user.ID,
		req.FullName, req.Email, req.PhoneNumber, birthday)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, newContactResponse(contact))
}

// HandleList pages through the caller's contacts.
//
//	@Summary		List contacts
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			limit	query		int	false	"Page size (max 100)"
//	@Param			offset	query		int	false	"Offset"
//	@Success		200		{array}		rolodexsdk.ContactResponse
//	@Failure		401		{object}	rolodexsdk.ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/contacts [get].
func (h *ContactsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFrom(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	contacts, err := h.ContactService.ListContacts(r.Context(), user.ID, limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]rolodexsdk.ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, newContactResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet returns one of the caller's contacts.
//
//	@Summary		Get contact
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Contact id"
//	@Success		200	{object}	rolodexsdk.ContactResponse
//	@Failure		401	{object}	rolodexsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		404	{object}	rolodexsdk.ErrorResponse	"No such contact"
//	@Router			/v1/contacts/{id} [get].
func (h *ContactsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFrom(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	contact, err := h.ContactService.GetContact(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newContactResponse(contact))
}

// HandleUpdate rewrites one of the caller's contacts.
//
//	@Summary		Update contact
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Contact id"
//	@Param			request	body		rolodexsdk.ContactRequest	true	"New contact fields"
//	@Success		200		{object}	rolodexsdk.ContactResponse
//	@Failure		400		{object}	rolodexsdk.ErrorResponse	"Invalid request body"
//	@Failure		401		{object}	rolodexsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		404		{object}	rolodexsdk.ErrorResponse	"No such contact"
//	@Router			/v1/contacts/{id} [put].
func (h *ContactsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFrom(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	var req rolodexsdk.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	birthday, msg, ok := validateContact(req)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	contact, err := h.ContactService.UpdateContact(r.Context(), user.ID, r.PathValue("id"),
		req.FullName, req.Email, req.PhoneNumber, birthday)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newContactResponse(contact))
}

// HandleDelete removes one of the caller's contacts.
//
//	@Summary		Delete contact
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Contact id"
//	@Success		204
//	@Failure		401	{object}	rolodexsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		404	{object}	rolodexsdk.ErrorResponse	"No such contact"
//	@Router			/v1/contacts/{id} [delete].
func (h *ContactsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFrom(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	if err := h.ContactService.DeleteContact(r.Context(), user.ID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
