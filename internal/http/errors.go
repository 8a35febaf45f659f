package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/rolodex/internal/avatar"
	"github.com/aussiebroadwan/rolodex/internal/service"
	"github.com/aussiebroadwan/rolodex/internal/store"
	"github.com/aussiebroadwan/rolodex/pkg/httpx"
	"github.com/aussiebroadwan/rolodex/pkg/slogx"
)

// writeServiceError translates service-layer sentinels into HTTP statuses
// with fixed client-facing messages. Anything unrecognized is a 500; the
// detail stays in the log, never in the response body.
//
// Note the error taxonomy leaks account existence: "Invalid email" vs
// "Invalid password" are distinct on purpose to keep client compatibility.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrEmailExists):
		httpx.WriteError(w, http.StatusConflict, "Account already exists")
	case errors.Is(err, service.ErrInvalidEmail):
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid email")
	case errors.Is(err, service.ErrInvalidPassword):
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid password")
	case errors.Is(err, service.ErrEmailNotConfirmed):
		httpx.WriteError(w, http.StatusUnauthorized, "Email not confirmed")
	case errors.Is(err, service.ErrRefreshRevoked):
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid refresh token")
	case errors.Is(err, service.ErrUnauthorized):
		httpx.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
	case errors.Is(err, service.ErrVerification):
		httpx.WriteError(w, http.StatusBadRequest, "Verification error")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "Operation forbidden")
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, avatar.ErrUnsupportedType):
		httpx.WriteError(w, http.StatusUnsupportedMediaType, "Unsupported image type")
	case errors.Is(err, avatar.ErrTooLarge):
		httpx.WriteError(w, http.StatusRequestEntityTooLarge, "Image too large")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
