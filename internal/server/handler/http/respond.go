// Package http exposes the portfolio API over HTTP: public listings,
// the contact form, and the session-protected admin operations.
package http

import (
	"errors"
	"net/http"

	"github.com/atinyakov/baristafolio/internal/breaker"
	"github.com/atinyakov/baristafolio/internal/imagehost"
	"github.com/atinyakov/baristafolio/internal/models"
	"github.com/atinyakov/baristafolio/internal/validation"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Labels name a collection in response messages.
type Labels struct {
	// Singular is the lower-case name of one record, e.g. "career item".
	Singular string
	// Plural is the lower-case name of the collection, e.g. "career".
	Plural string
	// Title is Singular with a capital first letter.
	Title string
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// decodeJSON reads the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// fail translates err into the JSON error envelope. Unexpected errors are
// logged and reported as "Failed to <action> <what>".
func fail(w http.ResponseWriter, log *zap.Logger, err error, labels Labels, action, what string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, labels.Title+" not found")
	case errors.Is(err, models.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, "Action not allowed in the current state")
	case errors.Is(err, models.ErrConflict):
		writeError(w, http.StatusBadRequest, labels.Title+" already exists")
	case errors.Is(err, models.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, models.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, breaker.ErrOpen), errors.Is(err, imagehost.ErrNotConfigured):
		log.Warn("upstream unavailable", zap.String("action", action), zap.String("target", what), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "Failed to "+action+" "+what+": service unavailable")
	default:
		log.Error("request failed", zap.String("action", action), zap.String("target", what), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to "+action+" "+what)
	}
}
