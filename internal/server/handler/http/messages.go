package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/baristafolio/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MessageService handles contact messages.
type MessageService interface {
	Submit(ctx context.Context, sub models.MessageSubmission) (*models.Message, error)
	List(ctx context.Context, filter models.MessageFilter) ([]models.Message, error)
	Update(ctx context.Context, id string, upd models.MessageUpdate) (*models.Message, error)
	Delete(ctx context.Context, id string) error
}

var messageLabels = Labels{Singular: "message", Plural: "messages", Title: "Message"}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    *models.Message `json:"data,omitempty"`
}

// MessageHandler serves /api/messages.
type MessageHandler struct {
	Service MessageService
	Log     *zap.Logger
}

// Submit handles the public contact form.
func (h *MessageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub models.MessageSubmission
	if err := decodeJSON(r, &sub); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	msg, err := h.Service.Submit(r.Context(), sub)
	if err != nil {
		fail(w, h.Log, err, messageLabels, "send", "message")
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "Message sent successfully!", Data: msg})
}

// List handles GET /api/messages?status=&search=.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	msgs, err := h.Service.List(r.Context(), models.MessageFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
	})
	if err != nil {
		fail(w, h.Log, err, messageLabels, "fetch", "messages")
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// Update applies an action or a raw status/reply change.
func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var upd models.MessageUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	msg, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		fail(w, h.Log, err, messageLabels, "update", "message")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Message updated successfully", Data: msg})
}

// Delete handles DELETE /api/messages/{id}.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, h.Log, err, messageLabels, "delete", "message")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Message deleted successfully"})
}
