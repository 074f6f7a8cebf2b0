package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ContentService is the CRUD surface of a plain content collection.
type ContentService[T any, P any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, patch P) (*T, error)
	Update(ctx context.Context, id string, patch P) (*T, error)
	Delete(ctx context.Context, id string) error
}

// ContentHandler serves list, create, update and delete for one collection.
type ContentHandler[T any, P any] struct {
	Service ContentService[T, P]
	Labels  Labels
	Log     *zap.Logger
}

// List handles GET on the collection.
func (h *ContentHandler[T, P]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		fail(w, h.Log, err, h.Labels, "fetch", h.Labels.Plural)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Create handles POST on the collection.
func (h *ContentHandler[T, P]) Create(w http.ResponseWriter, r *http.Request) {
	var patch P
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	item, err := h.Service.Create(r.Context(), patch)
	if err != nil {
		fail(w, h.Log, err, h.Labels, "create", h.Labels.Singular)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Update handles PUT on /{id}.
func (h *ContentHandler[T, P]) Update(w http.ResponseWriter, r *http.Request) {
	var patch P
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	item, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		fail(w, h.Log, err, h.Labels, "update", h.Labels.Singular)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE on /{id}.
func (h *ContentHandler[T, P]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, h.Log, err, h.Labels, "delete", h.Labels.Singular)
		return
	}
	writeMessage(w, h.Labels.Title+" deleted successfully")
}

// Mount registers the collection routes on r. Listing is public, writes
// go through protect.
func (h *ContentHandler[T, P]) Mount(r chi.Router, protect func(http.Handler) http.Handler) {
	r.Get("/", h.List)
	r.Group(func(r chi.Router) {
		r.Use(protect)
		r.Use(jsonOnly)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
	})
	r.With(protect).Delete("/{id}", h.Delete)
}
