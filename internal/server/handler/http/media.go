package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atinyakov/baristafolio/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CertificateService manages certificates and their images.
type CertificateService interface {
	List(ctx context.Context) ([]models.Certificate, error)
	Create(ctx context.Context, in models.CertificateInput) (*models.Certificate, error)
	Update(ctx context.Context, id string, in models.CertificateInput) (*models.Certificate, error)
	Delete(ctx context.Context, id string) error
}

// GalleryService manages gallery items and their images.
type GalleryService interface {
	List(ctx context.Context) ([]models.GalleryItem, error)
	Create(ctx context.Context, title string, image *models.Upload) (*models.GalleryItem, error)
	Delete(ctx context.Context, id string) error
}

var (
	certificateLabels = Labels{Singular: "certificate", Plural: "certificates", Title: "Certificate"}
	galleryLabels     = Labels{Singular: "gallery item", Plural: "gallery", Title: "Gallery item"}
)

// formError carries a client-facing message about a malformed upload.
type formError struct {
	status int
	msg    string
}

func (e *formError) Error() string { return e.msg }

type uploadForm struct {
	Title string
	Date  time.Time
	Image *models.Upload
}

// parseUploadForm reads the title, date and image fields of a multipart
// body no larger than maxBytes. The image is buffered in memory and must
// sniff as an image; an empty file counts as no file.
func parseUploadForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (*uploadForm, error) {
	if r.ContentLength > maxBytes {
		return nil, &formError{status: http.StatusRequestEntityTooLarge, msg: "Image is too large"}
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &formError{status: http.StatusRequestEntityTooLarge, msg: "Image is too large"}
		}
		return nil, &formError{status: http.StatusBadRequest, msg: "Invalid form data"}
	}

	form := &uploadForm{Title: strings.TrimSpace(r.FormValue("title"))}

	date, err := models.ParseDate(r.FormValue("date"))
	if err != nil {
		return nil, &formError{status: http.StatusBadRequest, msg: "Invalid date"}
	}
	form.Date = date

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil
	}
	if err != nil {
		return nil, &formError{status: http.StatusBadRequest, msg: "Invalid image"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &formError{status: http.StatusBadRequest, msg: "Invalid image"}
	}
	if len(data) == 0 {
		return form, nil
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, &formError{status: http.StatusBadRequest, msg: "File must be an image"}
	}
	form.Image = &models.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	}
	return form, nil
}

func writeFormError(w http.ResponseWriter, err error) {
	var bad *formError
	if errors.As(err, &bad) {
		writeError(w, bad.status, bad.msg)
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid form data")
}

// CertificateHandler serves /api/certificates.
type CertificateHandler struct {
	Service        CertificateService
	MaxUploadBytes int64
	Log            *zap.Logger
}

// List handles GET /api/certificates.
func (h *CertificateHandler) List(w http.ResponseWriter, r *http.Request) {
	certs, err := h.Service.List(r.Context())
	if err != nil {
		fail(w, h.Log, err, certificateLabels, "fetch", "certificates")
		return
	}
	writeJSON(w, http.StatusOK, certs)
}

// Create handles multipart POST /api/certificates.
func (h *CertificateHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := parseUploadForm(w, r, h.MaxUploadBytes)
	if err != nil {
		writeFormError(w, err)
		return
	}
	cert, err := h.Service.Create(r.Context(), models.CertificateInput{Title: form.Title, Date: form.Date, Image: form.Image})
	if err != nil {
		fail(w, h.Log, err, certificateLabels, "create", "certificate")
		return
	}
	writeJSON(w, http.StatusCreated, cert)
}

// Update handles multipart PUT /api/certificates/{id}.
func (h *CertificateHandler) Update(w http.ResponseWriter, r *http.Request) {
	form, err := parseUploadForm(w, r, h.MaxUploadBytes)
	if err != nil {
		writeFormError(w, err)
		return
	}
	cert, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"),
		models.CertificateInput{Title: form.Title, Date: form.Date, Image: form.Image})
	if err != nil {
		fail(w, h.Log, err, certificateLabels, "update", "certificate")
		return
	}
	writeJSON(w, http.StatusOK, cert)
}

// Delete handles DELETE /api/certificates/{id}.
func (h *CertificateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, h.Log, err, certificateLabels, "delete", "certificate")
		return
	}
	writeMessage(w, "Certificate deleted successfully")
}

// GalleryHandler serves /api/gallery.
type GalleryHandler struct {
	Service        GalleryService
	MaxUploadBytes int64
	Log            *zap.Logger
}

// List handles GET /api/gallery.
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		fail(w, h.Log, err, galleryLabels, "fetch", "gallery")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Create handles multipart POST /api/gallery.
func (h *GalleryHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := parseUploadForm(w, r, h.MaxUploadBytes)
	if err != nil {
		writeFormError(w, err)
		return
	}
	item, err := h.Service.Create(r.Context(), form.Title, form.Image)
	if err != nil {
		fail(w, h.Log, err, galleryLabels, "create", "gallery item")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Delete handles DELETE /api/gallery/{id}.
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, h.Log, err, galleryLabels, "delete", "gallery item")
		return
	}
	writeMessage(w, "Gallery item deleted successfully")
}
