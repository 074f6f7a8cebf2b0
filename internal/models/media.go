package models

import (
	"io"
	"time"
)

// Folders the image host files uploads under.
const (
	CertificateFolder = "certificates"
	GalleryFolder     = "barista-portfolio/gallery"
)

// Certificate is a certificate image with its metadata.
type Certificate struct {
	Base
	Title    string `json:"title" validate:"required"`
	ImageURL string `json:"imageUrl" validate:"required"`
	// AssetID is the image host identifier needed to delete the image.
	AssetID string     `json:"cloudinaryId" validate:"required"`
	Date    *time.Time `json:"date,omitempty"`
}

// GalleryItem is one picture of the gallery.
type GalleryItem struct {
	Base
	Title    string `json:"title" validate:"required"`
	ImageURL string `json:"imageUrl" validate:"required"`
	AssetID  string `json:"cloudinaryId" validate:"required"`
}

// Upload is an image received from a multipart form, fully buffered.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Asset is an image stored on the external host.
type Asset struct {
	URL string
	ID  string
}

// CertificateInput is the multipart payload of certificate create and update.
type CertificateInput struct {
	Title string
	// Date is optional; the zero time leaves the stored date untouched on update.
	Date  time.Time
	Image *Upload
}
