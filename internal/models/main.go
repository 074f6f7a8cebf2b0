// Package models defines the documents stored by the portfolio backend,
// the patch types used to create and update them, and the sentinel errors
// shared by the repository, service and handler layers.
package models

import "time"

// Base carries the identity and bookkeeping timestamps every document has.
type Base struct {
	// ID is the opaque, server-generated identifier.
	ID string `json:"_id"`
	// CreatedAt is set once when the document is first persisted.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is refreshed on every write.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Meta exposes the embedded Base so generic code can stamp ids and times.
func (b *Base) Meta() *Base { return b }

// Document is implemented by pointers to every collection entity.
type Document interface {
	Meta() *Base
}

// DocumentPtr constrains a type parameter to be *T where *T is a Document.
type DocumentPtr[T any] interface {
	*T
	Document
}

// Patch carries the fields a client supplied for a create or update.
// Apply copies only the supplied fields onto the target.
type Patch[T any] interface {
	Apply(target *T)
}

// Admin is the administrator account used to sign in to the dashboard.
type Admin struct {
	Base
	// Email is the unique login of the administrator.
	Email string `json:"email"`
	// PasswordHash is the bcrypt hash of the password; never serialized.
	PasswordHash string `json:"-"`
}

// Session is the verified identity attached to an authenticated request.
type Session struct {
	AdminID   string    `json:"id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires"`
}

// SettingsUpdate is the payload of the admin settings endpoint.
type SettingsUpdate struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
