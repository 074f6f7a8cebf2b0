package models

import "time"

// MessageStatus is the lifecycle state of a contact message.
type MessageStatus string

// Message states. Replied is terminal for the markAsRead and reply actions.
const (
	StatusNew     MessageStatus = "new"
	StatusRead    MessageStatus = "read"
	StatusReplied MessageStatus = "replied"
)

// Valid reports whether s is one of the known states.
func (s MessageStatus) Valid() bool {
	switch s {
	case StatusNew, StatusRead, StatusReplied:
		return true
	}
	return false
}

// Outcomes of the reply notification email.
const (
	DeliveryNone   = ""
	DeliverySent   = "sent"
	DeliveryFailed = "failed"
)

// Message is a contact form submission.
type Message struct {
	Base
	Name      string        `json:"name" validate:"required"`
	Email     string        `json:"email" validate:"required,contactemail"`
	Message   string        `json:"message" validate:"required"`
	Status    MessageStatus `json:"status" validate:"oneof=new read replied"`
	Reply     string        `json:"reply,omitempty"`
	RepliedAt *time.Time    `json:"repliedAt,omitempty"`
	// DeliveryStatus records whether the reply email reached the mail transport.
	DeliveryStatus string `json:"deliveryStatus,omitempty"`
}

// MessageSubmission is the public contact form payload.
type MessageSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Message update actions.
const (
	ActionMarkAsRead  = "markAsRead"
	ActionReply       = "reply"
	ActionResendReply = "resendReply"
)

// MessageUpdate is the admin update payload. Action selects a transition;
// without an action Status and Reply are written as given.
type MessageUpdate struct {
	Action string        `json:"action"`
	Reply  string        `json:"reply"`
	Status MessageStatus `json:"status"`
}

// MessageFilter narrows a message listing.
type MessageFilter struct {
	// Status filters by state; "" and "all" return every message.
	Status string
	// Search is a case-insensitive substring matched against name, email and message.
	Search string
}

// ReplyEmail is the notification sent to the author of a message.
type ReplyEmail struct {
	To              string
	Name            string
	OriginalMessage string
	Reply           string
}

// DashboardStats is the summary returned to the admin dashboard.
type DashboardStats struct {
	Visits         int64     `json:"visits"`
	Videos         int64     `json:"videos"`
	Images         int64     `json:"images"`
	Certificates   int64     `json:"certificates"`
	Messages       int64     `json:"messages"`
	UnreadMessages int64     `json:"unreadMessages"`
	LastVisit      time.Time `json:"lastVisit"`
}

// ContentCounts are the collection sizes folded into DashboardStats.
type ContentCounts struct {
	Videos         int64
	Images         int64
	Certificates   int64
	Messages       int64
	UnreadMessages int64
}
