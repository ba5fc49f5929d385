package models

import "time"

// ErrorResponse is the JSON body of every failed API call. Error is a
// stable machine readable code, Message is meant for people.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// DocumentSummary is the list and upload representation of a document.
// DocumentNumber is always the masked view.
type DocumentSummary struct {
	ID                 int64          `json:"id"`
	UserID             int64          `json:"user_id"`
	DocumentType       string         `json:"document_type"`
	DocumentNumber     string         `json:"document_number"`
	Name               string         `json:"name"`
	DateOfBirth        string         `json:"date_of_birth"`
	Gender             string         `json:"gender"`
	VerificationStatus DocumentStatus `json:"verification_status"`
	ValidationErrors   []string       `json:"validation_errors,omitempty"`
	ViewCount          int            `json:"view_count"`
	AdminNotes         string         `json:"admin_notes,omitempty"`
	VerifiedAt         *time.Time     `json:"verified_at,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
}

// DocumentResponse is returned by the upload and verify endpoints.
type DocumentResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Document DocumentSummary `json:"document"`
}

// DocumentListResponse is returned by the list endpoint.
type DocumentListResponse struct {
	Success   bool              `json:"success"`
	Count     int               `json:"count"`
	Documents []DocumentSummary `json:"documents"`
}

// ViewGrantResponse is returned by the view request endpoint.
type ViewGrantResponse struct {
	Success bool `json:"success"`
	ViewGrant
}

// DocumentViewResponse is returned by the view resolution endpoint.
type DocumentViewResponse struct {
	Success        bool           `json:"success"`
	Document       DocumentView   `json:"document"`
	ViewsRemaining ViewsRemaining `json:"viewsRemaining"`
}

// AuthResponse is returned by register, login, me and email verification.
type AuthResponse struct {
	User    User   `json:"user"`
	Message string `json:"message,omitempty"`
}

// MessageResponse is a generic success body.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
