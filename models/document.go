package models

import "time"

// DocumentStatus is the review state set by an administrator.
type DocumentStatus string

const (
	StatusPending  DocumentStatus = "pending"
	StatusVerified DocumentStatus = "verified"
	StatusRejected DocumentStatus = "rejected"
)

// Valid reports whether s is one of the known review states.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	}
	return false
}

// DocumentTypeAadhaar is the only document type the extractor understands.
const DocumentTypeAadhaar = "aadharId"

// UnknownDocumentNumber is stored when no number could be extracted.
const UnknownDocumentNumber = "UNKNOWN-DOC"

// Document is an uploaded identity document.
//
// DocumentNumber holds the sealed envelope produced by the field cipher
// (or UnknownDocumentNumber). It is never serialized in that form: list
// responses replace it with the masked view and the view endpoint with
// the decrypted value.
type Document struct {
	// ID is assigned by the store.
	ID int64 `json:"id"`

	// UserID is the owner of the document.
	UserID int64 `json:"user_id"`

	// DocumentType is always DocumentTypeAadhaar for now.
	DocumentType string `json:"document_type"`

	// DocumentNumber is the sensitive field. See the type comment.
	DocumentNumber string `json:"document_number"`

	// Name, DateOfBirth and Gender come from extraction and are not secret.
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`

	// StorageKey locates the uploaded file in the file storage.
	StorageKey string `json:"-"`

	// Metadata describes the uploaded file.
	Metadata FileMetadata `json:"metadata"`

	// ValidationErrors lists problems found in the extracted fields.
	ValidationErrors []string `json:"validation_errors,omitempty"`

	// ViewCount is the number of grants issued to the owner. It never decreases
	// except through an explicit administrative reset.
	ViewCount int `json:"view_count"`

	// LastViewedAt is the time of the latest grant issued to the owner.
	LastViewedAt *time.Time `json:"last_viewed_at,omitempty"`

	// ViewHistory is the append-only list of grant times. Only loaded by
	// the single-document read path.
	ViewHistory []ViewRecord `json:"view_history,omitempty"`

	// Review fields.
	Status     DocumentStatus `json:"verification_status"`
	AdminNotes string         `json:"admin_notes,omitempty"`
	VerifiedBy *int64         `json:"verified_by,omitempty"`
	VerifiedAt *time.Time     `json:"verified_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table that stores documents.
func (d Document) TableName() string {
	return "documents"
}

// FileMetadata describes the uploaded file of a document.
type FileMetadata struct {
	OriginalFileName string `json:"original_file_name"`
	FileSize         int64  `json:"file_size"`
	MimeType         string `json:"mime_type"`
	// Checksum is the hex BLAKE2b-256 digest of the stored file.
	Checksum string `json:"checksum,omitempty"`
}

// ViewRecord is one entry of a document's view history.
type ViewRecord struct {
	ViewedAt time.Time `json:"viewed_at"`
}

// ExtractedData is the field mapping produced by OCR extraction.
type ExtractedData struct {
	DocumentNumber string `json:"document_number,omitempty"`
	VID            string `json:"vid,omitempty"`
	Name           string `json:"name,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	Gender         string `json:"gender,omitempty"`
}

// IsEmpty reports whether nothing at all was extracted.
func (e ExtractedData) IsEmpty() bool {
	return e == ExtractedData{}
}

// UploadInput is what the upload endpoint hands to the document service.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Content     []byte

	// Fields typed in by the user. They are used when no OCR service is
	// configured and fill gaps the OCR left otherwise.
	Manual ExtractedData
}

// VerifyInput is an administrator's review decision.
type VerifyInput struct {
	Status DocumentStatus `json:"status"`
	Notes  string         `json:"notes"`
}
