package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-doc-verifier/internal/crypto"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/ocr"
	"github.com/MKhiriev/go-doc-verifier/internal/store"
	"github.com/MKhiriev/go-doc-verifier/internal/validators"
	"github.com/MKhiriev/go-doc-verifier/models"
)

type documentService struct {
	documents  store.DocumentRepository
	files      store.FileStorage
	cipher     crypto.FieldCipher
	recognizer ocr.Recognizer
	validator  validators.Validator
	recorder   Recorder
	now        func() time.Time

	logger *logger.Logger
}

// NewDocumentService wires the upload pipeline. recognizer may be nil, in
// which case only the fields typed in by the user are used.
func NewDocumentService(
	documents store.DocumentRepository,
	files store.FileStorage,
	cipher crypto.FieldCipher,
	recognizer ocr.Recognizer,
	validator validators.Validator,
	recorder Recorder,
	logger *logger.Logger,
) DocumentService {
	return &documentService{
		documents:  documents,
		files:      files,
		cipher:     cipher,
		recognizer: recognizer,
		validator:  validator,
		recorder:   recorderOrNop(recorder),
		now:        time.Now,
		logger:     logger,
	}
}

// Upload stores the file, extracts and validates the fields, seals the
// number and persists the document. Field validation problems are kept on
// the document for the reviewer; they do not reject the upload.
func (s *documentService) Upload(ctx context.Context, requester models.Requester, in models.UploadInput) (models.DocumentSummary, error) {
	log := logger.FromContext(ctx)

	extracted := s.extract(ctx, in)

	number := validators.NormalizeDocumentNumber(extracted.DocumentNumber)
	if number == "" {
		number = models.UnknownDocumentNumber
	}
	validationErrors := validators.Messages(s.validator.Validate(ctx, extracted))

	sealed := number
	if number != models.UnknownDocumentNumber {
		var err error
		if sealed, err = s.cipher.Encrypt(number); err != nil {
			log.Err(err).Str("func", "*documentService.Upload").Msg("refusing to store an unsealed document number")
			return models.DocumentSummary{}, err
		}
	}

	now := s.now().UTC()
	key := store.NewStorageKey(requester.UserID, in.FileName, now)
	if err := s.files.Save(ctx, key, in.ContentType, bytes.NewReader(in.Content)); err != nil {
		log.Err(err).Str("func", "*documentService.Upload").Msg("error saving uploaded file")
		return models.DocumentSummary{}, fmt.Errorf("%w: %w", ErrFileStorage, err)
	}

	doc, err := s.documents.CreateDocument(ctx, models.Document{
		UserID:         requester.UserID,
		DocumentType:   models.DocumentTypeAadhaar,
		DocumentNumber: sealed,
		Name:           extracted.Name,
		DateOfBirth:    extracted.DateOfBirth,
		Gender:         extracted.Gender,
		StorageKey:     key,
		Metadata: models.FileMetadata{
			OriginalFileName: in.FileName,
			FileSize:         int64(len(in.Content)),
			MimeType:         in.ContentType,
			Checksum:         store.Checksum(in.Content),
		},
		ValidationErrors: validationErrors,
		Status:           models.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		log.Err(err).Str("func", "*documentService.Upload").Msg("error saving document, removing file")
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			log.Err(delErr).Str("func", "*documentService.Upload").Str("key", key).Msg("error removing orphaned file")
		}
		return models.DocumentSummary{}, fmt.Errorf("error saving document: %w", err)
	}

	s.recorder.Upload(len(validationErrors) == 0)
	log.Info().Str("func", "*documentService.Upload").
		Int64("document_id", doc.ID).
		Int("validation_errors", len(validationErrors)).
		Msg("document uploaded")

	return summarize(doc, crypto.Mask(number)), nil
}

// extract runs OCR when a recognizer is configured. Recognized values win
// over typed ones; a failed recognition falls back to the typed values.
func (s *documentService) extract(ctx context.Context, in models.UploadInput) models.ExtractedData {
	if s.recognizer == nil {
		return ocr.Merge(in.Manual, models.ExtractedData{})
	}

	text, err := s.recognizer.Recognize(ctx, in.Content, in.ContentType)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("func", "*documentService.extract").Msg("recognition failed, using submitted fields")
		return ocr.Merge(in.Manual, models.ExtractedData{})
	}
	return ocr.Merge(ocr.Extract(text), in.Manual)
}

func (s *documentService) List(ctx context.Context, requester models.Requester) ([]models.DocumentSummary, error) {
	filter := store.DocumentFilter{}
	if !requester.IsAdmin {
		filter.OwnerID = &requester.UserID
	}

	docs, err := s.documents.ListDocuments(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*documentService.List").Msg("error listing documents")
		return nil, fmt.Errorf("error listing documents: %w", err)
	}

	out := make([]models.DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, summarize(doc, s.masked(doc.DocumentNumber)))
	}
	return out, nil
}

// Delete removes a document of the requester. Administrators cannot delete
// documents of other users.
func (s *documentService) Delete(ctx context.Context, requester models.Requester, documentID int64) error {
	log := logger.FromContext(ctx)

	doc, err := s.documents.DeleteDocument(ctx, documentID, &requester.UserID)
	switch {
	case errors.Is(err, store.ErrDocumentNotFound):
		return ErrDocumentNotFound
	case err != nil:
		log.Err(err).Str("func", "*documentService.Delete").Msg("error deleting document")
		return fmt.Errorf("error deleting document: %w", err)
	}

	if doc.StorageKey != "" {
		if err = s.files.Delete(ctx, doc.StorageKey); err != nil {
			log.Err(err).Str("func", "*documentService.Delete").Str("key", doc.StorageKey).Msg("error removing file")
		}
	}
	return nil
}

func (s *documentService) Verify(ctx context.Context, requester models.Requester, documentID int64, in models.VerifyInput) (models.DocumentSummary, error) {
	log := logger.FromContext(ctx)

	if !requester.IsAdmin {
		return models.DocumentSummary{}, ErrForbidden
	}

	doc, err := s.documents.UpdateReview(ctx, documentID, requester.UserID, in, s.now().UTC())
	switch {
	case errors.Is(err, store.ErrDocumentNotFound):
		return models.DocumentSummary{}, ErrDocumentNotFound
	case err != nil:
		log.Err(err).Str("func", "*documentService.Verify").Msg("error saving review")
		return models.DocumentSummary{}, fmt.Errorf("error saving review: %w", err)
	}

	log.Info().Str("func", "*documentService.Verify").
		Int64("document_id", doc.ID).
		Str("status", string(doc.Status)).
		Int64("reviewer_id", requester.UserID).
		Msg("document reviewed")
	return summarize(doc, s.masked(doc.DocumentNumber)), nil
}

// masked decrypts and masks a stored number. Anything that cannot be
// opened shows the full placeholder.
func (s *documentService) masked(stored string) string {
	if stored == models.UnknownDocumentNumber {
		return crypto.MaskPlaceholder
	}
	plain, err := s.cipher.Decrypt(stored)
	if err != nil || crypto.IsEnvelope(plain) {
		return crypto.MaskPlaceholder
	}
	return crypto.Mask(plain)
}

func summarize(doc models.Document, maskedNumber string) models.DocumentSummary {
	return models.DocumentSummary{
		ID:                 doc.ID,
		UserID:             doc.UserID,
		DocumentType:       doc.DocumentType,
		DocumentNumber:     maskedNumber,
		Name:               doc.Name,
		DateOfBirth:        doc.DateOfBirth,
		Gender:             doc.Gender,
		VerificationStatus: doc.Status,
		ValidationErrors:   doc.ValidationErrors,
		ViewCount:          doc.ViewCount,
		AdminNotes:         doc.AdminNotes,
		VerifiedAt:         doc.VerifiedAt,
		CreatedAt:          doc.CreatedAt,
	}
}
