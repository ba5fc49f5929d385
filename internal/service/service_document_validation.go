package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-doc-verifier/internal/validators"
	"github.com/MKhiriev/go-doc-verifier/models"
)

// DocumentValidationService rejects malformed uploads and review decisions
// before they reach the wrapped service.
type DocumentValidationService struct {
	inner     DocumentService
	validator validators.Validator
}

func NewDocumentValidationService(validator validators.Validator) DocumentServiceWrapper {
	return &DocumentValidationService{
		validator: validator,
	}
}

func (v *DocumentValidationService) Upload(ctx context.Context, requester models.Requester, in models.UploadInput) (models.DocumentSummary, error) {
	if err := v.validator.Validate(ctx, in, validators.FieldFile); err != nil {
		return models.DocumentSummary{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return v.inner.Upload(ctx, requester, in)
}

func (v *DocumentValidationService) List(ctx context.Context, requester models.Requester) ([]models.DocumentSummary, error) {
	return v.inner.List(ctx, requester)
}

func (v *DocumentValidationService) Delete(ctx context.Context, requester models.Requester, documentID int64) error {
	return v.inner.Delete(ctx, requester, documentID)
}

func (v *DocumentValidationService) Verify(ctx context.Context, requester models.Requester, documentID int64, in models.VerifyInput) (models.DocumentSummary, error) {
	if err := v.validator.Validate(ctx, in); err != nil {
		return models.DocumentSummary{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return v.inner.Verify(ctx, requester, documentID, in)
}

func (v *DocumentValidationService) Wrap(wrapped DocumentService) DocumentService {
	v.inner = wrapped
	return v
}
