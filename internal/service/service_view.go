// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-doc-verifier/internal/crypto"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/metrics"
	"github.com/MKhiriev/go-doc-verifier/internal/store"
	"github.com/MKhiriev/go-doc-verifier/models"
)

// viewService controls temporary disclosure of document numbers.
//
// A grant is a signed token; nothing is kept in memory between the grant
// and its resolution. Standard requesters pay for a grant when it is
// issued: the store increments view_count only while it is below the
// quota, in the same statement that checks it. Administrators are neither
// limited nor counted.
type viewService struct {
	documents store.DocumentRepository
	cipher    crypto.FieldCipher
	tokens    viewTokens
	quota     int
	now       func() time.Time
	recorder  Recorder

	logger *logger.Logger
}

// ViewOption configures NewViewService.
type ViewOption func(*viewService)

// WithClock replaces time.Now for issuing and verifying grants.
func WithClock(now func() time.Time) ViewOption {
	return func(s *viewService) {
		if now != nil {
			s.now = now
			s.tokens.now = now
		}
	}
}

// WithRecorder reports grants and resolutions to r.
func WithRecorder(r Recorder) ViewOption {
	return func(s *viewService) {
		s.recorder = recorderOrNop(r)
	}
}

// NewViewService builds the view controller. quota is the number of grants
// a standard requester may obtain per document.
func NewViewService(documents store.DocumentRepository, cipher crypto.FieldCipher, signKey, issuer string, quota int, logger *logger.Logger, opts ...ViewOption) ViewService {
	s := &viewService{
		documents: documents,
		cipher:    cipher,
		tokens:    viewTokens{signKey: signKey, issuer: issuer, now: time.Now},
		quota:     quota,
		now:       time.Now,
		recorder:  nopRecorder{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *viewService) RequestView(ctx context.Context, documentID int64, requester models.Requester) (models.ViewGrant, error) {
	log := logger.FromContext(ctx)

	doc, err := s.visibleDocument(ctx, documentID, requester)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			s.recorder.GrantDenied(metrics.ReasonNotFound)
		}
		return models.ViewGrant{}, err
	}

	// signing goes first so a failure here costs no quota
	token, err := s.tokens.issue(doc.ID, requester)
	if err != nil {
		log.Err(err).Str("func", "*viewService.RequestView").Msg("error signing view grant")
		return models.ViewGrant{}, err
	}

	if requester.IsAdmin {
		s.recorder.GrantIssued(true)
		log.Info().Str("func", "*viewService.RequestView").
			Int64("document_id", doc.ID).
			Int64("user_id", requester.UserID).
			Msg("elevated view grant issued")
		return models.ViewGrant{
			Token:          token,
			ExpiresIn:      int(ViewGrantTTL / time.Second),
			ViewsRemaining: models.Unlimited(),
		}, nil
	}

	count, err := s.documents.RecordView(ctx, doc.ID, s.quota, s.now().UTC())
	switch {
	case errors.Is(err, store.ErrViewQuotaExceeded):
		s.recorder.GrantDenied(metrics.ReasonQuota)
		log.Info().Str("func", "*viewService.RequestView").Int64("document_id", doc.ID).Msg("view quota exhausted")
		return models.ViewGrant{}, ErrViewQuotaExceeded
	case errors.Is(err, store.ErrDocumentNotFound):
		s.recorder.GrantDenied(metrics.ReasonNotFound)
		return models.ViewGrant{}, ErrDocumentNotFound
	case err != nil:
		log.Err(err).Str("func", "*viewService.RequestView").Int64("document_id", doc.ID).Msg("error recording view")
		return models.ViewGrant{}, fmt.Errorf("error recording view: %w", err)
	}

	s.recorder.GrantIssued(false)
	log.Info().Str("func", "*viewService.RequestView").
		Int64("document_id", doc.ID).
		Int64("user_id", requester.UserID).
		Int("view_count", count).
		Msg("view grant issued")

	return models.ViewGrant{
		Token:          token,
		ExpiresIn:      int(ViewGrantTTL / time.Second),
		ViewsRemaining: s.remaining(requester, count),
	}, nil
}

// ResolveView authorizes with the requester's current role. The elevated
// flag inside the grant is not consulted.
func (s *viewService) ResolveView(ctx context.Context, token string, requester models.Requester) (models.DocumentView, error) {
	log := logger.FromContext(ctx)

	if token == "" {
		return models.DocumentView{}, ErrViewTokenMissing
	}

	claims, err := s.tokens.parse(token, requester.UserID)
	if err != nil {
		if errors.Is(err, ErrViewTokenExpired) {
			s.recorder.Resolution(metrics.OutcomeExpired)
		} else {
			s.recorder.Resolution(metrics.OutcomeInvalid)
			log.Debug().Str("func", "*viewService.ResolveView").Err(err).Msg("view token rejected")
		}
		return models.DocumentView{}, err
	}

	doc, err := s.visibleDocument(ctx, claims.DocumentID, requester)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			s.recorder.Resolution(metrics.OutcomeNotFound)
		}
		return models.DocumentView{}, err
	}

	number, err := s.reveal(doc.DocumentNumber)
	if err != nil {
		s.recorder.Resolution(metrics.OutcomeDecryption)
		log.Err(err).Str("func", "*viewService.ResolveView").Int64("document_id", doc.ID).Msg("disclosure blocked")
		return models.DocumentView{}, err
	}

	s.recorder.Resolution(metrics.OutcomeResolved)
	return models.DocumentView{
		ID:                 doc.ID,
		DocumentType:       doc.DocumentType,
		DocumentNumber:     number,
		Name:               doc.Name,
		DateOfBirth:        doc.DateOfBirth,
		Gender:             doc.Gender,
		VerificationStatus: doc.Status,
		ViewCount:          doc.ViewCount,
		ViewsRemaining:     s.remaining(requester, doc.ViewCount),
	}, nil
}

func (s *viewService) visibleDocument(ctx context.Context, documentID int64, requester models.Requester) (models.Document, error) {
	doc, err := s.documents.GetDocument(ctx, documentID)
	switch {
	case errors.Is(err, store.ErrDocumentNotFound):
		return models.Document{}, ErrDocumentNotFound
	case err != nil:
		return models.Document{}, fmt.Errorf("error loading document: %w", err)
	}

	if !requester.CanSee(doc.UserID) {
		return models.Document{}, ErrDocumentNotFound
	}
	return doc, nil
}

// reveal decrypts the stored number. A result that is still an envelope
// means the cipher gave its input back, and that value must not leave.
func (s *viewService) reveal(stored string) (string, error) {
	if stored == models.UnknownDocumentNumber {
		return stored, nil
	}

	plain, err := s.cipher.Decrypt(stored)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDocumentDecryption, err)
	}
	if crypto.IsEnvelope(plain) {
		return "", ErrDocumentDecryption
	}
	return plain, nil
}

func (s *viewService) remaining(requester models.Requester, count int) models.ViewsRemaining {
	if requester.IsAdmin || s.quota < 1 {
		return models.Unlimited()
	}
	return models.Remaining(s.quota - count)
}
