// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/models"
)

// documentRepository is the SQL implementation of [DocumentRepository].
type documentRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentRepository {
	logger.Debug().Msg("creating document repository")
	return &documentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *documentRepository) CreateDocument(ctx context.Context, doc models.Document) (models.Document, error) {
	log := logger.FromContext(ctx)

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = doc.CreatedAt
	}
	if doc.Status == "" {
		doc.Status = models.StatusPending
	}

	query, args, err := buildInsertDocumentQuery(r.db.builder(), doc)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	created, err := scanDocument(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.CreateDocument").Msg("error inserting document")
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return created, nil
}

// GetDocument loads one document together with its view history.
func (r *documentRepository) GetDocument(ctx context.Context, documentID int64) (models.Document, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectDocumentQuery(r.db.builder(), documentID)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Document{}, ErrDocumentNotFound
	case err != nil:
		log.Err(err).Str("func", "*documentRepository.GetDocument").Msg("error selecting document")
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if doc.ViewHistory, err = r.viewHistory(ctx, documentID); err != nil {
		log.Err(err).Str("func", "*documentRepository.GetDocument").Msg("error selecting view history")
		return models.Document{}, err
	}

	return doc, nil
}

func (r *documentRepository) viewHistory(ctx context.Context, documentID int64) ([]models.ViewRecord, error) {
	query, args, err := buildSelectViewsQuery(r.db.builder(), documentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var history []models.ViewRecord
	for rows.Next() {
		var rec models.ViewRecord
		if err = rows.Scan(&rec.ViewedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		history = append(history, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return history, nil
}

func (r *documentRepository) ListDocuments(ctx context.Context, filter DocumentFilter) ([]models.Document, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListDocumentsQuery(r.db.builder(), filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.ListDocuments").Msg("error selecting documents")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			log.Err(err).Str("func", "*documentRepository.ListDocuments").Msg("error scanning document")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		docs = append(docs, doc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return docs, nil
}

// DeleteDocument removes the row and returns it so the caller can drop the
// stored file. View history goes with it through ON DELETE CASCADE.
func (r *documentRepository) DeleteDocument(ctx context.Context, documentID int64, ownerID *int64) (models.Document, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteDocumentQuery(r.db.builder(), documentID, ownerID)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Document{}, ErrDocumentNotFound
	case err != nil:
		log.Err(err).Str("func", "*documentRepository.DeleteDocument").Msg("error deleting document")
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return doc, nil
}

func (r *documentRepository) UpdateReview(ctx context.Context, documentID, reviewerID int64, review models.VerifyInput, at time.Time) (models.Document, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateReviewQuery(r.db.builder(), documentID, reviewerID, review, at)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Document{}, ErrDocumentNotFound
	case err != nil:
		log.Err(err).Str("func", "*documentRepository.UpdateReview").Msg("error updating review")
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return doc, nil
}

// RecordView runs the conditional increment and the history insert in one
// transaction. Zero updated rows means either the cap is reached or the
// document is gone; a follow-up select inside the same transaction tells
// which. Serialization failures and deadlocks are retried.
func (r *documentRepository) RecordView(ctx context.Context, documentID int64, limit int, at time.Time) (int, error) {
	var count int
	err := r.db.withRetry(ctx, "RecordView", func() error {
		var err error
		count, err = r.recordView(ctx, documentID, limit, at)
		return err
	})
	return count, err
}

func (r *documentRepository) recordView(ctx context.Context, documentID int64, limit int, at time.Time) (int, error) {
	log := logger.FromContext(ctx)
	b := r.db.builder()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.RecordView").Msg("error beginning transaction")
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := buildRecordViewQuery(b, documentID, limit, at)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int
	err = tx.QueryRowContext(ctx, query, args...).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, r.explainNoView(ctx, tx, documentID)
	}
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.RecordView").Msg("error incrementing view count")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	query, args, err = buildInsertViewQuery(b, documentID, at)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*documentRepository.RecordView").Msg("error appending view history")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*documentRepository.RecordView").Msg("error committing transaction")
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return count, nil
}

func (r *documentRepository) explainNoView(ctx context.Context, tx *sql.Tx, documentID int64) error {
	query, args, err := buildDocumentExistsQuery(r.db.builder(), documentID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int
	err = tx.QueryRowContext(ctx, query, args...).Scan(&count)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrDocumentNotFound
	case err != nil:
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return ErrViewQuotaExceeded
}

func (r *documentRepository) ResetViews(ctx context.Context, documentID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildResetViewsQuery(r.db.builder(), documentID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.ResetViews").Msg("error resetting views")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepository) CountByStatus(ctx context.Context, status models.DocumentStatus) (int, error) {
	query, args, err := buildCountByStatusQuery(r.db.builder(), status)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var n int
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return n, nil
}
