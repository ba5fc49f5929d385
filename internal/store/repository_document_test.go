package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-doc-verifier/models"
)

func newTestDocumentRepo(t *testing.T) (*documentRepository, sqlmock.Sqlmock) {
	db, mock := newTestDB(t)
	return &documentRepository{db: db, logger: db.logger}, mock
}

func documentRows(docs ...models.Document) *sqlmock.Rows {
	rows := sqlmock.NewRows(documentColumns)
	for _, d := range docs {
		var lastViewed, verifiedAt, verifiedBy driver.Value
		if d.LastViewedAt != nil {
			lastViewed = *d.LastViewedAt
		}
		if d.VerifiedAt != nil {
			verifiedAt = *d.VerifiedAt
		}
		if d.VerifiedBy != nil {
			verifiedBy = *d.VerifiedBy
		}
		validation, _ := encodeValidationErrors(d.ValidationErrors)
		rows.AddRow(
			d.ID, d.UserID, d.DocumentType, d.DocumentNumber, d.Name, d.DateOfBirth, d.Gender,
			d.StorageKey, d.Metadata.OriginalFileName, d.Metadata.FileSize, d.Metadata.MimeType, d.Metadata.Checksum,
			validation, d.ViewCount, lastViewed,
			string(d.Status), d.AdminNotes, verifiedBy, verifiedAt,
			d.CreatedAt, d.UpdatedAt,
		)
	}
	return rows
}

func sampleDocument() models.Document {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return models.Document{
		ID:             10,
		UserID:         1,
		DocumentType:   models.DocumentTypeAadhaar,
		DocumentNumber: "v1:00:11",
		Name:           "Asha Rao",
		StorageKey:     "documents/1/2026/03/01/x.png",
		Metadata:       models.FileMetadata{OriginalFileName: "card.png", FileSize: 42, MimeType: "image/png"},
		Status:         models.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestCreateDocument(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)
	doc := sampleDocument()
	doc.ValidationErrors = []string{"invalid gender"}

	mock.ExpectQuery("INSERT INTO documents").
		WillReturnRows(documentRows(doc))

	in := doc
	in.ID = 0
	created, err := repo.CreateDocument(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)
	assert.Equal(t, []string{"invalid gender"}, created.ValidationErrors)
	assert.Nil(t, created.LastViewedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDocument(t *testing.T) {
	t.Run("with history", func(t *testing.T) {
		repo, mock := newTestDocumentRepo(t)
		doc := sampleDocument()
		viewed := doc.CreatedAt.Add(time.Hour)
		doc.ViewCount = 1
		doc.LastViewedAt = &viewed

		mock.ExpectQuery(`SELECT .* FROM documents WHERE id = \$1`).
			WithArgs(doc.ID).
			WillReturnRows(documentRows(doc))
		mock.ExpectQuery(`SELECT viewed_at FROM document_views WHERE document_id = \$1 ORDER BY viewed_at ASC`).
			WithArgs(doc.ID).
			WillReturnRows(sqlmock.NewRows([]string{"viewed_at"}).AddRow(viewed))

		got, err := repo.GetDocument(context.Background(), doc.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastViewedAt)
		assert.Equal(t, viewed, *got.LastViewedAt)
		assert.Equal(t, []models.ViewRecord{{ViewedAt: viewed}}, got.ViewHistory)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newTestDocumentRepo(t)
		mock.ExpectQuery("SELECT .* FROM documents").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetDocument(context.Background(), 99)
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})
}

func TestListDocuments(t *testing.T) {
	t.Run("owner scope", func(t *testing.T) {
		repo, mock := newTestDocumentRepo(t)
		owner := int64(1)

		mock.ExpectQuery(`SELECT .* FROM documents WHERE user_id = \$1 ORDER BY created_at DESC, id DESC`).
			WithArgs(owner).
			WillReturnRows(documentRows(sampleDocument()))

		docs, err := repo.ListDocuments(context.Background(), DocumentFilter{OwnerID: &owner})
		require.NoError(t, err)
		assert.Len(t, docs, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("all documents", func(t *testing.T) {
		repo, mock := newTestDocumentRepo(t)
		mock.ExpectQuery(`SELECT .* FROM documents ORDER BY created_at DESC, id DESC`).
			WillReturnRows(documentRows())

		docs, err := repo.ListDocuments(context.Background(), DocumentFilter{})
		require.NoError(t, err)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})
}

func TestDeleteDocument(t *testing.T) {
	t.Run("owner match", func(t *testing.T) {
		repo, mock := newTestDocumentRepo(t)
		owner := int64(1)
		doc := sampleDocument()

		mock.ExpectQuery(`DELETE FROM documents WHERE id = \$1 AND user_id = \$2 RETURNING`).
			WithArgs(doc.ID, owner).
			WillReturnRows(documentRows(doc))

		deleted, err := repo.DeleteDocument(context.Background(), doc.ID, &owner)
		require.NoError(t, err)
		assert.Equal(t, doc.StorageKey, deleted.StorageKey)
	})

	t.Run("foreign document", func(t *testing.T) {
		repo, mock := newTestDocumentRepo(t)
		owner := int64(2)
		mock.ExpectQuery("DELETE FROM documents").WillReturnRows(documentRows())

		_, err := repo.DeleteDocument(context.Background(), 10, &owner)
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})
}

func TestUpdateReview(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)
	at := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	doc := sampleDocument()
	doc.Status = models.StatusVerified
	reviewer := int64(5)
	doc.VerifiedBy = &reviewer
	doc.VerifiedAt = &at

	mock.ExpectQuery(`UPDATE documents SET status = \$1, admin_notes = \$2, verified_by = \$3, verified_at = \$4, updated_at = \$5 WHERE id = \$6`).
		WithArgs("verified", "looks fine", reviewer, at, at, doc.ID).
		WillReturnRows(documentRows(doc))

	got, err := repo.UpdateReview(context.Background(), doc.ID, reviewer,
		models.VerifyInput{Status: models.StatusVerified, Notes: "looks fine"}, at)
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, got.Status)
	require.NotNil(t, got.VerifiedBy)
	assert.Equal(t, reviewer, *got.VerifiedBy)
}

func TestRecordView_Success(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)
	at := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE documents SET view_count = view_count \+ 1, last_viewed_at = \$1, updated_at = \$2 WHERE id = \$3 AND view_count < \$4 RETURNING view_count`).
		WithArgs(at, at, int64(10), 3).
		WillReturnRows(sqlmock.NewRows([]string{"view_count"}).AddRow(2))
	mock.ExpectExec(`INSERT INTO document_views \(document_id,viewed_at\) VALUES \(\$1,\$2\)`).
		WithArgs(int64(10), at).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	n, err := repo.RecordView(context.Background(), 10, 3, at)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordView_Unlimited(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)
	at := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE documents SET .* WHERE id = \$3 RETURNING view_count`).
		WithArgs(at, at, int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"view_count"}).AddRow(12))
	mock.ExpectExec("INSERT INTO document_views").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	n, err := repo.RecordView(context.Background(), 10, 0, at)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestRecordView_QuotaReached(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE documents").WillReturnRows(sqlmock.NewRows([]string{"view_count"}))
	mock.ExpectQuery(`SELECT view_count FROM documents WHERE id = \$1`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"view_count"}).AddRow(3))
	mock.ExpectRollback()

	_, err := repo.RecordView(context.Background(), 10, 3, time.Now())
	assert.ErrorIs(t, err, ErrViewQuotaExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordView_DocumentGone(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE documents").WillReturnRows(sqlmock.NewRows([]string{"view_count"}))
	mock.ExpectQuery("SELECT view_count FROM documents").WillReturnRows(sqlmock.NewRows([]string{"view_count"}))
	mock.ExpectRollback()

	_, err := repo.RecordView(context.Background(), 10, 3, time.Now())
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestRecordView_RetriesSerializationFailure(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE documents").WillReturnError(pgError(pgerrcode.SerializationFailure))
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE documents").WillReturnRows(sqlmock.NewRows([]string{"view_count"}).AddRow(1))
	mock.ExpectExec("INSERT INTO document_views").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	n, err := repo.RecordView(context.Background(), 10, 3, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordView_HistoryInsertFails(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE documents").WillReturnRows(sqlmock.NewRows([]string{"view_count"}).AddRow(1))
	mock.ExpectExec("INSERT INTO document_views").WillReturnError(pgError(pgerrcode.ForeignKeyViolation))
	mock.ExpectRollback()

	_, err := repo.RecordView(context.Background(), 10, 3, time.Now())
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetViews(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)

	mock.ExpectExec(`UPDATE documents SET view_count = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs(0, sqlmock.AnyArg(), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.ResetViews(context.Background(), 10))

	mock.ExpectExec("UPDATE documents").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.ResetViews(context.Background(), 11), ErrDocumentNotFound)
}

func TestCountByStatus(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents WHERE status = \$1`).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountByStatus(context.Background(), models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
