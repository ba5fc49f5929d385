package store

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/models"
)

// memoryUserRepository keeps accounts in process memory. It is used when no
// DSN is configured and in tests.
type memoryUserRepository struct {
	mu      sync.RWMutex
	users   map[int64]models.User
	byEmail map[string]int64
	resets  map[int64]resetToken
	nextID  int64
}

type resetToken struct {
	digest  string
	expires time.Time
}

func NewMemoryUserRepository(log *logger.Logger) UserRepository {
	log.Debug().Msg("creating in-memory user repository")
	return &memoryUserRepository{
		users:   make(map[int64]models.User),
		byEmail: make(map[string]int64),
		resets:  make(map[int64]resetToken),
	}
}

func (r *memoryUserRepository) CreateUser(_ context.Context, user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := r.byEmail[key]; ok {
		return models.User{}, ErrEmailAlreadyExists
	}

	r.nextID++
	user.UserID = r.nextID
	user.CreatedAt = time.Now().UTC()
	user.Password = ""

	r.users[user.UserID] = user
	r.byEmail[key] = user.UserID
	return user, nil
}

func (r *memoryUserRepository) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return models.User{}, ErrNoUserWasFound
	}
	return r.users[id], nil
}

func (r *memoryUserRepository) FindUserByID(_ context.Context, userID int64) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return models.User{}, ErrNoUserWasFound
	}
	return u, nil
}

func (r *memoryUserRepository) SetAdmin(_ context.Context, email string, isAdmin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return ErrNoUserWasFound
	}
	u := r.users[id]
	u.IsAdmin = isAdmin
	r.users[id] = u
	return nil
}

func (r *memoryUserRepository) SetVerified(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return ErrNoUserWasFound
	}
	u := r.users[id]
	u.IsVerified = true
	u.VerificationToken = ""
	u.VerificationExpires = time.Time{}
	r.users[id] = u
	return nil
}

func (r *memoryUserRepository) VerifyEmail(_ context.Context, tokenDigest string, now time.Time) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, u := range r.users {
		if tokenDigest == "" || u.VerificationToken != tokenDigest || !u.VerificationExpires.After(now) {
			continue
		}
		u.IsVerified = true
		u.VerificationToken = ""
		u.VerificationExpires = time.Time{}
		r.users[id] = u
		return u, nil
	}
	return models.User{}, ErrTokenNotFound
}

func (r *memoryUserRepository) SetResetToken(_ context.Context, userID int64, tokenDigest string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return ErrNoUserWasFound
	}
	r.resets[userID] = resetToken{digest: tokenDigest, expires: expires}
	return nil
}

func (r *memoryUserRepository) ResetPassword(_ context.Context, tokenDigest, passwordHash string, now time.Time) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, reset := range r.resets {
		if tokenDigest == "" || reset.digest != tokenDigest || !reset.expires.After(now) {
			continue
		}
		delete(r.resets, id)
		u := r.users[id]
		u.PasswordHash = passwordHash
		r.users[id] = u
		return u, nil
	}
	return models.User{}, ErrTokenNotFound
}

// memoryDocumentRepository keeps documents in process memory. A single
// mutex guards every document, so the check and the increment in
// RecordView happen as one step.
type memoryDocumentRepository struct {
	mu     sync.Mutex
	docs   map[int64]models.Document
	nextID int64
}

func NewMemoryDocumentRepository(log *logger.Logger) DocumentRepository {
	log.Debug().Msg("creating in-memory document repository")
	return &memoryDocumentRepository{
		docs: make(map[int64]models.Document),
	}
}

func (r *memoryDocumentRepository) CreateDocument(_ context.Context, doc models.Document) (models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	doc.ID = r.nextID
	doc.ViewCount = 0
	doc.LastViewedAt = nil
	doc.ViewHistory = nil
	if doc.Status == "" {
		doc.Status = models.StatusPending
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = doc.CreatedAt
	}

	r.docs[doc.ID] = doc
	return cloneDocument(doc, false), nil
}

func (r *memoryDocumentRepository) GetDocument(_ context.Context, documentID int64) (models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[documentID]
	if !ok {
		return models.Document{}, ErrDocumentNotFound
	}
	return cloneDocument(doc, true), nil
}

func (r *memoryDocumentRepository) ListDocuments(_ context.Context, filter DocumentFilter) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs := make([]models.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		if filter.OwnerID != nil && doc.UserID != *filter.OwnerID {
			continue
		}
		if filter.Status != "" && doc.Status != filter.Status {
			continue
		}
		docs = append(docs, cloneDocument(doc, false))
	}

	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].ID > docs[j].ID
	})
	return docs, nil
}

func (r *memoryDocumentRepository) DeleteDocument(_ context.Context, documentID int64, ownerID *int64) (models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[documentID]
	if !ok || (ownerID != nil && doc.UserID != *ownerID) {
		return models.Document{}, ErrDocumentNotFound
	}
	delete(r.docs, documentID)
	return cloneDocument(doc, false), nil
}

func (r *memoryDocumentRepository) UpdateReview(_ context.Context, documentID, reviewerID int64, review models.VerifyInput, at time.Time) (models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[documentID]
	if !ok {
		return models.Document{}, ErrDocumentNotFound
	}
	doc.Status = review.Status
	doc.AdminNotes = review.Notes
	doc.VerifiedBy = &reviewerID
	doc.VerifiedAt = &at
	doc.UpdatedAt = at
	r.docs[documentID] = doc
	return cloneDocument(doc, false), nil
}

func (r *memoryDocumentRepository) RecordView(_ context.Context, documentID int64, limit int, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[documentID]
	if !ok {
		return 0, ErrDocumentNotFound
	}
	if limit > 0 && doc.ViewCount >= limit {
		return doc.ViewCount, ErrViewQuotaExceeded
	}

	doc.ViewCount++
	doc.LastViewedAt = &at
	doc.UpdatedAt = at
	doc.ViewHistory = append(doc.ViewHistory, models.ViewRecord{ViewedAt: at})
	r.docs[documentID] = doc
	return doc.ViewCount, nil
}

func (r *memoryDocumentRepository) ResetViews(_ context.Context, documentID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[documentID]
	if !ok {
		return ErrDocumentNotFound
	}
	doc.ViewCount = 0
	doc.UpdatedAt = time.Now().UTC()
	r.docs[documentID] = doc
	return nil
}

func (r *memoryDocumentRepository) CountByStatus(_ context.Context, status models.DocumentStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, doc := range r.docs {
		if doc.Status == status {
			n++
		}
	}
	return n, nil
}

// cloneDocument detaches the slices and pointers handed to callers.
func cloneDocument(doc models.Document, withHistory bool) models.Document {
	doc.ValidationErrors = slices.Clone(doc.ValidationErrors)
	if withHistory {
		doc.ViewHistory = slices.Clone(doc.ViewHistory)
	} else {
		doc.ViewHistory = nil
	}
	if doc.LastViewedAt != nil {
		t := *doc.LastViewedAt
		doc.LastViewedAt = &t
	}
	if doc.VerifiedAt != nil {
		t := *doc.VerifiedAt
		doc.VerifiedAt = &t
	}
	if doc.VerifiedBy != nil {
		id := *doc.VerifiedBy
		doc.VerifiedBy = &id
	}
	return doc
}
