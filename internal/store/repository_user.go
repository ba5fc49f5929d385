package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/models"
)

// userRepository is the SQL implementation of [UserRepository]. The same
// code serves PostgreSQL and SQLite; the placeholder format comes from DB.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser inserts the account and returns the stored row.
//
// A unique violation on email becomes [ErrEmailAlreadyExists].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertUserQuery(r.db.builder(), user, time.Now().UTC())
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	created, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if r.db.isUniqueViolation(err) {
			log.Debug().Str("func", "*userRepository.CreateUser").Msg("email is taken")
			return models.User{}, ErrEmailAlreadyExists
		}
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return created, nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByEmail", sq.Eq{"email": email})
}

func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByID", sq.Eq{"user_id": userID})
}

func (r *userRepository) findUser(ctx context.Context, funcName string, where sq.Eq) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUserQuery(r.db.builder(), where)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.User{}, ErrNoUserWasFound
	case err != nil:
		log.Err(err).Str("func", funcName).Msg("error selecting user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, nil
}

// SetAdmin updates the administrator flag. Unknown emails yield [ErrNoUserWasFound].
func (r *userRepository) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	log := logger.FromContext(ctx)

	query, args, err := buildSetAdminQuery(r.db.builder(), email, isAdmin)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.SetAdmin").Msg("error updating user")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	log.Info().Str("func", "*userRepository.SetAdmin").Str("email", email).Bool("is_admin", isAdmin).Msg("admin flag changed")
	return nil
}

func (r *userRepository) SetVerified(ctx context.Context, email string) error {
	query, args, err := buildSetVerifiedQuery(r.db.builder(), email)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return r.execOne(ctx, "*userRepository.SetVerified", query, args)
}

func (r *userRepository) VerifyEmail(ctx context.Context, tokenDigest string, now time.Time) (models.User, error) {
	query, args, err := buildVerifyEmailQuery(r.db.builder(), tokenDigest, now)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return r.consumeToken(ctx, "*userRepository.VerifyEmail", query, args)
}

func (r *userRepository) SetResetToken(ctx context.Context, userID int64, tokenDigest string, expires time.Time) error {
	query, args, err := buildSetResetTokenQuery(r.db.builder(), userID, tokenDigest, expires)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return r.execOne(ctx, "*userRepository.SetResetToken", query, args)
}

func (r *userRepository) ResetPassword(ctx context.Context, tokenDigest, passwordHash string, now time.Time) (models.User, error) {
	query, args, err := buildResetPasswordQuery(r.db.builder(), tokenDigest, passwordHash, now)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return r.consumeToken(ctx, "*userRepository.ResetPassword", query, args)
}

// consumeToken runs an UPDATE ... RETURNING that matches a live token.
func (r *userRepository) consumeToken(ctx context.Context, funcName, query string, args []any) (models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.User{}, ErrTokenNotFound
	case err != nil:
		logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("error consuming account token")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return user, nil
}

// execOne runs an UPDATE that must touch exactly one account.
func (r *userRepository) execOne(ctx context.Context, funcName, query string, args []any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("error updating user")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}
	return nil
}
