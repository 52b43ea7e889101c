package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
)

type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// newPgxUserRepository creates a new repository for operator accounts.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepository {
	return &PgxUserRepository{pool: pool}
}

var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

// FindUserByUsername retrieves one user for authentication.
func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT user_id, username, email, full_name, password_hash, role, company_code,
		       is_active, failed_login_attempts, locked_until, last_login_at,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM users
		WHERE username = $1;
	`
	var u domain.User
	var email, fullName sql.NullString
	var lockedUntil, lastLoginAt sql.NullTime

	err := r.pool.QueryRow(ctx, query, username).Scan(
		&u.UserID,
		&u.Username,
		&email,
		&fullName,
		&u.PasswordHash,
		&u.Role,
		&u.CompanyCode,
		&u.IsActive,
		&u.FailedLoginAttempts,
		&lockedUntil,
		&lastLoginAt,
		&u.CreatedAt,
		&u.CreatedBy,
		&u.LastUpdatedAt,
		&u.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user %s: %w", username, err)
	}

	u.Email = email.String
	u.FullName = fullName.String
	if lockedUntil.Valid {
		u.LockedUntil = &lockedUntil.Time
	}
	if lastLoginAt.Valid {
		u.LastLoginAt = &lastLoginAt.Time
	}
	return &u, nil
}

// SaveUser inserts a new user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (user_id, username, email, full_name, password_hash, role, company_code,
		                   is_active, failed_login_attempts, locked_until, last_login_at,
		                   created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.pool.Exec(ctx, query,
		user.UserID,
		user.Username,
		nullString(user.Email),
		nullString(user.FullName),
		user.PasswordHash,
		string(user.Role),
		user.CompanyCode,
		user.IsActive,
		user.FailedLoginAttempts,
		user.LockedUntil,
		user.LastLoginAt,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: username %s already exists", apperrors.ErrDuplicate, user.Username)
		}
		return fmt.Errorf("failed to save user %s: %w", user.Username, err)
	}
	return nil
}

// UpdateUserLoginState persists lockout counters and last-login time.
func (r *PgxUserRepository) UpdateUserLoginState(ctx context.Context, user domain.User) error {
	query := `
		UPDATE users
		SET failed_login_attempts = $1, locked_until = $2, last_login_at = $3, last_updated_at = NOW()
		WHERE user_id = $4;
	`
	tag, err := r.pool.Exec(ctx, query,
		user.FailedLoginAttempts,
		user.LockedUntil,
		user.LastLoginAt,
		user.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update login state of user %s: %w", user.Username, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, user.UserID)
	}
	return nil
}
