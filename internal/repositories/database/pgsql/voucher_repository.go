package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
)

const voucherColumns = `voucher_id, voucher_number, voucher_type, voucher_date, posting_date,
	description, description_detail, document_ref, document_date, company_code, branch_code,
	is_signed, signed_at, signer_id, signature_data, is_locked, locked_at, lock_status,
	version, created_at, created_by, last_updated_at, last_updated_by`

type PgxVoucherRepository struct {
	BaseRepository
	journalRepo *PgxJournalRepository
}

// newPgxVoucherRepository creates a new repository for accounting vouchers.
// The journal repository is shared so SaveVoucher can persist entries inside
// the same transaction.
func newPgxVoucherRepository(pool *pgxpool.Pool, journalRepo *PgxJournalRepository) portsrepo.VoucherRepository {
	return &PgxVoucherRepository{BaseRepository: BaseRepository{Pool: pool}, journalRepo: journalRepo}
}

var _ portsrepo.VoucherRepository = (*PgxVoucherRepository)(nil)

func scanVoucher(row pgx.Row) (*domain.AccountingVoucher, error) {
	var v domain.AccountingVoucher
	var postingDate, documentDate, signedAt, lockedAt sql.NullTime
	var descriptionDetail, documentRef, branchCode, signerID, signatureData sql.NullString

	err := row.Scan(
		&v.VoucherID,
		&v.VoucherNumber,
		&v.VoucherType,
		&v.VoucherDate,
		&postingDate,
		&v.Description,
		&descriptionDetail,
		&documentRef,
		&documentDate,
		&v.CompanyCode,
		&branchCode,
		&v.IsSigned,
		&signedAt,
		&signerID,
		&signatureData,
		&v.IsLocked,
		&lockedAt,
		&v.LockStatus,
		&v.Version,
		&v.CreatedAt,
		&v.CreatedBy,
		&v.LastUpdatedAt,
		&v.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if postingDate.Valid {
		v.PostingDate = &postingDate.Time
	}
	if documentDate.Valid {
		v.DocumentDate = &documentDate.Time
	}
	if signedAt.Valid {
		v.SignedAt = &signedAt.Time
	}
	if lockedAt.Valid {
		v.LockedAt = &lockedAt.Time
	}
	v.DescriptionDetail = descriptionDetail.String
	v.DocumentRef = documentRef.String
	v.BranchCode = branchCode.String
	v.SignerID = signerID.String
	v.SignatureData = signatureData.String
	return &v, nil
}

// FindVoucherByID retrieves a voucher with its journal entry IDs.
func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.AccountingVoucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_id = $1;`
	voucher, err := scanVoucher(r.Pool.QueryRow(ctx, query, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find voucher %s: %w", voucherID, err)
	}

	entryIDs, err := r.findEntryIDs(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	voucher.JournalEntryIDs = entryIDs
	return voucher, nil
}

func (r *PgxVoucherRepository) findEntryIDs(ctx context.Context, voucherID string) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT entry_id FROM journal_entries WHERE voucher_id = $1 ORDER BY entry_number;`, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry IDs of voucher %s: %w", voucherID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan entry ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountVouchersForDate counts vouchers issued on a voucher date.
func (r *PgxVoucherRepository) CountVouchersForDate(ctx context.Context, companyCode string, voucherDate time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM vouchers WHERE company_code = $1 AND voucher_date::date = $2::date;`
	var count int
	if err := r.Pool.QueryRow(ctx, query, companyCode, voucherDate).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count vouchers for date: %w", err)
	}
	return count, nil
}

// ListVouchers retrieves vouchers matching the filter, newest first.
func (r *PgxVoucherRepository) ListVouchers(ctx context.Context, companyCode string, filter portsrepo.VoucherListFilter) ([]domain.AccountingVoucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE company_code = $1`
	args := []any{companyCode}
	idx := 2

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND voucher_date >= $%d", idx)
		args = append(args, *filter.StartDate)
		idx++
	}
	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND voucher_date <= $%d", idx)
		args = append(args, *filter.EndDate)
		idx++
	}
	if filter.VoucherType != nil {
		query += fmt.Sprintf(" AND voucher_type = $%d", idx)
		args = append(args, string(*filter.VoucherType))
		idx++
	}
	query += fmt.Sprintf(" ORDER BY voucher_date DESC, voucher_number DESC OFFSET $%d LIMIT $%d;", idx, idx+1)
	args = append(args, filter.Offset, filter.Limit)

	return r.listVouchers(ctx, query, args...)
}

// ListVouchersInPeriod retrieves vouchers dated inside [start, end].
func (r *PgxVoucherRepository) ListVouchersInPeriod(ctx context.Context, companyCode string, start, end time.Time) ([]domain.AccountingVoucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers
		WHERE company_code = $1 AND voucher_date >= $2 AND voucher_date <= $3
		ORDER BY voucher_date, voucher_number;`
	return r.listVouchers(ctx, query, companyCode, start, end)
}

func (r *PgxVoucherRepository) listVouchers(ctx context.Context, query string, args ...any) ([]domain.AccountingVoucher, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []domain.AccountingVoucher
	for rows.Next() {
		voucher, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voucher row: %w", err)
		}
		vouchers = append(vouchers, *voucher)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating voucher rows: %w", err)
	}
	return vouchers, nil
}

// SaveVoucher persists a voucher and its journal entries atomically.
func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.AccountingVoucher, entries []domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err = tx.Exec(ctx, query,
		voucher.VoucherID,
		voucher.VoucherNumber,
		string(voucher.VoucherType),
		voucher.VoucherDate,
		voucher.PostingDate,
		voucher.Description,
		nullString(voucher.DescriptionDetail),
		nullString(voucher.DocumentRef),
		voucher.DocumentDate,
		voucher.CompanyCode,
		nullString(voucher.BranchCode),
		voucher.IsSigned,
		voucher.SignedAt,
		nullString(voucher.SignerID),
		nullString(voucher.SignatureData),
		voucher.IsLocked,
		voucher.LockedAt,
		string(voucher.LockStatus),
		voucher.Version,
		voucher.CreatedAt,
		voucher.CreatedBy,
		voucher.LastUpdatedAt,
		voucher.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: voucher number %s already exists", apperrors.ErrDuplicate, voucher.VoucherNumber)
		}
		return fmt.Errorf("failed to insert voucher %s: %w", voucher.VoucherNumber, err)
	}

	for _, entry := range entries {
		if err := r.journalRepo.insertEntry(ctx, tx, entry); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// UpdateVoucher persists a lifecycle transition under an optimistic version
// check.
func (r *PgxVoucherRepository) UpdateVoucher(ctx context.Context, voucher domain.AccountingVoucher, expectedVersion int64) error {
	query := `
		UPDATE vouchers
		SET is_signed = $1, signed_at = $2, signer_id = $3, signature_data = $4,
		    is_locked = $5, locked_at = $6, lock_status = $7, version = $8,
		    last_updated_at = NOW()
		WHERE voucher_id = $9 AND version = $10;
	`
	tag, err := r.Pool.Exec(ctx, query,
		voucher.IsSigned,
		voucher.SignedAt,
		nullString(voucher.SignerID),
		nullString(voucher.SignatureData),
		voucher.IsLocked,
		voucher.LockedAt,
		string(voucher.LockStatus),
		voucher.Version,
		voucher.VoucherID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update voucher %s: %w", voucher.VoucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %s at version %d", apperrors.ErrConflict, voucher.VoucherNumber, expectedVersion)
	}
	return nil
}

// nullString maps an empty string to NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
