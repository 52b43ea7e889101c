package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
)

const entryColumns = `entry_id, entry_number, voucher_id, company_code, voucher_date, posting_date,
	description, description_detail, total_debit, total_credit, difference,
	is_posted, posted_at, is_locked, lock_status, version,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `entry_id, line_no, account_code, debit_amount, credit_amount,
	counterpart_account, description, quantity, unit_price, exchange_rate,
	foreign_amount, foreign_currency, tax_code, tax_rate, object_code, contract_code`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalEntryRepository = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	var descriptionDetail sql.NullString
	var totalDebit, totalCredit, difference decimal.NullDecimal
	var postedAt sql.NullTime

	err := row.Scan(
		&e.EntryID,
		&e.EntryNumber,
		&e.VoucherID,
		&e.CompanyCode,
		&e.VoucherDate,
		&e.PostingDate,
		&e.Description,
		&descriptionDetail,
		&totalDebit,
		&totalCredit,
		&difference,
		&e.IsPosted,
		&postedAt,
		&e.IsLocked,
		&e.LockStatus,
		&e.Version,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	e.DescriptionDetail = descriptionDetail.String
	if totalDebit.Valid {
		m := domain.VND(totalDebit.Decimal)
		e.TotalDebit = &m
	}
	if totalCredit.Valid {
		m := domain.VND(totalCredit.Decimal)
		e.TotalCredit = &m
	}
	if difference.Valid {
		m := domain.VND(difference.Decimal)
		e.Difference = &m
	}
	if postedAt.Valid {
		e.PostedAt = &postedAt.Time
	}
	return &e, nil
}

// FindEntryByID retrieves one entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}

	lines, err := r.findLines(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entryID]
	return entry, nil
}

// FindEntriesByVoucher retrieves all entries belonging to a voucher.
func (r *PgxJournalRepository) FindEntriesByVoucher(ctx context.Context, voucherID string) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE voucher_id = $1 ORDER BY entry_number;`
	return r.listEntriesWithLines(ctx, query, voucherID)
}

// FindEntriesByPeriod retrieves entries posted inside [start, end].
func (r *PgxJournalRepository) FindEntriesByPeriod(ctx context.Context, companyCode string, start, end time.Time) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries
		WHERE company_code = $1 AND posting_date >= $2 AND posting_date <= $3
		ORDER BY posting_date, entry_number;`
	return r.listEntriesWithLines(ctx, query, companyCode, start, end)
}

// The join against journal_entry_lines needs qualified columns since both
// tables carry entry_id and description.
const entryColumnsQualified = `e.entry_id, e.entry_number, e.voucher_id, e.company_code, e.voucher_date, e.posting_date,
	e.description, e.description_detail, e.total_debit, e.total_credit, e.difference,
	e.is_posted, e.posted_at, e.is_locked, e.lock_status, e.version,
	e.created_at, e.created_by, e.last_updated_at, e.last_updated_by`

// FindEntriesByAccount retrieves entries touching one account code.
func (r *PgxJournalRepository) FindEntriesByAccount(ctx context.Context, companyCode, accountCode string) ([]domain.JournalEntry, error) {
	query := `SELECT DISTINCT ` + entryColumnsQualified + ` FROM journal_entries e
		JOIN journal_entry_lines l ON l.entry_id = e.entry_id
		WHERE e.company_code = $1 AND l.account_code = $2
		ORDER BY e.posting_date, e.entry_number;`
	return r.listEntriesWithLines(ctx, query, companyCode, accountCode)
}

func (r *PgxJournalRepository) listEntriesWithLines(ctx context.Context, query string, args ...any) ([]domain.JournalEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	var entryIDs []string
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, *entry)
		entryIDs = append(entryIDs, entry.EntryID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating entry rows: %w", err)
	}

	lines, err := r.findLines(ctx, entryIDs)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Lines = lines[entries[i].EntryID]
	}
	return entries, nil
}

func (r *PgxJournalRepository) findLines(ctx context.Context, entryIDs []string) (map[string][]domain.VoucherLineDetail, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.VoucherLineDetail{}, nil
	}

	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE entry_id = ANY($1) ORDER BY entry_id, line_no;`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry lines: %w", err)
	}
	defer rows.Close()

	lines := make(map[string][]domain.VoucherLineDetail)
	for rows.Next() {
		var entryID string
		var lineNo int
		var line domain.VoucherLineDetail
		var debit, credit, quantity, unitPrice, rate, foreignAmount, taxRate decimal.NullDecimal
		var counterpart, description, foreignCurrency, taxCode, objectCode, contractCode sql.NullString

		err := rows.Scan(
			&entryID,
			&lineNo,
			&line.AccountCode,
			&debit,
			&credit,
			&counterpart,
			&description,
			&quantity,
			&unitPrice,
			&rate,
			&foreignAmount,
			&foreignCurrency,
			&taxCode,
			&taxRate,
			&objectCode,
			&contractCode,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry line: %w", err)
		}

		if debit.Valid {
			m := domain.VND(debit.Decimal)
			line.DebitAmount = &m
		}
		if credit.Valid {
			m := domain.VND(credit.Decimal)
			line.CreditAmount = &m
		}
		if quantity.Valid {
			q := quantity.Decimal
			line.Quantity = &q
		}
		if unitPrice.Valid {
			m := domain.VND(unitPrice.Decimal)
			line.UnitPrice = &m
		}
		if rate.Valid {
			er := domain.ExchangeRate{Rate: rate.Decimal, Currency: foreignCurrency.String, RateType: domain.RateRealtime}
			line.ExchangeRate = &er
		}
		if foreignAmount.Valid {
			m := domain.NewMoney(foreignAmount.Decimal, foreignCurrency.String)
			line.ForeignAmount = &m
		}
		if taxRate.Valid {
			t := taxRate.Decimal
			line.TaxRate = &t
		}
		line.CounterpartAccount = counterpart.String
		line.Description = description.String
		line.TaxCode = taxCode.String
		line.ObjectCode = objectCode.String
		line.ContractCode = contractCode.String

		lines[entryID] = append(lines[entryID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating entry lines: %w", err)
	}
	return lines, nil
}

// SaveEntry persists an entry and its lines atomically.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := r.insertEntry(ctx, tx, entry); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// insertEntry writes the entry header and lines inside an existing transaction.
func (r *PgxJournalRepository) insertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := tx.Exec(ctx, query,
		entry.EntryID,
		entry.EntryNumber,
		entry.VoucherID,
		entry.CompanyCode,
		entry.VoucherDate,
		entry.PostingDate,
		entry.Description,
		nullString(entry.DescriptionDetail),
		moneyAmount(entry.TotalDebit),
		moneyAmount(entry.TotalCredit),
		moneyAmount(entry.Difference),
		entry.IsPosted,
		entry.PostedAt,
		entry.IsLocked,
		string(entry.LockStatus),
		entry.Version,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", entry.EntryNumber, err)
	}

	lineQuery := `
		INSERT INTO journal_entry_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	for i, line := range entry.Lines {
		var rate decimal.NullDecimal
		var foreignCurrency sql.NullString
		if line.ExchangeRate != nil {
			rate = decimal.NullDecimal{Decimal: line.ExchangeRate.Rate, Valid: true}
			foreignCurrency = nullString(line.ExchangeRate.Currency)
		}
		if line.ForeignAmount != nil {
			foreignCurrency = nullString(line.ForeignAmount.Currency)
		}
		var quantity, taxRate decimal.NullDecimal
		if line.Quantity != nil {
			quantity = decimal.NullDecimal{Decimal: *line.Quantity, Valid: true}
		}
		if line.TaxRate != nil {
			taxRate = decimal.NullDecimal{Decimal: *line.TaxRate, Valid: true}
		}

		_, err := tx.Exec(ctx, lineQuery,
			entry.EntryID,
			i+1,
			line.AccountCode,
			moneyAmount(line.DebitAmount),
			moneyAmount(line.CreditAmount),
			nullString(line.CounterpartAccount),
			nullString(line.Description),
			quantity,
			moneyAmount(line.UnitPrice),
			rate,
			moneyAmount(line.ForeignAmount),
			foreignCurrency,
			nullString(line.TaxCode),
			taxRate,
			nullString(line.ObjectCode),
			nullString(line.ContractCode),
		)
		if err != nil {
			return fmt.Errorf("failed to insert line %d of entry %s: %w", i+1, entry.EntryNumber, err)
		}
	}
	return nil
}

// UpdateEntry persists a lifecycle transition under an optimistic version
// check. Lines are immutable and not touched here.
func (r *PgxJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, expectedVersion int64) error {
	query := `
		UPDATE journal_entries
		SET total_debit = $1, total_credit = $2, difference = $3,
		    is_posted = $4, posted_at = $5, is_locked = $6, lock_status = $7,
		    version = $8, last_updated_at = NOW(), last_updated_by = $9
		WHERE entry_id = $10 AND version = $11;
	`
	tag, err := r.Pool.Exec(ctx, query,
		moneyAmount(entry.TotalDebit),
		moneyAmount(entry.TotalCredit),
		moneyAmount(entry.Difference),
		entry.IsPosted,
		entry.PostedAt,
		entry.IsLocked,
		string(entry.LockStatus),
		entry.Version,
		entry.LastUpdatedBy,
		entry.EntryID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry %s: %w", entry.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s at version %d", apperrors.ErrConflict, entry.EntryNumber, expectedVersion)
	}
	return nil
}
