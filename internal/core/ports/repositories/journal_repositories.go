package repositories

import (
	"context"
	"time"

	"github.com/vnacct/vnacct/internal/core/domain"
)

// JournalEntryReader defines read operations for journal entries.
type JournalEntryReader interface {
	// FindEntryByID retrieves one entry with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntriesByVoucher retrieves all entries belonging to a voucher.
	FindEntriesByVoucher(ctx context.Context, voucherID string) ([]domain.JournalEntry, error)

	// FindEntriesByPeriod retrieves entries posted inside [start, end].
	FindEntriesByPeriod(ctx context.Context, companyCode string, start, end time.Time) ([]domain.JournalEntry, error)

	// FindEntriesByAccount retrieves entries touching one account code.
	FindEntriesByAccount(ctx context.Context, companyCode, accountCode string) ([]domain.JournalEntry, error)
}

// JournalEntryWriter defines write operations for journal entries.
type JournalEntryWriter interface {
	// SaveEntry persists an entry and its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntry persists a lifecycle transition (post, lock) under an
	// optimistic version check; apperrors.ErrConflict signals a lost race.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry, expectedVersion int64) error
}

// JournalEntryRepository combines entry reads and writes.
type JournalEntryRepository interface {
	JournalEntryReader
	JournalEntryWriter
}
