package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository onto one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	journalRepo := newPgxJournalRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:      newPgxAccountRepository(dbPool),
		BalanceRepo:      newPgxAccountBalanceRepository(dbPool),
		VoucherRepo:      newPgxVoucherRepository(dbPool, journalRepo),
		JournalRepo:      journalRepo,
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		AuditRepo:        newPgxAuditRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
		PeriodRepo:       newPgxFiscalPeriodRepository(dbPool),
		ReportingRepo:    newPgxReportingRepository(dbPool),
	}
}
