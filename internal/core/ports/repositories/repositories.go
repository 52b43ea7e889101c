package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo      AccountRepository
	BalanceRepo      AccountBalanceRepository
	VoucherRepo      VoucherRepository
	JournalRepo      JournalEntryRepository
	ExchangeRateRepo ExchangeRateRepository
	AuditRepo        AuditLogRepository
	UserRepo         UserRepository
	PeriodRepo       FiscalPeriodRepository
	ReportingRepo    ReportingRepository
}
