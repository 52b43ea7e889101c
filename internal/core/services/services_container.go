package services

import (
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
	portssvc "github.com/vnacct/vnacct/internal/core/ports/services"
	"github.com/vnacct/vnacct/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Audit first: every mutating service records through it.
	container.Audit = NewAuditService(repos.AuditRepo)

	container.Account = NewAccountService(repos.AccountRepo, container.Audit)
	container.Voucher = NewVoucherService(repos.VoucherRepo, repos.JournalRepo, repos.AccountRepo, container.Audit)
	container.Journal = NewJournalService(repos.JournalRepo, container.Account, container.Audit)
	container.Period = NewFiscalPeriodService(repos.PeriodRepo, repos.VoucherRepo, repos.JournalRepo, repos.AccountRepo, repos.BalanceRepo, container.Audit)
	container.Inventory = NewInventoryService()
	container.Provision = NewProvisionService()
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo, cfg.Company)
	container.Auth = NewAuthService(repos.UserRepo, container.Audit, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer, cfg.Company.Code, cfg.BcryptCost)

	return container
}

// Compile-time checks that each implementation satisfies its facade.
var (
	_ portssvc.VoucherSvcFacade      = (*VoucherService)(nil)
	_ portssvc.JournalSvcFacade      = (*JournalService)(nil)
	_ portssvc.AccountSvcFacade      = (*AccountService)(nil)
	_ portssvc.PeriodSvcFacade       = (*FiscalPeriodService)(nil)
	_ portssvc.InventorySvcFacade    = (*InventoryService)(nil)
	_ portssvc.ProvisionSvcFacade    = (*ProvisionService)(nil)
	_ portssvc.ExchangeRateSvcFacade = (*ExchangeRateService)(nil)
	_ portssvc.ReportingSvcFacade    = (*ReportingService)(nil)
	_ portssvc.AuditSvcFacade        = (*AuditService)(nil)
	_ portssvc.AuthSvcFacade         = (*AuthService)(nil)
)
