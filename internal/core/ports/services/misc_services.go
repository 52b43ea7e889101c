package services

import (
	"context"

	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
	"github.com/vnacct/vnacct/internal/dto"
)

// InventorySvcFacade exposes the pure inventory-costing calculators.
type InventorySvcFacade interface {
	CalculateCOGS(ctx context.Context, req dto.COGSCalculationRequest) (*dto.COGSCalculationResponse, error)
	Reconcile(ctx context.Context, req dto.ReconciliationRequest) (*dto.ReconciliationResponse, error)
}

// ProvisionSvcFacade exposes the doubtful-receivable provision calculators.
type ProvisionSvcFacade interface {
	SpecificProvision(ctx context.Context, req dto.SpecificProvisionRequest) (*dto.ProvisionResponse, error)
	GeneralProvision(ctx context.Context, req dto.GeneralProvisionRequest) (*dto.ProvisionResponse, error)
}

// ExchangeRateSvcFacade manages the rate history and VND conversion.
type ExchangeRateSvcFacade interface {
	RecordRate(ctx context.Context, req dto.RecordExchangeRateRequest, userID string) error
	ConvertToVND(ctx context.Context, req dto.ConvertToVNDRequest) (*dto.ConversionResponse, error)
	RevaluationDifference(ctx context.Context, req dto.RevaluationRequest) (*dto.RevaluationResponse, error)
}

// AuditSvcFacade records and queries the audit trail.
type AuditSvcFacade interface {
	// Record appends one audit entry. Failures are reported but callers
	// treat the underlying business operation as already committed.
	Record(ctx context.Context, entry domain.AuditLog) error

	// List retrieves audit records matching the filter.
	List(ctx context.Context, filter portsrepo.AuditLogFilter) ([]domain.AuditLog, error)
}

// AuthSvcFacade authenticates operators and issues tokens.
type AuthSvcFacade interface {
	// Login verifies credentials, enforces the failed-attempt lockout, and
	// issues a signed JWT.
	Login(ctx context.Context, req dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)

	// CreateUser registers a new operator.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
}
