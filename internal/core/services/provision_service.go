package services

import (
	"context"
	"fmt"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	"github.com/vnacct/vnacct/internal/dto"
)

// ProvisionService computes doubtful-receivable provisions (account 229).
type ProvisionService struct{}

// NewProvisionService creates a new ProvisionService.
func NewProvisionService() *ProvisionService {
	return &ProvisionService{}
}

// SpecificProvision applies the aging bands to each receivable.
func (s *ProvisionService) SpecificProvision(ctx context.Context, req dto.SpecificProvisionRequest) (*dto.ProvisionResponse, error) {
	receivables := make([]domain.Receivable, 0, len(req.Receivables))
	for i, r := range req.Receivables {
		if r.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: receivable %d has a negative amount", apperrors.ErrValidation, i+1)
		}
		receivables = append(receivables, domain.Receivable{
			CustomerCode: r.CustomerCode,
			Amount:       r.Amount,
			OverdueDays:  r.OverdueDays,
		})
	}

	provision := domain.CalculateSpecificProvision(receivables, req.OverdueDays)
	return &dto.ProvisionResponse{
		ProvisionType:   "SPECIFIC",
		ProvisionAmount: provision.Amount,
		Currency:        provision.Currency,
	}, nil
}

// GeneralProvision applies the flat 1% allowance over total receivables.
func (s *ProvisionService) GeneralProvision(ctx context.Context, req dto.GeneralProvisionRequest) (*dto.ProvisionResponse, error) {
	if req.TotalReceivables.IsNegative() {
		return nil, fmt.Errorf("%w: total receivables must not be negative", apperrors.ErrValidation)
	}

	provision := domain.CalculateGeneralProvision(domain.VND(req.TotalReceivables))
	return &dto.ProvisionResponse{
		ProvisionType:   "GENERAL",
		ProvisionAmount: provision.Amount,
		Currency:        provision.Currency,
	}, nil
}
