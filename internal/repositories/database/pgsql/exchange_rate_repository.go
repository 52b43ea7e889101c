package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
)

type PgxExchangeRateRepository struct {
	pool *pgxpool.Pool
}

// newPgxExchangeRateRepository creates a new repository for the rate history.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepository {
	return &PgxExchangeRateRepository{pool: pool}
}

var _ portsrepo.ExchangeRateRepository = (*PgxExchangeRateRepository)(nil)

// SaveRate records one rate observation.
func (r *PgxExchangeRateRepository) SaveRate(ctx context.Context, rate domain.ExchangeRate, source string) error {
	query := `
		INSERT INTO exchange_rates (rate_id, currency, rate, rate_type, valuation_date, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW());
	`
	_, err := r.pool.Exec(ctx, query,
		uuid.NewString(),
		rate.Currency,
		rate.Rate,
		string(rate.RateType),
		rate.ValuationDate,
		nullString(source),
	)
	if err != nil {
		return fmt.Errorf("failed to save exchange rate for %s: %w", rate.Currency, err)
	}
	return nil
}

// FindRate retrieves the latest rate for a currency on or before a date.
func (r *PgxExchangeRateRepository) FindRate(ctx context.Context, currency string, valuationDate time.Time, rateType domain.RateType) (*domain.ExchangeRate, error) {
	query := `
		SELECT currency, rate, rate_type, valuation_date
		FROM exchange_rates
		WHERE currency = $1 AND rate_type = $2 AND valuation_date <= $3
		ORDER BY valuation_date DESC
		LIMIT 1;
	`
	var rate domain.ExchangeRate
	var storedDate time.Time
	err := r.pool.QueryRow(ctx, query, currency, string(rateType), valuationDate).Scan(
		&rate.Currency,
		&rate.Rate,
		&rate.RateType,
		&storedDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exchange rate for %s: %w", currency, err)
	}
	rate.ValuationDate = &storedDate
	return &rate, nil
}
