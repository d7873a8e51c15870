package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/apperrors"
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	portsrepo "github.com/SscSPs/kudi_commerce/internal/core/ports/repositories"
	"github.com/SscSPs/kudi_commerce/internal/models"
	"github.com/SscSPs/kudi_commerce/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const exchangeRateColumns = `
	exchange_rate_id, from_currency, to_currency, rate, effective_date, expiry_date,
	is_active, source, provider, created_at, created_by, last_updated_at, last_updated_by, version`

// PgxExchangeRateRepository implements the ports.ExchangeRateRepositoryFacade interface using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

func scanExchangeRate(row pgx.Row) (domain.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(
		&m.ExchangeRateID, &m.FromCurrency, &m.ToCurrency, &m.Rate, &m.EffectiveDate, &m.ExpiryDate,
		&m.IsActive, &m.Source, &m.Provider, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version,
	)
	if err != nil {
		return domain.ExchangeRate{}, err
	}
	return mapping.ToDomainExchangeRate(m), nil
}

// FindExchangeRateByID retrieves an exchange rate by its ID.
func (r *PgxExchangeRateRepository) FindExchangeRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error) {
	query := `SELECT ` + exchangeRateColumns + ` FROM exchange_rates WHERE exchange_rate_id = $1`
	rate, err := scanExchangeRate(r.db(ctx).QueryRow(ctx, query, rateID))
	if err != nil {
		return nil, mapError(err, "exchange rate "+rateID)
	}
	return &rate, nil
}

// FindLatestEffectiveRate returns the effective rate with the latest effective date at instant at.
func (r *PgxExchangeRateRepository) FindLatestEffectiveRate(ctx context.Context, from, to domain.CurrencyCode, at time.Time) (*domain.ExchangeRate, error) {
	query := `SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2
		  AND is_active
		  AND effective_date <= $3
		  AND (expiry_date IS NULL OR expiry_date >= $3)
		ORDER BY effective_date DESC
		LIMIT 1`
	rate, err := scanExchangeRate(r.db(ctx).QueryRow(ctx, query, string(from), string(to), at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no effective rate for %s", apperrors.ErrRateNotFound, domain.PairKey(from, to))
		}
		return nil, mapError(err, "exchange rate")
	}
	return &rate, nil
}

// ListEffectiveRates returns every rate effective at instant at, newest first within a pair.
func (r *PgxExchangeRateRepository) ListEffectiveRates(ctx context.Context, at time.Time) ([]domain.ExchangeRate, error) {
	query := `SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE is_active
		  AND effective_date <= $1
		  AND (expiry_date IS NULL OR expiry_date >= $1)
		ORDER BY from_currency, to_currency, effective_date DESC`
	rows, err := r.db(ctx).Query(ctx, query, at)
	if err != nil {
		return nil, mapError(err, "exchange rates")
	}
	defer rows.Close()

	rates := []domain.ExchangeRate{}
	for rows.Next() {
		rate, err := scanExchangeRate(rows)
		if err != nil {
			return nil, mapError(err, "exchange rates")
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "exchange rates")
	}
	return rates, nil
}

// SaveExchangeRate inserts a new rate. A second rate for the same pair and
// effective date violates exchange_rates_pair_effective_key.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)
	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO exchange_rates (`+exchangeRateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		m.ExchangeRateID, m.FromCurrency, m.ToCurrency, m.Rate, m.EffectiveDate, m.ExpiryDate,
		m.IsActive, m.Source, m.Provider, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	return mapError(err, "exchange rate")
}

// UpdateExchangeRate overwrites the mutable columns of an existing rate.
func (r *PgxExchangeRateRepository) UpdateExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE exchange_rates
		SET from_currency = $2, to_currency = $3, rate = $4, effective_date = $5, expiry_date = $6,
		    is_active = $7, source = $8, provider = $9, last_updated_at = $10, last_updated_by = $11,
		    version = version + 1
		WHERE exchange_rate_id = $1`,
		m.ExchangeRateID, m.FromCurrency, m.ToCurrency, m.Rate, m.EffectiveDate, m.ExpiryDate,
		m.IsActive, m.Source, m.Provider, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "exchange rate")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("exchange rate " + rate.ExchangeRateID + " not found")
	}
	return nil
}

// DeactivateExchangeRate soft-deletes a rate so it is no longer effective.
func (r *PgxExchangeRateRepository) DeactivateExchangeRate(ctx context.Context, rateID string, userID string, now time.Time) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE exchange_rates
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3, version = version + 1
		WHERE exchange_rate_id = $1`,
		rateID, now, userID,
	)
	if err != nil {
		return mapError(err, "exchange rate")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("exchange rate " + rateID + " not found")
	}
	return nil
}
