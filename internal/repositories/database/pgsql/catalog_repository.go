package pgsql

import (
	"context"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	portsrepo "github.com/SscSPs/kudi_commerce/internal/core/ports/repositories"
	"github.com/SscSPs/kudi_commerce/internal/models"
	"github.com/SscSPs/kudi_commerce/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const priceColumns = `
	price_id, service_plan_id, default_price, default_currency, amount_to_pay, amount_currency,
	conversion_rate, rate_timestamp, rate_source, created_at, created_by, last_updated_at, last_updated_by, version`

// PgxCatalogRepository reads products and plans and manages plan prices.
// Products and plans are maintained by the catalog admin; this service only reads them.
type PgxCatalogRepository struct {
	BaseRepository
}

func newPgxCatalogRepository(pool *pgxpool.Pool) *PgxCatalogRepository {
	return &PgxCatalogRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var (
	_ portsrepo.CatalogReader         = (*PgxCatalogRepository)(nil)
	_ portsrepo.PriceRepositoryFacade = (*PgxCatalogRepository)(nil)
)

func (r *PgxCatalogRepository) FindServiceProductByID(ctx context.Context, productID string) (*domain.ServiceProduct, error) {
	var m models.ServiceProduct
	err := r.db(ctx).QueryRow(ctx, `
		SELECT service_product_id, title, description, category, status,
		       created_at, created_by, last_updated_at, last_updated_by, version
		FROM service_products
		WHERE service_product_id = $1`, productID,
	).Scan(
		&m.ServiceProductID, &m.Title, &m.Description, &m.Category, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version,
	)
	if err != nil {
		return nil, mapError(err, "service product "+productID)
	}
	product := mapping.ToDomainServiceProduct(m)
	return &product, nil
}

func (r *PgxCatalogRepository) FindServicePlanByID(ctx context.Context, planID string) (*domain.ServicePlan, error) {
	var m models.ServicePlan
	err := r.db(ctx).QueryRow(ctx, `
		SELECT service_plan_id, service_product_id, plan_name, description, amount, currency,
		       status, plan_type, display_order, is_featured,
		       created_at, created_by, last_updated_at, last_updated_by, version
		FROM service_product_plans
		WHERE service_plan_id = $1`, planID,
	).Scan(
		&m.ServicePlanID, &m.ServiceProductID, &m.PlanName, &m.Description, &m.Amount, &m.Currency,
		&m.Status, &m.PlanType, &m.DisplayOrder, &m.IsFeatured,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version,
	)
	if err != nil {
		return nil, mapError(err, "service plan "+planID)
	}
	plan := mapping.ToDomainServicePlan(m)
	return &plan, nil
}

func scanPrice(row pgx.Row) (*domain.ServiceProductPrice, error) {
	var m models.ServiceProductPrice
	err := row.Scan(
		&m.PriceID, &m.ServicePlanID, &m.DefaultPrice, &m.DefaultCurrency, &m.AmountToPay, &m.AmountCurrency,
		&m.ConversionRate, &m.RateTimestamp, &m.RateSource, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version,
	)
	if err != nil {
		return nil, err
	}
	price := mapping.ToDomainServiceProductPrice(m)
	return &price, nil
}

func (r *PgxCatalogRepository) FindPriceByID(ctx context.Context, priceID string) (*domain.ServiceProductPrice, error) {
	price, err := scanPrice(r.db(ctx).QueryRow(ctx,
		`SELECT `+priceColumns+` FROM service_product_prices WHERE price_id = $1`, priceID))
	if err != nil {
		return nil, mapError(err, "price "+priceID)
	}
	return price, nil
}

func (r *PgxCatalogRepository) FindPriceByPlanID(ctx context.Context, planID string) (*domain.ServiceProductPrice, error) {
	price, err := scanPrice(r.db(ctx).QueryRow(ctx,
		`SELECT `+priceColumns+` FROM service_product_prices WHERE service_plan_id = $1`, planID))
	if err != nil {
		return nil, mapError(err, "price for plan "+planID)
	}
	return price, nil
}

// SavePrice upserts the single price row of a plan.
func (r *PgxCatalogRepository) SavePrice(ctx context.Context, price domain.ServiceProductPrice) error {
	m := mapping.ToModelServiceProductPrice(price)
	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO service_product_prices (`+priceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (service_plan_id) DO UPDATE
		SET default_price = EXCLUDED.default_price,
		    default_currency = EXCLUDED.default_currency,
		    amount_to_pay = EXCLUDED.amount_to_pay,
		    amount_currency = EXCLUDED.amount_currency,
		    conversion_rate = EXCLUDED.conversion_rate,
		    rate_timestamp = EXCLUDED.rate_timestamp,
		    rate_source = EXCLUDED.rate_source,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by,
		    version = service_product_prices.version + 1`,
		m.PriceID, m.ServicePlanID, m.DefaultPrice, m.DefaultCurrency, m.AmountToPay, m.AmountCurrency,
		m.ConversionRate, m.RateTimestamp, m.RateSource, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	return mapError(err, "price")
}

func (r *PgxCatalogRepository) DeletePrice(ctx context.Context, priceID string) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM service_product_prices WHERE price_id = $1`, priceID)
	if err != nil {
		return mapError(err, "price")
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "price "+priceID)
	}
	return nil
}
