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

const cartColumns = `
	cart_id, cart_reference, user_id, status, item_count, subtotal, total_service_fee,
	total_amount, currency, payment_reference, authorization_url, access_code,
	checked_out_at, last_activity_at, created_at, created_by, last_updated_at, last_updated_by, version`

// PgxCartRepository stores carts. Member orders live in orders.cart_id and are
// loaded through the order repository.
type PgxCartRepository struct {
	BaseRepository
}

func newPgxCartRepository(pool *pgxpool.Pool) *PgxCartRepository {
	return &PgxCartRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CartRepositoryFacade = (*PgxCartRepository)(nil)

func scanCart(row pgx.Row) (domain.Cart, error) {
	var m models.Cart
	err := row.Scan(
		&m.CartID, &m.CartReference, &m.UserID, &m.Status, &m.ItemCount, &m.Subtotal, &m.TotalServiceFee,
		&m.TotalAmount, &m.Currency, &m.PaymentReference, &m.AuthorizationURL, &m.AccessCode,
		&m.CheckedOutAt, &m.LastActivityAt, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version,
	)
	if err != nil {
		return domain.Cart{}, err
	}
	return mapping.ToDomainCart(m), nil
}

func (r *PgxCartRepository) findOne(ctx context.Context, what, where string, arg any) (*domain.Cart, error) {
	cart, err := scanCart(r.db(ctx).QueryRow(ctx, `SELECT `+cartColumns+` FROM carts WHERE `+where, arg))
	if err != nil {
		return nil, mapError(err, what)
	}
	return &cart, nil
}

func (r *PgxCartRepository) FindCartByID(ctx context.Context, cartID string) (*domain.Cart, error) {
	return r.findOne(ctx, "cart "+cartID, `cart_id = $1`, cartID)
}

func (r *PgxCartRepository) FindCartByReference(ctx context.Context, reference string) (*domain.Cart, error) {
	return r.findOne(ctx, "cart "+reference, `cart_reference = $1`, reference)
}

func (r *PgxCartRepository) FindCartByPaymentReference(ctx context.Context, paymentReference string) (*domain.Cart, error) {
	return r.findOne(ctx, "cart for payment "+paymentReference, `payment_reference = $1`, paymentReference)
}

func (r *PgxCartRepository) FindActiveCartByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	return r.findOne(ctx, "active cart", `user_id = $1 AND status = 'ACTIVE'`, userID)
}

func (r *PgxCartRepository) ListCartsByUser(ctx context.Context, userID string) ([]domain.Cart, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+cartColumns+` FROM carts WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, mapError(err, "carts")
	}
	defer rows.Close()

	carts := []domain.Cart{}
	for rows.Next() {
		cart, err := scanCart(rows)
		if err != nil {
			return nil, mapError(err, "carts")
		}
		carts = append(carts, cart)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "carts")
	}
	return carts, nil
}

// SaveCart inserts a cart. A second ACTIVE cart for a user violates
// carts_one_active_per_user and is reported as ErrDuplicate.
func (r *PgxCartRepository) SaveCart(ctx context.Context, cart domain.Cart) error {
	m := mapping.ToModelCart(cart)
	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO carts (`+cartColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		m.CartID, m.CartReference, m.UserID, m.Status, m.ItemCount, m.Subtotal, m.TotalServiceFee,
		m.TotalAmount, m.Currency, m.PaymentReference, m.AuthorizationURL, m.AccessCode,
		m.CheckedOutAt, m.LastActivityAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	return mapError(err, "active cart")
}

// UpdateCart writes the cart when the stored version still matches cart.Version, and bumps it.
func (r *PgxCartRepository) UpdateCart(ctx context.Context, cart domain.Cart) error {
	m := mapping.ToModelCart(cart)
	q := r.db(ctx)
	tag, err := q.Exec(ctx, `
		UPDATE carts
		SET status = $3, item_count = $4, subtotal = $5, total_service_fee = $6, total_amount = $7,
		    payment_reference = $8, authorization_url = $9, access_code = $10, checked_out_at = $11,
		    last_activity_at = $12, last_updated_at = $13, last_updated_by = $14, version = version + 1
		WHERE cart_id = $1 AND version = $2`,
		m.CartID, m.Version,
		m.Status, m.ItemCount, m.Subtotal, m.TotalServiceFee, m.TotalAmount,
		m.PaymentReference, m.AuthorizationURL, m.AccessCode, m.CheckedOutAt,
		m.LastActivityAt, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "cart")
	}
	if tag.RowsAffected() == 0 {
		return versionedUpdateError(ctx, q, "carts", "cart_id", cart.CartID, "cart")
	}
	return nil
}
