package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	portsrepo "github.com/SscSPs/kudi_commerce/internal/core/ports/repositories"
	"github.com/SscSPs/kudi_commerce/internal/models"
	"github.com/SscSPs/kudi_commerce/internal/utils/mapping"
	"github.com/SscSPs/kudi_commerce/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `
	order_id, order_reference, user_id, user_name, email, phone_number,
	service_product_id, service_product_name, service_plan_id, service_plan_name,
	credential_username_or_email, credential_password,
	default_amount, default_currency, amount, amount_currency, currency_conversion_rate,
	service_fee, total_amount, status, action, cart_id, metadata, admin_notes,
	payment_reference, is_in_cart, created_at, created_by, last_updated_at, last_updated_by, version`

// PgxOrderRepository stores orders.
type PgxOrderRepository struct {
	BaseRepository
}

func newPgxOrderRepository(pool *pgxpool.Pool) *PgxOrderRepository {
	return &PgxOrderRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OrderRepositoryFacade = (*PgxOrderRepository)(nil)

func scanOrder(row pgx.Row) (domain.Order, error) {
	var m models.Order
	err := row.Scan(
		&m.OrderID, &m.OrderReference, &m.UserID, &m.UserName, &m.Email, &m.PhoneNumber,
		&m.ServiceProductID, &m.ServiceProductName, &m.ServicePlanID, &m.ServicePlanName,
		&m.CredentialUsernameOrEmail, &m.CredentialPassword,
		&m.DefaultAmount, &m.DefaultCurrency, &m.Amount, &m.AmountCurrency, &m.CurrencyConversionRate,
		&m.ServiceFee, &m.TotalAmount, &m.Status, &m.Action, &m.CartID, &m.Metadata, &m.AdminNotes,
		&m.PaymentReference, &m.IsInCart, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version,
	)
	if err != nil {
		return domain.Order{}, err
	}
	return mapping.ToDomainOrder(m), nil
}

func (r *PgxOrderRepository) collect(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "orders")
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, mapError(err, "orders")
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "orders")
	}
	return orders, nil
}

func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := scanOrder(r.db(ctx).QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, orderID))
	if err != nil {
		return nil, mapError(err, "order "+orderID)
	}
	return &order, nil
}

func (r *PgxOrderRepository) FindOrderByReference(ctx context.Context, reference string) (*domain.Order, error) {
	order, err := scanOrder(r.db(ctx).QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_reference = $1`, reference))
	if err != nil {
		return nil, mapError(err, "order "+reference)
	}
	return &order, nil
}

func (r *PgxOrderRepository) ListOrdersByUser(ctx context.Context, userID string, status *domain.OrderStatus) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1`
	args := []any{userID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at DESC, order_id DESC`
	return r.collect(ctx, query, args...)
}

// ListOrders pages through all orders newest first. after is the last row of the
// previous page; rows strictly older than it are returned.
func (r *PgxOrderRepository) ListOrders(ctx context.Context, filter domain.OrderFilter, after *pagination.Cursor) ([]domain.Order, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = "+arg(string(*filter.Status)))
	}
	if filter.Action != nil {
		conditions = append(conditions, "action = "+arg(string(*filter.Action)))
	}
	if after != nil {
		conditions = append(conditions, fmt.Sprintf("(created_at, order_id) < (%s, %s)", arg(after.CreatedAt), arg(after.ID)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, order_id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}
	return r.collect(ctx, query, args...)
}

func (r *PgxOrderRepository) ListOrdersByCartID(ctx context.Context, cartID string) ([]domain.Order, error) {
	return r.collect(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE cart_id = $1 ORDER BY created_at DESC, order_id DESC`, cartID)
}

func (r *PgxOrderRepository) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, mapError(err, "orders")
	}
	return n, nil
}

func (r *PgxOrderRepository) countGrouped(ctx context.Context, column string) (map[string]int64, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+column+`, COUNT(*) FROM orders GROUP BY `+column)
	if err != nil {
		return nil, mapError(err, "orders")
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			key string
			n   int64
		)
		if err := rows.Scan(&key, &n); err != nil {
			return nil, mapError(err, "orders")
		}
		counts[key] = n
	}
	return counts, mapError(rows.Err(), "orders")
}

func (r *PgxOrderRepository) CountOrdersByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	raw, err := r.countGrouped(ctx, "status")
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.OrderStatus]int64, len(raw))
	for k, n := range raw {
		counts[domain.OrderStatus(k)] = n
	}
	return counts, nil
}

func (r *PgxOrderRepository) CountOrdersByAction(ctx context.Context) (map[domain.OrderAction]int64, error) {
	raw, err := r.countGrouped(ctx, "action")
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.OrderAction]int64, len(raw))
	for k, n := range raw {
		counts[domain.OrderAction(k)] = n
	}
	return counts, nil
}

func (r *PgxOrderRepository) CountOrdersByActionIn(ctx context.Context, actions []domain.OrderAction) (int64, error) {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	var n int64
	if err := r.db(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE action = ANY($1)`, names).Scan(&n); err != nil {
		return 0, mapError(err, "orders")
	}
	return n, nil
}

func (r *PgxOrderRepository) SaveOrder(ctx context.Context, order domain.Order) error {
	m := mapping.ToModelOrder(order)
	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)`,
		m.OrderID, m.OrderReference, m.UserID, m.UserName, m.Email, m.PhoneNumber,
		m.ServiceProductID, m.ServiceProductName, m.ServicePlanID, m.ServicePlanName,
		m.CredentialUsernameOrEmail, m.CredentialPassword,
		m.DefaultAmount, m.DefaultCurrency, m.Amount, m.AmountCurrency, m.CurrencyConversionRate,
		m.ServiceFee, m.TotalAmount, m.Status, m.Action, m.CartID, m.Metadata, m.AdminNotes,
		m.PaymentReference, m.IsInCart, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	return mapError(err, "order")
}

// UpdateOrder writes the mutable columns when the stored version still matches
// order.Version, and bumps it.
func (r *PgxOrderRepository) UpdateOrder(ctx context.Context, order domain.Order) error {
	m := mapping.ToModelOrder(order)
	q := r.db(ctx)
	tag, err := q.Exec(ctx, `
		UPDATE orders
		SET amount = $3, amount_currency = $4, currency_conversion_rate = $5, service_fee = $6,
		    total_amount = $7, status = $8, action = $9, cart_id = $10, metadata = $11,
		    admin_notes = $12, payment_reference = $13, is_in_cart = $14,
		    last_updated_at = $15, last_updated_by = $16, version = version + 1
		WHERE order_id = $1 AND version = $2`,
		m.OrderID, m.Version,
		m.Amount, m.AmountCurrency, m.CurrencyConversionRate, m.ServiceFee,
		m.TotalAmount, m.Status, m.Action, m.CartID, m.Metadata,
		m.AdminNotes, m.PaymentReference, m.IsInCart,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "order")
	}
	if tag.RowsAffected() == 0 {
		return versionedUpdateError(ctx, q, "orders", "order_id", order.OrderID, "order")
	}
	return nil
}

func (r *PgxOrderRepository) DeleteOrder(ctx context.Context, orderID string) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM orders WHERE order_id = $1`, orderID)
	if err != nil {
		return mapError(err, "order")
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "order "+orderID)
	}
	return nil
}
