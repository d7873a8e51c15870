package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/apperrors"
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	portsrepo "github.com/SscSPs/kudi_commerce/internal/core/ports/repositories"
	"github.com/SscSPs/kudi_commerce/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

// memStore is an in-memory stand-in for the Postgres repositories. It enforces the
// same constraints the schema does: one ACTIVE cart per user and version checks on
// carts and orders. WithinTx serialises transactions and rolls back on error.
type memStore struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	rates    map[string]domain.ExchangeRate
	products map[string]domain.ServiceProduct
	plans    map[string]domain.ServicePlan
	prices   map[string]domain.ServiceProductPrice
	orders   map[string]domain.Order
	carts    map[string]domain.Cart

	saveCartCalls int
}

func newMemStore() *memStore {
	return &memStore{
		rates:    map[string]domain.ExchangeRate{},
		products: map[string]domain.ServiceProduct{},
		plans:    map[string]domain.ServicePlan{},
		prices:   map[string]domain.ServiceProductPrice{},
		orders:   map[string]domain.Order{},
		carts:    map[string]domain.Cart{},
	}
}

func (s *memStore) provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExchangeRateRepo: s,
		CatalogRepo:      s,
		PriceRepo:        s,
		OrderRepo:        s,
		CartRepo:         s,
		TxManager:        s,
	}
}

// --- TransactionManager ---

var errNoRealTx = errors.New("memStore has no pgx transactions")

func (s *memStore) Begin(ctx context.Context) (pgx.Tx, error)    { return nil, errNoRealTx }
func (s *memStore) Commit(ctx context.Context, tx pgx.Tx) error   { return errNoRealTx }
func (s *memStore) Rollback(ctx context.Context, tx pgx.Tx) error { return errNoRealTx }

func (s *memStore) WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	orders := copyMap(s.orders)
	carts := copyMap(s.carts)
	prices := copyMap(s.prices)
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.orders, s.carts, s.prices = orders, carts, prices
		s.mu.Unlock()
		return err
	}
	return nil
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// --- ExchangeRateRepositoryFacade ---

func (s *memStore) FindExchangeRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rates[rateID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &r, nil
}

func (s *memStore) FindLatestEffectiveRate(ctx context.Context, from, to domain.CurrencyCode, at time.Time) (*domain.ExchangeRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var candidates []domain.ExchangeRate
	for _, r := range s.rates {
		if r.FromCurrency == from && r.ToCurrency == to {
			candidates = append(candidates, r)
		}
	}
	latest, ok := domain.LatestEffective(candidates, at)
	if !ok {
		return nil, apperrors.ErrRateNotFound
	}
	return latest, nil
}

func (s *memStore) ListEffectiveRates(ctx context.Context, at time.Time) ([]domain.ExchangeRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ExchangeRate
	for _, r := range s.rates {
		if r.IsEffectiveAt(at) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rates {
		if r.FromCurrency == rate.FromCurrency && r.ToCurrency == rate.ToCurrency && r.EffectiveDate.Equal(rate.EffectiveDate) {
			return apperrors.ErrDuplicate
		}
	}
	s.rates[rate.ExchangeRateID] = rate
	return nil
}

func (s *memStore) UpdateExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rates[rate.ExchangeRateID]; !ok {
		return apperrors.ErrNotFound
	}
	s.rates[rate.ExchangeRateID] = rate
	return nil
}

func (s *memStore) DeactivateExchangeRate(ctx context.Context, rateID string, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rates[rateID]
	if !ok {
		return apperrors.ErrNotFound
	}
	r.IsActive = false
	r.Touch(userID, now)
	s.rates[rateID] = r
	return nil
}

// --- CatalogReader ---

func (s *memStore) FindServiceProductByID(ctx context.Context, productID string) (*domain.ServiceProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) FindServicePlanByID(ctx context.Context, planID string) (*domain.ServicePlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[planID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

// --- PriceRepositoryFacade ---

func (s *memStore) FindPriceByID(ctx context.Context, priceID string) (*domain.ServiceProductPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prices[priceID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) FindPriceByPlanID(ctx context.Context, planID string) (*domain.ServiceProductPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.prices {
		if p.ServicePlanID == planID {
			return &p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memStore) SavePrice(ctx context.Context, price domain.ServiceProductPrice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.prices {
		if p.ServicePlanID == price.ServicePlanID && id != price.PriceID {
			delete(s.prices, id)
		}
	}
	s.prices[price.PriceID] = price
	return nil
}

func (s *memStore) DeletePrice(ctx context.Context, priceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.prices[priceID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.prices, priceID)
	return nil
}

// --- OrderRepositoryFacade ---

func (s *memStore) FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &o, nil
}

func (s *memStore) FindOrderByReference(ctx context.Context, reference string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.OrderReference == reference {
			return &o, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memStore) sortedOrders(keep func(domain.Order) bool) []domain.Order {
	var out []domain.Order
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].OrderID > out[j].OrderID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *memStore) ListOrdersByUser(ctx context.Context, userID string, status *domain.OrderStatus) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedOrders(func(o domain.Order) bool {
		return o.UserID == userID && (status == nil || o.Status == *status)
	}), nil
}

func (s *memStore) ListOrders(ctx context.Context, filter domain.OrderFilter, after *pagination.Cursor) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.sortedOrders(func(o domain.Order) bool {
		if filter.Status != nil && o.Status != *filter.Status {
			return false
		}
		if filter.Action != nil && o.Action != *filter.Action {
			return false
		}
		if after != nil {
			if o.CreatedAt.After(after.CreatedAt) {
				return false
			}
			if o.CreatedAt.Equal(after.CreatedAt) && o.OrderID >= after.ID {
				return false
			}
		}
		return true
	})
	if filter.Limit > 0 && len(all) > filter.Limit {
		all = all[:filter.Limit]
	}
	return all, nil
}

func (s *memStore) ListOrdersByCartID(ctx context.Context, cartID string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.sortedOrders(func(o domain.Order) bool { return o.CartID != nil && *o.CartID == cartID })
	if out == nil {
		out = []domain.Order{}
	}
	return out, nil
}

func (s *memStore) CountOrders(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.orders)), nil
}

func (s *memStore) CountOrdersByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[domain.OrderStatus]int64{}
	for _, o := range s.orders {
		out[o.Status]++
	}
	return out, nil
}

func (s *memStore) CountOrdersByAction(ctx context.Context) (map[domain.OrderAction]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[domain.OrderAction]int64{}
	for _, o := range s.orders {
		out[o.Action]++
	}
	return out, nil
}

func (s *memStore) CountOrdersByActionIn(ctx context.Context, actions []domain.OrderAction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, o := range s.orders {
		for _, a := range actions {
			if o.Action == a {
				n++
				break
			}
		}
	}
	return n, nil
}

func (s *memStore) SaveOrder(ctx context.Context, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.OrderID]; ok {
		return apperrors.ErrDuplicate
	}
	s.orders[order.OrderID] = order
	return nil
}

func (s *memStore) UpdateOrder(ctx context.Context, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[order.OrderID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if stored.Version != order.Version {
		return apperrors.ErrConflict
	}
	order.Version++
	s.orders[order.OrderID] = order
	return nil
}

func (s *memStore) DeleteOrder(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[orderID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.orders, orderID)
	return nil
}

// --- CartRepositoryFacade ---

func (s *memStore) findCart(match func(domain.Cart) bool) (*domain.Cart, error) {
	for _, c := range s.carts {
		if match(c) {
			c.Orders = nil
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memStore) FindCartByID(ctx context.Context, cartID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findCart(func(c domain.Cart) bool { return c.CartID == cartID })
}

func (s *memStore) FindCartByReference(ctx context.Context, reference string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findCart(func(c domain.Cart) bool { return c.CartReference == reference })
}

func (s *memStore) FindCartByPaymentReference(ctx context.Context, paymentReference string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findCart(func(c domain.Cart) bool {
		return c.PaymentReference != nil && *c.PaymentReference == paymentReference
	})
}

func (s *memStore) FindActiveCartByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findCart(func(c domain.Cart) bool { return c.UserID == userID && c.Status == domain.CartActive })
}

func (s *memStore) ListCartsByUser(ctx context.Context, userID string) ([]domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Cart
	for _, c := range s.carts {
		if c.UserID == userID {
			c.Orders = nil
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) SaveCart(ctx context.Context, cart domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCartCalls++
	if cart.Status == domain.CartActive {
		for _, c := range s.carts {
			if c.UserID == cart.UserID && c.Status == domain.CartActive {
				return apperrors.ErrDuplicate
			}
		}
	}
	cart.Orders = nil
	s.carts[cart.CartID] = cart
	return nil
}

func (s *memStore) UpdateCart(ctx context.Context, cart domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.carts[cart.CartID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if stored.Version != cart.Version {
		return apperrors.ErrConflict
	}
	cart.Version++
	cart.Orders = nil
	s.carts[cart.CartID] = cart
	return nil
}

// --- helpers ---

func (s *memStore) order(id string) domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id]
}

func (s *memStore) cart(id string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[id]
}

func (s *memStore) activeCartCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.carts {
		if c.UserID == userID && c.Status == domain.CartActive {
			n++
		}
	}
	return n
}

// recordingTracker captures analytics events.
type recordingTracker struct {
	mu     sync.Mutex
	events []string
}

func (t *recordingTracker) Enqueue(distinctID string, event string, properties map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func (t *recordingTracker) has(event string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.events {
		if e == event {
			return true
		}
	}
	return false
}
