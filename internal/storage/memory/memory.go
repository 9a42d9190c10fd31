// Package memory provides a map-backed implementation of storage.Store.
// It keeps everything in process memory behind a single mutex, which makes
// it the natural backing for tests and for embedding the engine without a
// database file.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nik-bond/pizzatg/internal/models"
	"github.com/nik-bond/pizzatg/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

type debtKey struct {
	debtor   string
	creditor string
	chatID   int64
}

// MemoryStore implements storage.Store with in-process maps. The mutex
// serializes individual calls; data is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	orders   map[string]models.Order
	debts    map[debtKey]models.Debt
	payments []models.Payment
	users    map[string]models.User
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		orders: make(map[string]models.Order),
		debts:  make(map[debtKey]models.Debt),
		users:  make(map[string]models.User),
	}
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// PutOrder persists a new order and registers its participants as users.
func (s *MemoryStore) PutOrder(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID == "" {
		order.ID = models.NewOrderID()
	}
	if order.CreatedAt == 0 {
		order.CreatedAt = time.Now().Unix()
	}

	for _, participant := range order.Participants {
		s.ensureUserLocked(participant)
	}
	if order.CreatedBy != "" {
		s.ensureUserLocked(order.CreatedBy)
	}

	s.orders[order.ID] = *order
	return nil
}

// GetOrder retrieves an order by ID. Returns (nil, nil) when absent.
func (s *MemoryStore) GetOrder(_ context.Context, orderID string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

// ListOrders returns all orders in a chat, newest first.
func (s *MemoryStore) ListOrders(_ context.Context, chatID int64) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orders []models.Order
	for _, order := range s.orders {
		if order.ChatID == chatID {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt != orders[j].CreatedAt {
			return orders[i].CreatedAt > orders[j].CreatedAt
		}
		return orders[i].ID < orders[j].ID
	})
	return orders, nil
}

// LastOrderByCreator returns the most recent order submitted by the given
// user in a chat. Returns (nil, nil) when there is none.
func (s *MemoryStore) LastOrderByCreator(_ context.Context, creator string, chatID int64) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var last *models.Order
	for id := range s.orders {
		order := s.orders[id]
		if order.CreatedBy != creator || order.ChatID != chatID {
			continue
		}
		if last == nil || order.CreatedAt > last.CreatedAt ||
			(order.CreatedAt == last.CreatedAt && order.ID > last.ID) {
			last = &order
		}
	}
	return last, nil
}

// DeleteOrder removes an order by ID.
func (s *MemoryStore) DeleteOrder(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.orders, orderID)
	return nil
}

// PutDebt upserts a single debt.
func (s *MemoryStore) PutDebt(ctx context.Context, debt *models.Debt) error {
	return s.PutDebts(ctx, []*models.Debt{debt})
}

// PutDebts upserts a batch of debts atomically: the lock is held for the
// whole batch and map writes cannot fail partway.
func (s *MemoryStore) PutDebts(_ context.Context, debts []*models.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, debt := range debts {
		s.ensureUserLocked(debt.Debtor)
		s.ensureUserLocked(debt.Creditor)
		s.debts[debtKey{debt.Debtor, debt.Creditor, debt.ChatID}] = *debt
	}
	return nil
}

// GetDebt retrieves the live debt for (debtor, creditor, chat).
// Returns (nil, nil) when absent.
func (s *MemoryStore) GetDebt(_ context.Context, debtor, creditor string, chatID int64) (*models.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	debt, ok := s.debts[debtKey{debtor, creditor, chatID}]
	if !ok {
		return nil, nil
	}
	return &debt, nil
}

// ListDebtsByDebtor returns all debts owed by the user in a chat.
func (s *MemoryStore) ListDebtsByDebtor(_ context.Context, debtor string, chatID int64) ([]models.Debt, error) {
	return s.filterDebts(func(d models.Debt) bool {
		return d.Debtor == debtor && d.ChatID == chatID
	}), nil
}

// ListDebtsByCreditor returns all debts owed to the user in a chat.
func (s *MemoryStore) ListDebtsByCreditor(_ context.Context, creditor string, chatID int64) ([]models.Debt, error) {
	return s.filterDebts(func(d models.Debt) bool {
		return d.Creditor == creditor && d.ChatID == chatID
	}), nil
}

// ListAllDebts returns every debt in a chat.
func (s *MemoryStore) ListAllDebts(_ context.Context, chatID int64) ([]models.Debt, error) {
	return s.filterDebts(func(d models.Debt) bool {
		return d.ChatID == chatID
	}), nil
}

// DeleteDebt removes the debt for (debtor, creditor, chat).
func (s *MemoryStore) DeleteDebt(_ context.Context, debtor, creditor string, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.debts, debtKey{debtor, creditor, chatID})
	return nil
}

// PutPayment appends a payment record.
func (s *MemoryStore) PutPayment(_ context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if payment.ID == "" {
		payment.ID = models.NewPaymentID()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}
	s.ensureUserLocked(payment.Debtor)
	s.ensureUserLocked(payment.Creditor)
	s.payments = append(s.payments, *payment)
	return nil
}

// ListPaymentsByDebtor returns payments made by the user in a chat,
// newest first.
func (s *MemoryStore) ListPaymentsByDebtor(_ context.Context, debtor string, chatID int64) ([]models.Payment, error) {
	return s.filterPayments(func(p models.Payment) bool {
		return p.Debtor == debtor && p.ChatID == chatID
	}), nil
}

// ListPaymentsByCreditor returns payments received by the user in a chat,
// newest first.
func (s *MemoryStore) ListPaymentsByCreditor(_ context.Context, creditor string, chatID int64) ([]models.Payment, error) {
	return s.filterPayments(func(p models.Payment) bool {
		return p.Creditor == creditor && p.ChatID == chatID
	}), nil
}

// EnsureUser registers a handle if it is not known yet.
func (s *MemoryStore) EnsureUser(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureUserLocked(username)
	return nil
}

// UserExists reports whether the handle has been registered.
func (s *MemoryStore) UserExists(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[username]
	return ok, nil
}

func (s *MemoryStore) ensureUserLocked(username string) {
	if _, ok := s.users[username]; !ok {
		s.users[username] = models.User{Username: username, CreatedAt: time.Now().Unix()}
	}
}

func (s *MemoryStore) filterDebts(keep func(models.Debt) bool) []models.Debt {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var debts []models.Debt
	for _, debt := range s.debts {
		if keep(debt) {
			debts = append(debts, debt)
		}
	}
	sort.Slice(debts, func(i, j int) bool {
		if debts[i].Debtor != debts[j].Debtor {
			return debts[i].Debtor < debts[j].Debtor
		}
		return debts[i].Creditor < debts[j].Creditor
	})
	return debts
}

func (s *MemoryStore) filterPayments(keep func(models.Payment) bool) []models.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payments []models.Payment
	for _, payment := range s.payments {
		if keep(payment) {
			payments = append(payments, payment)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		if payments[i].CreatedAt != payments[j].CreatedAt {
			return payments[i].CreatedAt > payments[j].CreatedAt
		}
		return payments[i].ID < payments[j].ID
	})
	return payments
}
