package test

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ticketo/points/internal/adapter/tickets"
	domainErrors "github.com/ticketo/points/internal/domain/errors"
	"github.com/ticketo/points/internal/domain/model"
)

func pairKey(userID int64, systemID uuid.UUID) string {
	return systemID.String() + "/" + strconv.FormatInt(userID, 10)
}

// SystemRepositoryStub stores points systems in-memory for tests.
type SystemRepositoryStub struct {
	Systems map[uuid.UUID]*model.PointsSystem
	Order   []uuid.UUID
	InUse   bool
	Err     error

	DeleteFn func(context.Context, string, uuid.UUID, bool) error
}

// NewSystemRepositoryStub constructs a stub with initialized storage.
func NewSystemRepositoryStub() *SystemRepositoryStub {
	return &SystemRepositoryStub{Systems: make(map[uuid.UUID]*model.PointsSystem)}
}

func (s *SystemRepositoryStub) List(_ context.Context, tenantID string) ([]model.PointsSystem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.PointsSystem
	for i := len(s.Order) - 1; i >= 0; i-- {
		sys := s.Systems[s.Order[i]]
		if sys != nil && sys.TenantID == tenantID {
			result = append(result, *sys)
		}
	}
	return result, nil
}

func (s *SystemRepositoryStub) GetByID(_ context.Context, tenantID string, id uuid.UUID) (*model.PointsSystem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	sys, ok := s.Systems[id]
	if !ok || sys.TenantID != tenantID {
		return nil, domainErrors.ErrNotFound
	}
	copied := *sys
	return &copied, nil
}

func (s *SystemRepositoryStub) Create(_ context.Context, system *model.PointsSystem) (*model.PointsSystem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Systems == nil {
		s.Systems = make(map[uuid.UUID]*model.PointsSystem)
	}
	created := *system
	now := time.Now()
	created.CreatedAt = now
	created.UpdatedAt = now
	s.Systems[created.ID] = &created
	s.Order = append(s.Order, created.ID)
	copied := created
	return &copied, nil
}

func (s *SystemRepositoryStub) Update(_ context.Context, system *model.PointsSystem) (*model.PointsSystem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	existing, ok := s.Systems[system.ID]
	if !ok || existing.TenantID != system.TenantID {
		return nil, domainErrors.ErrNotFound
	}
	updated := *system
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	s.Systems[updated.ID] = &updated
	copied := updated
	return &copied, nil
}

func (s *SystemRepositoryStub) Delete(ctx context.Context, tenantID string, id uuid.UUID, cascade bool) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, tenantID, id, cascade)
	}
	if s.Err != nil {
		return s.Err
	}
	sys, ok := s.Systems[id]
	if !ok || sys.TenantID != tenantID {
		return domainErrors.ErrNotFound
	}
	if s.InUse && !cascade {
		return domainErrors.ErrSystemInUse
	}
	delete(s.Systems, id)
	return nil
}

// LedgerRepositoryStub keeps an in-memory ledger with materialized balances.
// Record mirrors the storage contract: append plus conditional balance update
// as one atomic unit, guarded by a mutex so concurrency tests are meaningful.
type LedgerRepositoryStub struct {
	mu       sync.Mutex
	Entries  []model.Transaction
	Balances map[string]*model.Balance
	Next     int64
	Err      error

	Drift     []model.Drift
	Repaired  []string
	HistoryFn func(context.Context, int64, *uuid.UUID, int) ([]model.Transaction, error)
}

// NewLedgerRepositoryStub constructs a stub with initialized storage.
func NewLedgerRepositoryStub() *LedgerRepositoryStub {
	return &LedgerRepositoryStub{Balances: make(map[string]*model.Balance), Next: 1}
}

func (s *LedgerRepositoryStub) append(txn *model.Transaction) *model.Transaction {
	if s.Next == 0 {
		s.Next = 1
	}
	inserted := *txn
	inserted.ID = s.Next
	s.Next++
	if inserted.OccurredAt.IsZero() {
		inserted.OccurredAt = time.Now()
	}
	s.Entries = append(s.Entries, inserted)
	return &inserted
}

func (s *LedgerRepositoryStub) Append(_ context.Context, txn *model.Transaction) (*model.Transaction, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.append(txn), nil
}

func (s *LedgerRepositoryStub) Record(_ context.Context, txn *model.Transaction) (*model.Transaction, *model.Balance, error) {
	if s.Err != nil {
		return nil, nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Balances == nil {
		s.Balances = make(map[string]*model.Balance)
	}
	key := pairKey(txn.UserID, txn.PointsSystemID)
	balance, ok := s.Balances[key]
	if !ok {
		balance = &model.Balance{UserID: txn.UserID, PointsSystemID: txn.PointsSystemID}
	}
	if balance.Balance+txn.Amount < 0 {
		return nil, nil, domainErrors.ErrInsufficientBalance
	}

	inserted := s.append(txn)
	balance.Balance += txn.Amount
	balance.LastUpdated = inserted.OccurredAt
	s.Balances[key] = balance
	copied := *balance
	return inserted, &copied, nil
}

func (s *LedgerRepositoryStub) History(ctx context.Context, userID int64, systemID *uuid.UUID, limit int) ([]model.Transaction, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, userID, systemID, limit)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.Transaction
	for i := len(s.Entries) - 1; i >= 0 && len(result) < limit; i-- {
		entry := s.Entries[i]
		if entry.UserID != userID {
			continue
		}
		if systemID != nil && entry.PointsSystemID != *systemID {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

func (s *LedgerRepositoryStub) FindDrift(context.Context, int) ([]model.Drift, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Drift, nil
}

func (s *LedgerRepositoryStub) RepairDrift(_ context.Context, userID int64, systemID uuid.UUID) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Repaired = append(s.Repaired, pairKey(userID, systemID))
	return nil
}

// Balance returns the stub's current balance for a pair.
func (s *LedgerRepositoryStub) Balance(userID int64, systemID uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.Balances[pairKey(userID, systemID)]; ok {
		return b.Balance
	}
	return 0
}

// LedgerSum replays the stub's entries for a pair.
func (s *LedgerRepositoryStub) LedgerSum(userID int64, systemID uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, entry := range s.Entries {
		if entry.UserID == userID && entry.PointsSystemID == systemID {
			sum += entry.Amount
		}
	}
	return sum
}

// BalanceRepositoryStub serves balances from an attached ledger stub so the
// two views stay consistent in tests.
type BalanceRepositoryStub struct {
	Ledger *LedgerRepositoryStub
	Names  map[uuid.UUID]string
	Err    error

	GetFn        func(context.Context, int64, uuid.UUID) (*model.Balance, error)
	ListByUserFn func(context.Context, int64) ([]model.Balance, error)
}

func (s *BalanceRepositoryStub) Get(ctx context.Context, userID int64, systemID uuid.UUID) (*model.Balance, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, userID, systemID)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.Ledger.mu.Lock()
	defer s.Ledger.mu.Unlock()
	balance, ok := s.Ledger.Balances[pairKey(userID, systemID)]
	if !ok {
		return nil, nil
	}
	copied := *balance
	copied.SystemName = s.Names[systemID]
	return &copied, nil
}

func (s *BalanceRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Balance, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.Ledger.mu.Lock()
	defer s.Ledger.mu.Unlock()
	var result []model.Balance
	for _, balance := range s.Ledger.Balances {
		if balance.UserID == userID {
			copied := *balance
			copied.SystemName = s.Names[copied.PointsSystemID]
			result = append(result, copied)
		}
	}
	return result, nil
}

func (s *BalanceRepositoryStub) ApplyDelta(ctx context.Context, userID int64, systemID uuid.UUID, delta int64) (*model.Balance, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	_, balance, err := s.Ledger.Record(ctx, &model.Transaction{UserID: userID, PointsSystemID: systemID, Amount: delta})
	return balance, err
}

// TicketsClientStub resolves ticket context from a fixed map.
type TicketsClientStub struct {
	Tickets map[int64]*model.TicketContext
	Err     error
	Calls   int
}

func (s *TicketsClientStub) Resolve(_ context.Context, ticketID int64) (*model.TicketContext, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	if ticket, ok := s.Tickets[ticketID]; ok {
		return ticket, nil
	}
	return nil, tickets.ErrTicketUnknown
}
