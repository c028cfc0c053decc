package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ticketo/points/internal/domain/model"
)

// BalanceRepository manages materialized per-(user, system) balances.
type BalanceRepository interface {
	// Get returns nil without error when no balance row exists yet.
	Get(ctx context.Context, userID int64, systemID uuid.UUID) (*model.Balance, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Balance, error)
	// ApplyDelta adds delta to the stored balance in a single conditional
	// statement, creating the row on first accrual. A negative delta that
	// would drive the balance below zero fails with ErrInsufficientBalance.
	ApplyDelta(ctx context.Context, userID int64, systemID uuid.UUID, delta int64) (*model.Balance, error)
}
