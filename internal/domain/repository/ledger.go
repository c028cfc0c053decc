package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ticketo/points/internal/domain/model"
)

// LedgerRepository provides access to the append-only transaction log.
type LedgerRepository interface {
	Append(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	// Record appends the entry and applies its amount to the pair's balance
	// inside one database transaction. Either both halves commit or neither;
	// a redemption that would overdraw fails with ErrInsufficientBalance and
	// leaves no ledger entry behind.
	Record(ctx context.Context, txn *model.Transaction) (*model.Transaction, *model.Balance, error)
	History(ctx context.Context, userID int64, systemID *uuid.UUID, limit int) ([]model.Transaction, error)
	// FindDrift returns balance rows that disagree with their ledger sums.
	FindDrift(ctx context.Context, limit int) ([]model.Drift, error)
	// RepairDrift rewrites one balance from its ledger sum.
	RepairDrift(ctx context.Context, userID int64, systemID uuid.UUID) error
}
