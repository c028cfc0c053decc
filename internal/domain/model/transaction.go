package model

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is an append-only ledger entry. Positive amounts are accruals,
// negative amounts are redemptions. Rows are never mutated; corrections are
// made with offsetting entries.
type Transaction struct {
	ID             int64
	UserID         int64
	PointsSystemID uuid.UUID
	Amount         int64
	TicketID       *int64
	Description    string
	Metadata       map[string]any
	OccurredAt     time.Time

	// Display context filled in by reads, not stored on the row.
	SystemName string
	Ticket     *TicketContext
}
