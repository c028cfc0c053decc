package model

import (
	"time"

	"github.com/google/uuid"
)

// Balance is the materialized point total for one (user, system) pair.
// The ledger is authoritative; a balance row must always equal the sum of the
// pair's transaction amounts.
type Balance struct {
	UserID         int64
	PointsSystemID uuid.UUID
	SystemName     string
	Balance        int64
	LastUpdated    time.Time
}

// Drift is a balance row that disagrees with its ledger sum.
type Drift struct {
	UserID         int64
	PointsSystemID uuid.UUID
	Balance        int64
	LedgerSum      int64
}
