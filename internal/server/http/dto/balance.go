package dto

import (
	"time"

	"github.com/ticketo/points/internal/domain/model"
)

// BalanceResponse describes a user's balance in one points system.
type BalanceResponse struct {
	PointsSystemID string    `json:"points_system_id"`
	SystemName     string    `json:"system_name,omitempty"`
	Balance        int64     `json:"balance"`
	LastUpdated    time.Time `json:"last_updated"`
}

// BalanceResponseFrom maps a domain balance to its response shape.
func BalanceResponseFrom(balance *model.Balance) BalanceResponse {
	return BalanceResponse{
		PointsSystemID: balance.PointsSystemID.String(),
		SystemName:     balance.SystemName,
		Balance:        balance.Balance,
		LastUpdated:    balance.LastUpdated,
	}
}
