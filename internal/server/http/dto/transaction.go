package dto

import (
	"time"

	"github.com/ticketo/points/internal/domain/model"
)

// TicketDTO carries the purchase context attached to a ledger entry.
type TicketDTO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Total       float64   `json:"total"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// TransactionResponse describes one ledger entry.
type TransactionResponse struct {
	ID             int64          `json:"id"`
	PointsSystemID string         `json:"points_system_id"`
	SystemName     string         `json:"system_name,omitempty"`
	Amount         int64          `json:"amount"`
	TicketID       *int64         `json:"ticket_id,omitempty"`
	Description    string         `json:"description,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	OccurredAt     time.Time      `json:"occurred_at"`
	Ticket         *TicketDTO     `json:"ticket,omitempty"`
}

// TransactionResponseFrom maps a domain ledger entry to its response shape.
func TransactionResponseFrom(txn *model.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:             txn.ID,
		PointsSystemID: txn.PointsSystemID.String(),
		SystemName:     txn.SystemName,
		Amount:         txn.Amount,
		TicketID:       txn.TicketID,
		Description:    txn.Description,
		Metadata:       txn.Metadata,
		OccurredAt:     txn.OccurredAt,
	}
	if txn.Ticket != nil {
		resp.Ticket = &TicketDTO{
			ID:          txn.Ticket.ID,
			Title:       txn.Ticket.Title,
			Total:       txn.Ticket.Total,
			PurchasedAt: txn.Ticket.PurchasedAt,
		}
	}
	return resp
}
