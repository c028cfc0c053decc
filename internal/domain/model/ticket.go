package model

import "time"

// TicketContext is the receipt summary resolved from the expense application
// for display next to a ledger entry.
type TicketContext struct {
	ID          int64
	Title       string
	Total       float64
	PurchasedAt time.Time
}
