package dto

// EarnRequest describes an accrual payload.
type EarnRequest struct {
	SystemID    string  `json:"system_id"`
	Amount      float64 `json:"amount"`
	TicketID    *int64  `json:"ticket_id,omitempty"`
	Description string  `json:"description,omitempty"`
}

// EarnResponse describes the outcome of an accrual.
type EarnResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Balance     BalanceResponse     `json:"balance"`
}

// RedeemRequest describes a redemption payload. The discount the caller
// expects is part of the request and is verified server side.
type RedeemRequest struct {
	SystemID       string  `json:"system_id"`
	Points         int64   `json:"points"`
	DiscountAmount float64 `json:"discount_amount"`
	TicketID       *int64  `json:"ticket_id,omitempty"`
	Description    string  `json:"description,omitempty"`
}

// RedeemResponse describes the outcome of a redemption.
type RedeemResponse struct {
	Transaction    TransactionResponse `json:"transaction"`
	Balance        BalanceResponse     `json:"balance"`
	DiscountAmount float64             `json:"discount_amount"`
}

// ErrorResponse carries a machine-readable rejection reason.
type ErrorResponse struct {
	Error string `json:"error"`
}
