package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Systems() SystemRepository
	Balances() BalanceRepository
	Ledger() LedgerRepository
}
