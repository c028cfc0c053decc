package usecase

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/ticketo/points/internal/adapter/tickets"
	"github.com/ticketo/points/internal/conversion"
	domainErrors "github.com/ticketo/points/internal/domain/errors"
	"github.com/ticketo/points/internal/domain/model"
	"github.com/ticketo/points/internal/domain/repository"
)

// discountTolerance bounds the accepted gap between a caller-supplied
// discount and the amount recomputed from the conversion rule.
const discountTolerance = 0.01

// EarnResult is the outcome of an accrual.
type EarnResult struct {
	Transaction *model.Transaction
	Balance     *model.Balance
}

// RedeemResult is the outcome of a redemption.
type RedeemResult struct {
	Transaction    *model.Transaction
	Balance        *model.Balance
	DiscountAmount float64
}

// PointsUseCase orchestrates accrual, redemption, balances and history.
type PointsUseCase struct {
	registry     *RegistryUseCase
	balances     repository.BalanceRepository
	ledger       repository.LedgerRepository
	tickets      tickets.Client
	historyLimit int
	logger       *slog.Logger
}

// NewPointsUseCase constructs PointsUseCase.
func NewPointsUseCase(registry *RegistryUseCase, balances repository.BalanceRepository, ledger repository.LedgerRepository, ticketsClient tickets.Client, historyLimit int, logger *slog.Logger) *PointsUseCase {
	return &PointsUseCase{
		registry:     registry,
		balances:     balances,
		ledger:       ledger,
		tickets:      ticketsClient,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// Earn converts a purchase amount into points and credits them. A purchase
// too small to earn points still records a zero-amount transaction.
func (u *PointsUseCase) Earn(ctx context.Context, tenantID string, userID int64, systemID uuid.UUID, amount float64, ticketID *int64, description string) (*EarnResult, error) {
	system, err := u.registry.GetSystem(ctx, tenantID, systemID)
	if err != nil {
		return nil, err
	}
	if !system.Enabled {
		return nil, domainErrors.ErrSystemDisabled
	}
	if amount < 0 {
		return nil, domainErrors.ErrInvalidAmount
	}

	points := conversion.PointsForAmount(amount, system)

	txn, balance, err := u.ledger.Record(ctx, &model.Transaction{
		UserID:         userID,
		PointsSystemID: systemID,
		Amount:         points,
		TicketID:       ticketID,
		Description:    description,
	})
	if err != nil {
		return nil, err
	}
	return &EarnResult{Transaction: txn, Balance: balance}, nil
}

// Redeem debits points against a system. The discount is recomputed from the
// conversion rule; a caller-supplied value off by more than the rounding
// tolerance is rejected. The conditional balance update inside Record
// guarantees that concurrent redemptions cannot jointly overdraw.
func (u *PointsUseCase) Redeem(ctx context.Context, tenantID string, userID int64, systemID uuid.UUID, points int64, discountAmount float64, ticketID *int64, description string) (*RedeemResult, error) {
	system, err := u.registry.GetSystem(ctx, tenantID, systemID)
	if err != nil {
		return nil, err
	}
	if !system.Enabled {
		return nil, domainErrors.ErrSystemDisabled
	}
	if !system.AvailableForRedemption {
		return nil, domainErrors.ErrNotRedeemable
	}
	if points <= 0 {
		return nil, domainErrors.ErrInvalidAmount
	}

	expected := conversion.AmountForPoints(points, system)
	if math.Abs(expected-discountAmount) > discountTolerance {
		return nil, domainErrors.ErrDiscountMismatch
	}

	txn, balance, err := u.ledger.Record(ctx, &model.Transaction{
		UserID:         userID,
		PointsSystemID: systemID,
		Amount:         -points,
		TicketID:       ticketID,
		Description:    description,
	})
	if err != nil {
		return nil, err
	}
	return &RedeemResult{Transaction: txn, Balance: balance, DiscountAmount: discountAmount}, nil
}

// Balances returns the user's balances, optionally narrowed to one system.
// A pair with no balance row yet simply yields no entry.
func (u *PointsUseCase) Balances(ctx context.Context, userID int64, systemID *uuid.UUID) ([]model.Balance, error) {
	if systemID == nil {
		return u.balances.ListByUser(ctx, userID)
	}

	balance, err := u.balances.Get(ctx, userID, *systemID)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, nil
	}
	return []model.Balance{*balance}, nil
}

// History returns ledger entries newest first, decorated with ticket context
// when the expense app is reachable. Decoration is best effort.
func (u *PointsUseCase) History(ctx context.Context, userID int64, systemID *uuid.UUID, limit int) ([]model.Transaction, error) {
	if limit <= 0 || limit > u.historyLimit {
		limit = u.historyLimit
	}

	history, err := u.ledger.History(ctx, userID, systemID, limit)
	if err != nil {
		return nil, err
	}

	resolved := make(map[int64]*model.TicketContext)
	for i := range history {
		ticketID := history[i].TicketID
		if ticketID == nil {
			continue
		}
		if ticket, ok := resolved[*ticketID]; ok {
			history[i].Ticket = ticket
			continue
		}
		ticket, err := u.tickets.Resolve(ctx, *ticketID)
		if err != nil {
			if errors.Is(err, tickets.ErrNotConfigured) {
				break
			}
			if !errors.Is(err, tickets.ErrTicketUnknown) {
				u.logger.Warn("ticket context lookup failed", slog.Int64("ticket_id", *ticketID), slog.String("error", err.Error()))
			}
			continue
		}
		resolved[*ticketID] = ticket
		history[i].Ticket = ticket
	}

	return history, nil
}

// DriftReport returns pairs whose balance disagrees with the ledger.
func (u *PointsUseCase) DriftReport(ctx context.Context, limit int) ([]model.Drift, error) {
	return u.ledger.FindDrift(ctx, limit)
}

// RepairDrift rewrites a pair's balance from its ledger sum.
func (u *PointsUseCase) RepairDrift(ctx context.Context, userID int64, systemID uuid.UUID) error {
	return u.ledger.RepairDrift(ctx, userID, systemID)
}
