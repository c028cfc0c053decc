package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/ticketo/points/internal/domain/model"
	"github.com/ticketo/points/internal/usecase"
)

// RegistryFacade describes points-system management exposed via HTTP.
type RegistryFacade interface {
	Systems(ctx context.Context, tenantID string) ([]model.PointsSystem, error)
	CreateSystem(ctx context.Context, tenantID string, system model.PointsSystem) (*model.PointsSystem, error)
	UpdateSystem(ctx context.Context, tenantID string, id uuid.UUID, update *model.SystemUpdate) (*model.PointsSystem, error)
	DeleteSystem(ctx context.Context, tenantID string, id uuid.UUID, cascade bool) error
}

// AccountFacade provides balance, history, accrual and redemption operations.
type AccountFacade interface {
	Earn(ctx context.Context, tenantID string, userID int64, systemID uuid.UUID, amount float64, ticketID *int64, description string) (*usecase.EarnResult, error)
	Redeem(ctx context.Context, tenantID string, userID int64, systemID uuid.UUID, points int64, discountAmount float64, ticketID *int64, description string) (*usecase.RedeemResult, error)
	Balances(ctx context.Context, userID int64, systemID *uuid.UUID) ([]model.Balance, error)
	History(ctx context.Context, userID int64, systemID *uuid.UUID, limit int) ([]model.Transaction, error)
}

// ServiceFacade aggregates the full set of operations used across handlers.
type ServiceFacade interface {
	RegistryFacade
	AccountFacade
}
