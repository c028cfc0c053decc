package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/ticketo/points/internal/domain/model"
	"github.com/ticketo/points/internal/usecase"
)

// PointsFacade aggregates the use cases behind the HTTP handlers and the
// reconciliation worker.
type PointsFacade struct {
	registry *usecase.RegistryUseCase
	points   *usecase.PointsUseCase
}

// NewPointsFacade constructs PointsFacade.
func NewPointsFacade(registry *usecase.RegistryUseCase, points *usecase.PointsUseCase) *PointsFacade {
	return &PointsFacade{registry: registry, points: points}
}

func (f *PointsFacade) Systems(ctx context.Context, tenantID string) ([]model.PointsSystem, error) {
	return f.registry.List(ctx, tenantID)
}

func (f *PointsFacade) CreateSystem(ctx context.Context, tenantID string, system model.PointsSystem) (*model.PointsSystem, error) {
	return f.registry.Create(ctx, tenantID, system)
}

func (f *PointsFacade) UpdateSystem(ctx context.Context, tenantID string, id uuid.UUID, update *model.SystemUpdate) (*model.PointsSystem, error) {
	return f.registry.Update(ctx, tenantID, id, update)
}

func (f *PointsFacade) DeleteSystem(ctx context.Context, tenantID string, id uuid.UUID, cascade bool) error {
	return f.registry.Delete(ctx, tenantID, id, cascade)
}

func (f *PointsFacade) Earn(ctx context.Context, tenantID string, userID int64, systemID uuid.UUID, amount float64, ticketID *int64, description string) (*usecase.EarnResult, error) {
	return f.points.Earn(ctx, tenantID, userID, systemID, amount, ticketID, description)
}

func (f *PointsFacade) Redeem(ctx context.Context, tenantID string, userID int64, systemID uuid.UUID, points int64, discountAmount float64, ticketID *int64, description string) (*usecase.RedeemResult, error) {
	return f.points.Redeem(ctx, tenantID, userID, systemID, points, discountAmount, ticketID, description)
}

func (f *PointsFacade) Balances(ctx context.Context, userID int64, systemID *uuid.UUID) ([]model.Balance, error) {
	return f.points.Balances(ctx, userID, systemID)
}

func (f *PointsFacade) History(ctx context.Context, userID int64, systemID *uuid.UUID, limit int) ([]model.Transaction, error) {
	return f.points.History(ctx, userID, systemID, limit)
}

func (f *PointsFacade) DriftReport(ctx context.Context, limit int) ([]model.Drift, error) {
	return f.points.DriftReport(ctx, limit)
}

func (f *PointsFacade) RepairDrift(ctx context.Context, userID int64, systemID uuid.UUID) error {
	return f.points.RepairDrift(ctx, userID, systemID)
}
