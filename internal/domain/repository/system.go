package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ticketo/points/internal/domain/model"
)

// SystemRepository persists points-system configurations.
type SystemRepository interface {
	List(ctx context.Context, tenantID string) ([]model.PointsSystem, error)
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.PointsSystem, error)
	Create(ctx context.Context, system *model.PointsSystem) (*model.PointsSystem, error)
	Update(ctx context.Context, system *model.PointsSystem) (*model.PointsSystem, error)
	Delete(ctx context.Context, tenantID string, id uuid.UUID, cascade bool) error
}
