package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ticketo/points/internal/cache"
	"github.com/ticketo/points/internal/domain/model"
	"github.com/ticketo/points/internal/domain/repository"
)

// RegistryUseCase manages points-system configurations for a tenant, with a
// read-through cache in front of the hot earn/redeem lookups.
type RegistryUseCase struct {
	systems  repository.SystemRepository
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewRegistryUseCase constructs RegistryUseCase.
func NewRegistryUseCase(systems repository.SystemRepository, c cache.Cache, cacheTTL time.Duration, logger *slog.Logger) *RegistryUseCase {
	return &RegistryUseCase{systems: systems, cache: c, cacheTTL: cacheTTL, logger: logger}
}

func systemCacheKey(tenantID string, id uuid.UUID) string {
	return fmt.Sprintf("points:system:%s:%s", tenantID, id)
}

// List returns the tenant's systems, newest first.
func (u *RegistryUseCase) List(ctx context.Context, tenantID string) ([]model.PointsSystem, error) {
	return u.systems.List(ctx, tenantID)
}

// Create validates and persists a new points system.
func (u *RegistryUseCase) Create(ctx context.Context, tenantID string, system model.PointsSystem) (*model.PointsSystem, error) {
	system.ID = uuid.New()
	system.TenantID = tenantID
	system.Tiers = NormalizeTiers(system.Tiers)
	if err := ValidateSystemConfig(&system); err != nil {
		return nil, err
	}
	return u.systems.Create(ctx, &system)
}

// Update merges a partial change, revalidates the result and persists it.
func (u *RegistryUseCase) Update(ctx context.Context, tenantID string, id uuid.UUID, update *model.SystemUpdate) (*model.PointsSystem, error) {
	existing, err := u.systems.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	merged := ApplySystemUpdate(existing, update)
	merged.Tiers = NormalizeTiers(merged.Tiers)
	if err := ValidateSystemConfig(merged); err != nil {
		return nil, err
	}

	updated, err := u.systems.Update(ctx, merged)
	if err != nil {
		return nil, err
	}
	u.invalidate(ctx, tenantID, id)
	return updated, nil
}

// Delete removes a system. Without cascade it is refused while balances or
// transactions still reference it.
func (u *RegistryUseCase) Delete(ctx context.Context, tenantID string, id uuid.UUID, cascade bool) error {
	if err := u.systems.Delete(ctx, tenantID, id, cascade); err != nil {
		return err
	}
	u.invalidate(ctx, tenantID, id)
	return nil
}

// GetSystem loads one system through the cache.
func (u *RegistryUseCase) GetSystem(ctx context.Context, tenantID string, id uuid.UUID) (*model.PointsSystem, error) {
	key := systemCacheKey(tenantID, id)

	var cached model.PointsSystem
	err := cache.GetJSON(ctx, u.cache, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		u.logger.Warn("system cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	system, err := u.systems.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, u.cache, key, system, u.cacheTTL); err != nil {
		u.logger.Warn("system cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return system, nil
}

func (u *RegistryUseCase) invalidate(ctx context.Context, tenantID string, id uuid.UUID) {
	key := systemCacheKey(tenantID, id)
	if err := u.cache.Delete(ctx, key); err != nil {
		u.logger.Warn("system cache invalidation failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
