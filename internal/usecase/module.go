package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/ticketo/points/internal/adapter/tickets"
	"github.com/ticketo/points/internal/cache"
	"github.com/ticketo/points/internal/config"
	"github.com/ticketo/points/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newRegistryUseCase,
	newPointsUseCase,
)

type registryParams struct {
	fx.In

	Systems repository.SystemRepository
	Cache   cache.Cache
	Config  *config.Config
	Logger  *slog.Logger
}

func newRegistryUseCase(p registryParams) *RegistryUseCase {
	return NewRegistryUseCase(p.Systems, p.Cache, p.Config.CacheTTL, p.Logger)
}

type pointsParams struct {
	fx.In

	Registry *RegistryUseCase
	Balances repository.BalanceRepository
	Ledger   repository.LedgerRepository
	Tickets  tickets.Client
	Config   *config.Config
	Logger   *slog.Logger
}

func newPointsUseCase(p pointsParams) *PointsUseCase {
	return NewPointsUseCase(p.Registry, p.Balances, p.Ledger, p.Tickets, p.Config.HistoryLimit, p.Logger)
}
