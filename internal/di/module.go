package di

import (
	"go.uber.org/fx"

	"github.com/ticketo/points/internal/adapter/tickets"
	"github.com/ticketo/points/internal/app"
	"github.com/ticketo/points/internal/cache"
	"github.com/ticketo/points/internal/config"
	"github.com/ticketo/points/internal/logger"
	"github.com/ticketo/points/internal/server/http/handlers"
	"github.com/ticketo/points/internal/server/http/router"
	"github.com/ticketo/points/internal/storage/postgres"
	"github.com/ticketo/points/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		cache.Module,
		postgres.Module,
		tickets.Module,
		usecase.Module,
		fx.Provide(func(facade *app.PointsFacade) handlers.ServiceFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
