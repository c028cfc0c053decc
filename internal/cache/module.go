package cache

import (
	"context"

	"go.uber.org/fx"

	"github.com/ticketo/points/internal/config"
)

// Module provides the config cache, Redis backed when an address is set.
var Module = fx.Options(
	fx.Provide(newCache),
	fx.Invoke(registerLifecycle),
)

type cacheParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
}

func newCache(p cacheParams) (Cache, error) {
	if p.Config.RedisAddress == "" {
		return NewMemoryCache(), nil
	}
	return NewRedisCache(p.Ctx, p.Config.RedisAddress)
}

func registerLifecycle(lc fx.Lifecycle, c Cache) {
	redisCache, ok := c.(*RedisCache)
	if !ok {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return redisCache.Close()
		},
	})
}
