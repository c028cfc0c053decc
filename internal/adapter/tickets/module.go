package tickets

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/ticketo/points/internal/config"
)

// Module exposes the ticket context client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	if p.Config.TicketsAddress == "" {
		return Disabled{}, nil
	}
	return NewHTTPClient(p.Config.TicketsAddress, p.Logger)
}
