package trip

import (
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/trip/service"
	"go.uber.org/fx"
)

var Module = fx.Module("trip.service",
	fx.Provide(service.NewService),
)
