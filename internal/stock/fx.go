package stock

import (
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/repository"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/service"
	"go.uber.org/fx"
)

var Module = fx.Module("stock.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
