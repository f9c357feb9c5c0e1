package invoice

import (
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/invoice/repository"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
