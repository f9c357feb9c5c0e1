package account

import (
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/account/repository"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/account/service"
	"go.uber.org/fx"
)

var Module = fx.Module("account.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
