package entry

import (
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/entry/repository"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/entry/service"
	"go.uber.org/fx"
)

var Module = fx.Module("entry.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
