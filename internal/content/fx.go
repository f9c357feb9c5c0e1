package content

import (
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/content/service"
	"go.uber.org/fx"
)

var Module = fx.Module("content.service",
	fx.Provide(service.NewService),
)
