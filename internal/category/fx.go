package category

import (
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/category/service"
	"go.uber.org/fx"
)

var Module = fx.Module("category.service",
	fx.Provide(service.NewService),
)
