package sumup

import "go.uber.org/fx"

var Module = fx.Module("sumup.client",
	fx.Provide(NewClient),
)
