package config

import "go.uber.org/fx"

// Module wires application and rates configuration.
var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewRatesHolder),
)
