package observability

import (
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/observability/metrics"
	"go.uber.org/fx"
)

// Module wires the HTTP metrics collectors.
var Module = fx.Module("observability",
	fx.Provide(metrics.NewHTTPMetrics),
)
