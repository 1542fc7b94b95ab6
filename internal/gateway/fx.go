package gateway

import "go.uber.org/fx"

// Module assembles the registry from every handler tagged into the
// "gateways" group.
var Module = fx.Module("gateway.registry",
	fx.Provide(
		fx.Annotate(
			func(handlers []Handler) *Registry { return NewRegistry(handlers...) },
			fx.ParamTags(`group:"gateways"`),
		),
	),
)
