package merchantaccount

import "go.uber.org/fx"

var Module = fx.Module("merchantaccount",
	fx.Provide(NewResolver),
)
