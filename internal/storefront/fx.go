package storefront

import (
	"github.com/CasperSleep/solidus-adyen/internal/storefront/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("storefront",
	fx.Provide(repository.Provide),
)
