package notification

import (
	"github.com/CasperSleep/solidus-adyen/internal/notification/repository"
	"github.com/CasperSleep/solidus-adyen/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
