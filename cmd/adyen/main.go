package main

import (
	"github.com/CasperSleep/solidus-adyen/internal/clock"
	"github.com/CasperSleep/solidus-adyen/internal/config"
	"github.com/CasperSleep/solidus-adyen/internal/merchantaccount"
	"github.com/CasperSleep/solidus-adyen/internal/migration"
	"github.com/CasperSleep/solidus-adyen/internal/notification"
	"github.com/CasperSleep/solidus-adyen/internal/observability"
	"github.com/CasperSleep/solidus-adyen/internal/server"
	"github.com/CasperSleep/solidus-adyen/internal/storefront"
	"github.com/CasperSleep/solidus-adyen/internal/webhook"
	"github.com/CasperSleep/solidus-adyen/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional Domains
		notification.Module,
		storefront.Module,
		merchantaccount.Module,
		webhook.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
