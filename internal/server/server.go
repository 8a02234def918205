package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/CasperSleep/solidus-adyen/internal/config"
	"github.com/CasperSleep/solidus-adyen/internal/merchantaccount"
	notificationdomain "github.com/CasperSleep/solidus-adyen/internal/notification/domain"
	"github.com/CasperSleep/solidus-adyen/internal/observability"
	obsmiddleware "github.com/CasperSleep/solidus-adyen/internal/observability/logger"
	obsmetrics "github.com/CasperSleep/solidus-adyen/internal/observability/metrics"
	obstracing "github.com/CasperSleep/solidus-adyen/internal/observability/tracing"
	storefrontdomain "github.com/CasperSleep/solidus-adyen/internal/storefront/domain"
	"github.com/CasperSleep/solidus-adyen/internal/webhook"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	if httpMetrics != nil {
		r.Use(obsmetrics.GinMiddleware(httpMetrics))
	}
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

// NotificationIngester stores the items of an Adyen notification callback.
type NotificationIngester interface {
	Ingest(ctx context.Context, contentType string, body []byte) (webhook.IngestResult, error)
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	notificationSvc notificationdomain.Service
	ingester        NotificationIngester
	accounts        *merchantaccount.Resolver
	storefront      storefrontdomain.Repository
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	NotificationSvc notificationdomain.Service
	Webhook         *webhook.Service
	Accounts        *merchantaccount.Resolver
	Storefront      storefrontdomain.Repository
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		notificationSvc: p.NotificationSvc,
		ingester:        p.Webhook,
		accounts:        p.Accounts,
		storefront:      p.Storefront,
	}
	svc.RegisterRoutes()
	return svc
}

func (s *Server) RegisterRoutes() {
	adyen := s.engine.Group("/adyen")
	if s.cfg.Adyen.BasicAuthEnabled() {
		adyen.Use(gin.BasicAuthForRealm(gin.Accounts{
			s.cfg.Adyen.NotifyUser: s.cfg.Adyen.NotifyPassword,
		}, "adyen"))
	}
	adyen.POST("/notifications", s.HandleAdyenNotification)

	api := s.engine.Group("/api")
	api.GET("/notifications", s.ListNotifications)
	api.GET("/notifications/:id", s.GetNotification)
	api.GET("/merchant-accounts/resolve", s.ResolveMerchantAccount)
}
