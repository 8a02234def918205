package merchantaccount

import (
	"context"
	"sync/atomic"

	"github.com/CasperSleep/solidus-adyen/internal/config"
	obsmetrics "github.com/CasperSleep/solidus-adyen/internal/observability/metrics"
	storefront "github.com/CasperSleep/solidus-adyen/internal/storefront/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Holder  *config.AccountConfigHolder
	Lookup  storefront.Repository
	Log     *zap.Logger
	Metrics *obsmetrics.Metrics `optional:"true"`
}

// Resolver serves lookups from the current Locator and swaps in a new one
// whenever the merchant account configuration is reloaded.
type Resolver struct {
	current atomic.Pointer[Locator]
	lookup  StoreLookup
	log     *zap.Logger
	metrics *obsmetrics.Metrics
}

func NewResolver(p Params) *Resolver {
	r := &Resolver{
		lookup:  p.Lookup,
		log:     p.Log.Named("merchantaccount.resolver"),
		metrics: p.Metrics,
	}
	r.apply(p.Holder.Get())
	p.Holder.OnChange(r.apply)
	return r
}

func (r *Resolver) apply(cfg config.AccountConfig) {
	r.current.Store(New(cfg.StoreAccountMap(), cfg.DefaultAccount, r.lookup))
	r.log.Info("merchant accounts loaded",
		zap.String("default_account", cfg.DefaultAccount),
		zap.Int("stores", len(cfg.Stores)),
	)
}

// Locator returns the Locator built from the latest configuration.
func (r *Resolver) Locator() *Locator {
	return r.current.Load()
}

func (r *Resolver) ByReference(ctx context.Context, pspReference string) string {
	account, source := r.Locator().byReference(ctx, pspReference)
	r.metrics.RecordAccountResolution(ctx, source)
	return account
}

func (r *Resolver) ByOrder(ctx context.Context, order *storefront.Order) string {
	account, source := r.Locator().byOrder(order)
	r.metrics.RecordAccountResolution(ctx, source)
	return account
}

func (r *Resolver) ByStoreCode(ctx context.Context, code string, store *storefront.Store) string {
	account, source := r.Locator().byStoreCode(code, store)
	r.metrics.RecordAccountResolution(ctx, source)
	return account
}
