package merchantaccount

import (
	"context"
	"strings"

	obslogger "github.com/CasperSleep/solidus-adyen/internal/observability/logger"
	storefront "github.com/CasperSleep/solidus-adyen/internal/storefront/domain"
	"go.uber.org/zap"
)

// Resolution tiers, reported as the source of a resolved account.
const (
	SourceStoreOverride = "store_override"
	SourceStoreMap      = "store_map"
	SourceDefault       = "default"
)

// StoreLookup finds the store that owns the payment with the given gateway reference.
// A nil store with a nil error means no such payment.
type StoreLookup interface {
	FindStoreByPaymentReference(ctx context.Context, reference string) (*storefront.Store, error)
}

// Locator picks the Adyen merchant account for a store. It is immutable once built.
type Locator struct {
	storeAccountMap map[string]string
	defaultAccount  string
	lookup          StoreLookup
}

// New copies storeAccountMap so later changes by the caller are not observed.
func New(storeAccountMap map[string]string, defaultAccount string, lookup StoreLookup) *Locator {
	accounts := make(map[string]string, len(storeAccountMap))
	for code, account := range storeAccountMap {
		accounts[code] = account
	}
	return &Locator{
		storeAccountMap: accounts,
		defaultAccount:  defaultAccount,
		lookup:          lookup,
	}
}

func (l *Locator) DefaultAccount() string { return l.defaultAccount }

// ByReference resolves the account of the store that owns the payment whose
// response code is pspReference. Unknown references resolve to the default.
func (l *Locator) ByReference(ctx context.Context, pspReference string) string {
	account, _ := l.byReference(ctx, pspReference)
	return account
}

// ByOrder resolves the account of the order's store.
func (l *Locator) ByOrder(order *storefront.Order) string {
	account, _ := l.byOrder(order)
	return account
}

// ByStoreCode returns, in order of precedence, the store's own non-blank
// merchant id, the configured account for a non-empty code (even when that
// account is empty), or the default account.
func (l *Locator) ByStoreCode(code string, store *storefront.Store) string {
	account, _ := l.byStoreCode(code, store)
	return account
}

func (l *Locator) byReference(ctx context.Context, pspReference string) (string, string) {
	var store *storefront.Store
	if l.lookup != nil && strings.TrimSpace(pspReference) != "" {
		found, err := l.lookup.FindStoreByPaymentReference(ctx, pspReference)
		if err != nil {
			obslogger.FromContext(ctx).Warn("store lookup failed, using default merchant account",
				zap.String("psp_reference", pspReference),
				zap.Error(err),
			)
		} else {
			store = found
		}
	}
	return l.byStore(store)
}

func (l *Locator) byOrder(order *storefront.Order) (string, string) {
	if order == nil {
		return l.byStore(nil)
	}
	return l.byStore(order.Store)
}

func (l *Locator) byStore(store *storefront.Store) (string, string) {
	if store == nil {
		return l.byStoreCode("", nil)
	}
	return l.byStoreCode(store.Code, store)
}

func (l *Locator) byStoreCode(code string, store *storefront.Store) (string, string) {
	if override := store.MerchantAccountOverride(); override != "" {
		return override, SourceStoreOverride
	}
	if code != "" {
		if account, ok := l.storeAccountMap[code]; ok {
			return account, SourceStoreMap
		}
	}
	return l.defaultAccount, SourceDefault
}
