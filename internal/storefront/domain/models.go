package domain

import (
	"context"
	"strings"
)

// Store is the read model of a storefront row. AdyenMerchantID, when set,
// overrides any configured merchant account for the store.
type Store struct {
	ID              int64   `json:"id" gorm:"primaryKey"`
	Name            string  `json:"name"`
	Code            string  `json:"code"`
	AdyenMerchantID *string `json:"adyen_merchant_id,omitempty" gorm:"column:adyen_merchant_id"`
}

func (Store) TableName() string { return "spree_stores" }

// MerchantAccountOverride returns the trimmed store override, "" when unset.
func (s *Store) MerchantAccountOverride() string {
	if s == nil || s.AdyenMerchantID == nil {
		return ""
	}
	return strings.TrimSpace(*s.AdyenMerchantID)
}

type Order struct {
	ID      int64  `json:"id" gorm:"primaryKey"`
	Number  string `json:"number"`
	StoreID *int64 `json:"store_id,omitempty"`
	Store   *Store `json:"store,omitempty" gorm:"foreignKey:StoreID"`
}

func (Order) TableName() string { return "spree_orders" }

// Payment carries the gateway reference in ResponseCode.
type Payment struct {
	ID           int64  `json:"id" gorm:"primaryKey"`
	OrderID      int64  `json:"order_id"`
	ResponseCode string `json:"response_code"`
}

func (Payment) TableName() string { return "spree_payments" }

type Repository interface {
	FindStoreByPaymentReference(ctx context.Context, reference string) (*Store, error)
	FindOrderByNumber(ctx context.Context, number string) (*Order, error)
	FindStoreByCode(ctx context.Context, code string) (*Store, error)
}
