package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/CasperSleep/solidus-adyen/internal/storefront/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

// FindStoreByPaymentReference returns the store owning the order of the payment
// whose response_code is reference, or nil when there is none.
func (r *repo) FindStoreByPaymentReference(ctx context.Context, reference string) (*domain.Store, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, nil
	}

	var store domain.Store
	err := r.db.WithContext(ctx).
		Table("spree_stores").
		Select("spree_stores.*").
		Joins("JOIN spree_orders ON spree_orders.store_id = spree_stores.id").
		Joins("JOIN spree_payments ON spree_payments.order_id = spree_orders.id").
		Where("spree_payments.response_code = ?", reference).
		Order("spree_payments.id ASC").
		Take(&store).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

func (r *repo) FindOrderByNumber(ctx context.Context, number string) (*domain.Order, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, nil
	}

	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Store").
		Where("number = ?", number).
		Take(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repo) FindStoreByCode(ctx context.Context, code string) (*domain.Store, error) {
	if strings.TrimSpace(code) == "" {
		return nil, nil
	}

	var store domain.Store
	err := r.db.WithContext(ctx).Where("code = ?", code).Take(&store).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}
