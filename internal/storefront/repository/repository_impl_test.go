package repository_test

import (
	"context"
	"testing"

	"github.com/CasperSleep/solidus-adyen/internal/storefront/repository"
	"github.com/CasperSleep/solidus-adyen/pkg/db"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE spree_stores (
			id BIGINT PRIMARY KEY,
			name TEXT,
			code TEXT,
			adyen_merchant_id TEXT
		)`,
		`CREATE TABLE spree_orders (
			id BIGINT PRIMARY KEY,
			number TEXT NOT NULL,
			store_id BIGINT
		)`,
		`CREATE TABLE spree_payments (
			id BIGINT PRIMARY KEY,
			order_id BIGINT NOT NULL,
			response_code TEXT
		)`,
		`INSERT INTO spree_stores (id, name, code, adyen_merchant_id) VALUES
			(1, 'US Store', 'us', NULL),
			(2, 'EU Store', 'eu', 'MerchantOverride')`,
		`INSERT INTO spree_orders (id, number, store_id) VALUES
			(10, 'R100', 1),
			(11, 'R200', 2),
			(12, 'R300', NULL)`,
		`INSERT INTO spree_payments (id, order_id, response_code) VALUES
			(100, 10, 'PSP-US'),
			(101, 11, 'PSP-EU'),
			(102, 12, 'PSP-ORPHAN')`,
	}
	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("schema: %v", err)
		}
	}
	return conn
}

func TestFindStoreByPaymentReference(t *testing.T) {
	ctx := context.Background()
	repo := repository.Provide(setupTestDB(t))

	store, err := repo.FindStoreByPaymentReference(ctx, "PSP-EU")
	if err != nil {
		t.Fatalf("find store: %v", err)
	}
	if store == nil || store.Code != "eu" {
		t.Fatalf("expected eu store, got %+v", store)
	}
	if store.MerchantAccountOverride() != "MerchantOverride" {
		t.Fatalf("expected override, got %q", store.MerchantAccountOverride())
	}

	store, err = repo.FindStoreByPaymentReference(ctx, "PSP-US")
	if err != nil {
		t.Fatalf("find store: %v", err)
	}
	if store == nil || store.Code != "us" || store.MerchantAccountOverride() != "" {
		t.Fatalf("expected us store without override, got %+v", store)
	}
}

func TestFindStoreByPaymentReferenceMissing(t *testing.T) {
	ctx := context.Background()
	repo := repository.Provide(setupTestDB(t))

	for _, ref := range []string{"", "UNKNOWN", "PSP-ORPHAN"} {
		store, err := repo.FindStoreByPaymentReference(ctx, ref)
		if err != nil {
			t.Fatalf("find store %q: %v", ref, err)
		}
		if store != nil {
			t.Fatalf("expected no store for %q, got %+v", ref, store)
		}
	}
}

func TestFindOrderByNumberPreloadsStore(t *testing.T) {
	ctx := context.Background()
	repo := repository.Provide(setupTestDB(t))

	order, err := repo.FindOrderByNumber(ctx, "R100")
	if err != nil {
		t.Fatalf("find order: %v", err)
	}
	if order == nil || order.Store == nil || order.Store.Code != "us" {
		t.Fatalf("expected order with us store, got %+v", order)
	}

	order, err = repo.FindOrderByNumber(ctx, "R300")
	if err != nil {
		t.Fatalf("find order: %v", err)
	}
	if order == nil || order.Store != nil {
		t.Fatalf("expected order without store, got %+v", order)
	}

	order, err = repo.FindOrderByNumber(ctx, "R999")
	if err != nil {
		t.Fatalf("find order: %v", err)
	}
	if order != nil {
		t.Fatalf("expected nil order, got %+v", order)
	}
}

func TestFindStoreByCode(t *testing.T) {
	ctx := context.Background()
	repo := repository.Provide(setupTestDB(t))

	store, err := repo.FindStoreByCode(ctx, "eu")
	if err != nil {
		t.Fatalf("find store: %v", err)
	}
	if store == nil || store.ID != 2 {
		t.Fatalf("expected eu store, got %+v", store)
	}

	store, err = repo.FindStoreByCode(ctx, "mx")
	if err != nil {
		t.Fatalf("find store: %v", err)
	}
	if store != nil {
		t.Fatalf("expected nil store, got %+v", store)
	}
}
