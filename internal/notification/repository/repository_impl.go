package repository

import (
	"context"
	"strings"

	"github.com/CasperSleep/solidus-adyen/internal/notification/domain"
	"github.com/CasperSleep/solidus-adyen/pkg/db"
	"github.com/CasperSleep/solidus-adyen/pkg/db/option"
	"github.com/CasperSleep/solidus-adyen/pkg/db/pagination"
	"github.com/CasperSleep/solidus-adyen/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func store(db *gorm.DB) repository.Repository[domain.Notification] {
	return repository.ProvideStore[domain.Notification](db)
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, n *domain.Notification) error {
	if err := store(conn).Create(ctx, n); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrDuplicateNotification
		}
		return err
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Notification, error) {
	return store(conn).FindOne(ctx, nil, option.WithWhere("id = ?", id))
}

func (r *repo) FindFirstByPspReference(ctx context.Context, conn *gorm.DB, pspReference string) (*domain.Notification, error) {
	return store(conn).FindOne(ctx, nil,
		option.WithWhere("psp_reference = ?", pspReference),
		option.WithOrder("created_at ASC, id ASC"),
	)
}

func (r *repo) ListByOriginalReference(ctx context.Context, conn *gorm.DB, originalReference string) ([]*domain.Notification, error) {
	return store(conn).Find(ctx, nil,
		option.WithWhere("original_reference = ?", originalReference),
		option.WithOrder("created_at ASC, id ASC"),
	)
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListNotificationFilter, page pagination.Pagination) ([]*domain.Notification, error) {
	opts := make([]option.QueryOption, 0, 5)
	if v := strings.TrimSpace(filter.MerchantReference); v != "" {
		opts = append(opts, option.WithWhere("merchant_reference = ?", v))
	}
	if v := strings.TrimSpace(filter.PspReference); v != "" {
		opts = append(opts, option.WithWhere("psp_reference = ?", v))
	}
	if v := strings.TrimSpace(filter.EventCode); v != "" {
		opts = append(opts, option.WithWhere("event_code = ?", strings.ToUpper(v)))
	}
	opts = append(opts,
		option.ApplyPagination(page),
		option.WithOrder("created_at DESC, id DESC"),
	)
	return store(conn).Find(ctx, nil, opts...)
}
