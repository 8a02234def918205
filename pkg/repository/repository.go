package repository

import (
	"context"

	"github.com/CasperSleep/solidus-adyen/pkg/db/option"
)

// Repository is the data-access contract shared by gorm-backed entities.
// Zero-valued fields of the query struct are ignored when filtering.
type Repository[T any] interface {
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Count(ctx context.Context, query *T, opts ...option.QueryOption) (int64, error)
}
