package domain

import (
	"context"

	"github.com/CasperSleep/solidus-adyen/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Insert returns ErrDuplicateNotification when the unique
	// (psp_reference, event_code, success) index rejects the row.
	Insert(ctx context.Context, db *gorm.DB, n *Notification) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Notification, error)
	FindFirstByPspReference(ctx context.Context, db *gorm.DB, pspReference string) (*Notification, error)
	ListByOriginalReference(ctx context.Context, db *gorm.DB, originalReference string) ([]*Notification, error)
	List(ctx context.Context, db *gorm.DB, filter ListNotificationFilter, page pagination.Pagination) ([]*Notification, error)
}

type ListNotificationFilter struct {
	MerchantReference string
	PspReference      string
	EventCode         string
}
