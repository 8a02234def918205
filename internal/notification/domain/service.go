package domain

import (
	"context"

	"github.com/CasperSleep/solidus-adyen/pkg/db/pagination"
)

type Service interface {
	// Log builds, normalizes, validates and stores one notification.
	Log(ctx context.Context, params map[string]any) (*Notification, error)
	Get(ctx context.Context, id string) (*Notification, error)
	// Previous returns the notification n follows, or nil.
	Previous(ctx context.Context, n *Notification) (*Notification, error)
	// NextEvents returns the notifications that follow n, oldest first.
	NextEvents(ctx context.Context, n *Notification) ([]Notification, error)
	List(ctx context.Context, req ListNotificationRequest) (ListNotificationResponse, error)
}

type ListNotificationRequest struct {
	MerchantReference string
	PspReference      string
	EventCode         string
	PageToken         string
	PageSize          int32
}

type ListNotificationResponse struct {
	PageInfo      pagination.PageInfo `json:"page_info"`
	Notifications []Notification      `json:"notifications"`
}
