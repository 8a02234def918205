package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CasperSleep/solidus-adyen/internal/clock"
	"github.com/CasperSleep/solidus-adyen/internal/notification/domain"
	obsmetrics "github.com/CasperSleep/solidus-adyen/internal/observability/metrics"
	"github.com/CasperSleep/solidus-adyen/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	c := p.Clock
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("notification.service"),
		genID:   p.GenID,
		clock:   c,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Log(ctx context.Context, params map[string]any) (*domain.Notification, error) {
	n := domain.Build(params)
	n.Normalize()
	if err := n.Validate(); err != nil {
		s.metrics.RecordNotificationFailure(ctx, "validation")
		return nil, err
	}

	now := s.clock.Now()
	n.ID = s.genID.Generate()
	n.CreatedAt = now
	n.UpdatedAt = now

	if err := s.repo.Insert(ctx, s.db, n); err != nil {
		if errors.Is(err, domain.ErrDuplicateNotification) {
			s.metrics.RecordNotificationFailure(ctx, "duplicate")
			s.log.Info("duplicate notification ignored",
				zap.String("event_code", n.EventCode),
				zap.String("psp_reference", n.PspReference),
				zap.Bool("success", n.Success),
			)
			return nil, err
		}
		s.metrics.RecordNotificationFailure(ctx, "persistence")
		s.log.Error("failed to store notification",
			zap.String("event_code", n.EventCode),
			zap.String("psp_reference", n.PspReference),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	s.metrics.RecordNotification(ctx, n.EventCode, n.Success)
	s.log.Info("notification stored",
		zap.String("notification_id", n.ID.String()),
		zap.String("event_code", n.EventCode),
		zap.String("psp_reference", n.PspReference),
		zap.Bool("success", n.Success),
	)
	return n, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Notification, error) {
	nid, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || nid == 0 {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, nid)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) Previous(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	if n == nil || !n.HasOriginalReference() {
		return nil, nil
	}

	item, err := s.repo.FindFirstByPspReference(ctx, s.db, *n.OriginalReference)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return item, nil
}

func (s *Service) NextEvents(ctx context.Context, n *domain.Notification) ([]domain.Notification, error) {
	if n == nil || strings.TrimSpace(n.PspReference) == "" {
		return []domain.Notification{}, nil
	}

	items, err := s.repo.ListByOriginalReference(ctx, s.db, n.PspReference)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	events := make([]domain.Notification, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		events = append(events, *item)
	}
	return events, nil
}

func (s *Service) List(ctx context.Context, req domain.ListNotificationRequest) (domain.ListNotificationResponse, error) {
	page := pagination.Pagination{
		PageToken: strings.TrimSpace(req.PageToken),
		PageSize:  int(req.PageSize),
	}
	pageSize := int32(page.Size())

	items, err := s.repo.List(ctx, s.db, domain.ListNotificationFilter{
		MerchantReference: req.MerchantReference,
		PspReference:      req.PspReference,
		EventCode:         req.EventCode,
	}, page)
	if err != nil {
		return domain.ListNotificationResponse{}, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(n *domain.Notification) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        n.ID.String(),
			CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	notifications := make([]domain.Notification, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		notifications = append(notifications, *item)
	}

	resp := domain.ListNotificationResponse{Notifications: notifications}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
		if !resp.PageInfo.HasMore {
			resp.PageInfo.NextPageToken = ""
		}
	}
	return resp, nil
}
