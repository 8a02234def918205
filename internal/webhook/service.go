package webhook

import (
	"context"
	"errors"

	notificationdomain "github.com/CasperSleep/solidus-adyen/internal/notification/domain"
	"github.com/CasperSleep/solidus-adyen/internal/observability/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log             *zap.Logger
	NotificationSvc notificationdomain.Service
}

type Service struct {
	log             *zap.Logger
	notificationSvc notificationdomain.Service
	tracer          trace.Tracer
}

// IngestResult reports what happened to the items of one callback.
type IngestResult struct {
	Stored     []*notificationdomain.Notification
	Duplicates int
}

func NewService(p Params) *Service {
	return &Service{
		log:             p.Log.Named("webhook.service"),
		notificationSvc: p.NotificationSvc,
		tracer:          otel.Tracer("github.com/CasperSleep/solidus-adyen/internal/webhook"),
	}
}

// Ingest stores every notification item of an Adyen callback body.
// Items already stored are acknowledged without error. Any other failure
// aborts the batch so Adyen delivers it again.
func (s *Service) Ingest(ctx context.Context, contentType string, body []byte) (IngestResult, error) {
	ctx, span := s.tracer.Start(ctx, "adyen.notifications.ingest")
	defer span.End()

	items, err := Extract(contentType, body)
	if err != nil {
		span.RecordError(tracing.SafeError(err))
		span.SetStatus(codes.Error, "extract failed")
		return IngestResult{}, err
	}
	span.SetAttributes(tracing.SafeAttributes(attribute.Int("adyen.items", len(items)))...)

	var result IngestResult
	for _, params := range items {
		n, err := s.notificationSvc.Log(ctx, params)
		if errors.Is(err, notificationdomain.ErrDuplicateNotification) {
			result.Duplicates++
			continue
		}
		if err != nil {
			span.RecordError(tracing.SafeError(err))
			span.SetStatus(codes.Error, "store failed")
			s.log.Warn("notification rejected",
				zap.Any("event_code", params["eventCode"]),
				zap.Any("psp_reference", params["pspReference"]),
				zap.Error(err),
			)
			return result, err
		}
		result.Stored = append(result.Stored, n)
	}

	return result, nil
}
