package metrics

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("event_code", "CAPTURE"),
		attribute.String("psp_reference", "8815"),
		attribute.String("source", "store_map"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	for _, attr := range attrs {
		if attr.Key == "psp_reference" {
			t.Fatalf("expected psp_reference to be dropped")
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordNotification(context.Background(), "AUTHORISATION", true)
	m.RecordNotificationFailure(context.Background(), "validation")
	m.RecordAccountResolution(context.Background(), "default")
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{ServiceName: "test"}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}
	m.RecordNotification(context.Background(), "CAPTURE", false)
}
