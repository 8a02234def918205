package tracing

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsUnknownKeys(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/adyen/notifications"),
		attribute.String("shopper.email", "a@example.com"),
		attribute.String("adyen.event_code", "CAPTURE"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	for _, attr := range attrs {
		if attr.Key == "shopper.email" {
			t.Fatalf("expected shopper.email to be dropped")
		}
	}
}

func TestSafeErrorNil(t *testing.T) {
	if SafeError(nil) != nil {
		t.Fatalf("expected nil error")
	}
}
