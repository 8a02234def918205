package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnderscore(t *testing.T) {
	tests := map[string]string{
		"eventCode":                  "event_code",
		"pspReference":               "psp_reference",
		"merchantAccountCode":        "merchant_account_code",
		"psp_reference":              "psp_reference",
		"live":                       "live",
		"HTTPStatus":                 "http_status",
		"additionalData.cardSummary": "additional_data.card_summary",
		"value2Minor":                "value2_minor",
		"merchant-reference":         "merchant_reference",
	}
	for in, want := range tests {
		assert.Equal(t, want, Underscore(in), in)
	}
}

func TestBuildAssignsKnownFields(t *testing.T) {
	n := Build(map[string]any{
		"live":                "false",
		"eventCode":           "AUTHORISATION",
		"pspReference":        "8813000000000001",
		"originalReference":   "",
		"merchantReference":   "R123456",
		"merchantAccountCode": "MerchantUS",
		"eventDate":           "2024-03-01T10:15:00+01:00",
		"success":             "true",
		"paymentMethod":       "visa",
		"operations":          "CANCEL,CAPTURE,REFUND",
		"reason":              "048206:1111:03/2030",
		"currency":            "eur",
		"value":               "1000",
	})

	assert.False(t, n.Live)
	assert.Equal(t, "AUTHORISATION", n.EventCode)
	assert.Equal(t, "8813000000000001", n.PspReference)
	require.NotNil(t, n.OriginalReference)
	assert.Equal(t, "", *n.OriginalReference)
	assert.Equal(t, "R123456", n.MerchantReference)
	assert.Equal(t, "MerchantUS", n.MerchantAccountCode)
	require.NotNil(t, n.EventDate)
	assert.True(t, n.EventDate.Equal(time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC)))
	assert.True(t, n.Success)
	assert.Equal(t, "visa", n.PaymentMethod)
	assert.Equal(t, "CANCEL,CAPTURE,REFUND", n.Operations)
	assert.Equal(t, "EUR", n.Currency)
	assert.Equal(t, int64(1000), n.Value)
}

func TestBuildIgnoresUnknownKeys(t *testing.T) {
	n := Build(map[string]any{
		"eventCode":    "CAPTURE",
		"pspReference": "X",
		"id":           "999",
		"createdAt":    "2020-01-01T00:00:00Z",
		"madeUpField":  "ignored",
		"reason":       nil,
	})

	assert.Equal(t, "CAPTURE", n.EventCode)
	assert.Equal(t, "X", n.PspReference)
	assert.Zero(t, n.ID)
	assert.True(t, n.CreatedAt.IsZero())
	assert.Empty(t, n.Reason)
	assert.Nil(t, n.AdditionalData)
}

func TestBuildCoercesJSONValues(t *testing.T) {
	n := Build(map[string]any{
		"eventCode":    "REFUND",
		"pspReference": "P1",
		"success":      true,
		"live":         true,
		"value":        json.Number("2599"),
		"operations":   []any{"CANCEL", "REFUND"},
		"additionalData": map[string]any{
			"cardSummary": "1111",
		},
		"additionalData.authCode": "048206",
	})

	assert.True(t, n.Success)
	assert.True(t, n.Live)
	assert.Equal(t, int64(2599), n.Value)
	assert.Equal(t, "CANCEL,REFUND", n.Operations)
	assert.Equal(t, "1111", n.AdditionalData["cardSummary"])
	assert.Equal(t, "048206", n.AdditionalData["authCode"])
}

func TestBuildValueAcceptsIntegralAmountsOnly(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int64
	}{
		{name: "string", value: "1000", want: 1000},
		{name: "padded string", value: " 750 ", want: 750},
		{name: "json number", value: json.Number("2599"), want: 2599},
		{name: "int", value: 500, want: 500},
		{name: "integral float", value: float64(1200), want: 1200},
		{name: "fractional json number", value: json.Number("10.5"), want: 0},
		{name: "fractional string", value: "12.50", want: 0},
		{name: "fractional float", value: 10.5, want: 0},
		{name: "overflowing json number", value: json.Number("99999999999999999999"), want: 0},
		{name: "overflowing float", value: 1e20, want: 0},
		{name: "not a number", value: "abc", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Build(map[string]any{"value": tt.value})
			assert.Equal(t, tt.want, n.Value)
		})
	}
}

func TestHasOriginalReference(t *testing.T) {
	blank, ref := " ", "AUTH-1"
	assert.False(t, (&Notification{}).HasOriginalReference())
	assert.False(t, (&Notification{OriginalReference: &blank}).HasOriginalReference())
	assert.True(t, (&Notification{OriginalReference: &ref}).HasOriginalReference())
}

func TestNormalizeBlankOriginalReference(t *testing.T) {
	for _, ref := range []string{"", "   "} {
		n := Build(map[string]any{"originalReference": ref})
		n.Normalize()
		assert.Nil(t, n.OriginalReference, "%q should normalize to absent", ref)
	}

	n := Build(map[string]any{"originalReference": "AUTH-1"})
	n.Normalize()
	require.NotNil(t, n.OriginalReference)
	assert.Equal(t, "AUTH-1", *n.OriginalReference)
}

func TestValidate(t *testing.T) {
	err := Build(map[string]any{"eventCode": "AUTHORISATION"}).Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(err, ErrMissingPspReference))
	assert.False(t, errors.Is(err, ErrMissingEventCode))

	err = Build(map[string]any{}).Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"eventCode", "pspReference"}, verr.Fields)

	assert.NoError(t, Build(map[string]any{"eventCode": "CAPTURE", "pspReference": "P"}).Validate())
}

func TestPredicates(t *testing.T) {
	auth := &Notification{EventCode: EventCodeAuthorisation, Success: true}
	assert.True(t, auth.IsAuthorisation())
	assert.True(t, auth.IsAuthorization())
	assert.True(t, auth.IsSuccessfulAuthorisation())
	assert.False(t, auth.IsCapture())

	failed := &Notification{EventCode: EventCodeAuthorisation}
	assert.False(t, failed.IsSuccessfulAuthorisation())

	capture := &Notification{EventCode: EventCodeCapture}
	assert.True(t, capture.IsCapture())
	assert.False(t, capture.IsAuthorisation())

	assert.True(t, (&Notification{EventCode: EventCodeRefund}).IsRefund())
	assert.True(t, (&Notification{EventCode: EventCodeCancelOrRefund}).IsCancelOrRefund())
	assert.True(t, (&Notification{EventCode: EventCodeReportAvailable}).IsReportAvailable())
	assert.False(t, (&Notification{EventCode: "authorisation"}).IsAuthorisation())
}
