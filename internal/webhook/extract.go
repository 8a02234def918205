package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"net/url"
	"strings"
)

var (
	ErrInvalidPayload         = errors.New("invalid_payload")
	ErrUnsupportedContentType = errors.New("unsupported_content_type")
	ErrEmptyNotificationBatch = errors.New("empty_notification_batch")
)

const (
	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeJSON = "application/json"
)

type adyenNotificationRoot struct {
	Live              any                     `json:"live"`
	NotificationItems []adyenNotificationItem `json:"notificationItems"`
}

type adyenNotificationItem struct {
	NotificationRequestItem adyenNotificationRequestItem `json:"NotificationRequestItem"`
}

type adyenNotificationRequestItem struct {
	AdditionalData      map[string]any `json:"additionalData"`
	Amount              *adyenAmount   `json:"amount"`
	EventCode           string         `json:"eventCode"`
	EventDate           string         `json:"eventDate"`
	MerchantAccountCode string         `json:"merchantAccountCode"`
	MerchantReference   string         `json:"merchantReference"`
	OriginalReference   string         `json:"originalReference"`
	PspReference        string         `json:"pspReference"`
	PaymentMethod       string         `json:"paymentMethod"`
	Operations          []string       `json:"operations"`
	Reason              string         `json:"reason"`
	Success             string         `json:"success"` // "true" or "false"
}

type adyenAmount struct {
	Currency string      `json:"currency"`
	Value    json.Number `json:"value"`
}

// Extract turns an Adyen HTTP notification body into one flat parameter map
// per notification item, keyed the way Adyen names the fields.
// Form posts carry a single item; JSON posts carry a notificationItems batch.
func Extract(contentType string, body []byte) ([]map[string]any, error) {
	switch mediaType(contentType, body) {
	case contentTypeForm:
		return extractForm(body)
	case contentTypeJSON:
		return extractJSON(body)
	default:
		return nil, ErrUnsupportedContentType
	}
}

func mediaType(contentType string, body []byte) string {
	if strings.TrimSpace(contentType) == "" {
		if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '{' {
			return contentTypeJSON
		}
		return contentTypeForm
	}
	parsed, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed)
}

func extractForm(body []byte) ([]map[string]any, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, ErrInvalidPayload
	}
	if len(values) == 0 {
		return nil, ErrEmptyNotificationBatch
	}

	params := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		params[key] = vals[0]
	}
	return []map[string]any{params}, nil
}

func extractJSON(body []byte) ([]map[string]any, error) {
	var root adyenNotificationRoot
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&root); err != nil {
		return nil, ErrInvalidPayload
	}
	if len(root.NotificationItems) == 0 {
		return nil, ErrEmptyNotificationBatch
	}

	items := make([]map[string]any, 0, len(root.NotificationItems))
	for _, wrapper := range root.NotificationItems {
		items = append(items, wrapper.NotificationRequestItem.params(root.Live))
	}
	return items, nil
}

func (item adyenNotificationRequestItem) params(live any) map[string]any {
	params := map[string]any{
		"eventCode":           item.EventCode,
		"pspReference":        item.PspReference,
		"originalReference":   item.OriginalReference,
		"merchantReference":   item.MerchantReference,
		"merchantAccountCode": item.MerchantAccountCode,
		"paymentMethod":       item.PaymentMethod,
		"reason":              item.Reason,
		"success":             item.Success,
	}
	if live != nil {
		params["live"] = live
	}
	if item.EventDate != "" {
		params["eventDate"] = item.EventDate
	}
	if len(item.Operations) > 0 {
		params["operations"] = strings.Join(item.Operations, ",")
	}
	if item.Amount != nil {
		params["currency"] = item.Amount.Currency
		if item.Amount.Value != "" {
			params["value"] = item.Amount.Value
		}
	}
	for key, value := range item.AdditionalData {
		params["additionalData."+key] = value
	}
	return params
}
