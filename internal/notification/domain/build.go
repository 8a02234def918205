package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cast"
	"gorm.io/datatypes"
)

// AdditionalDataPrefix marks opaque attributes that Adyen sends alongside a notification.
const AdditionalDataPrefix = "additional_data."

type setter func(n *Notification, v any)

// columns is the allow-list of attributes Build may assign, keyed by column name.
var columns = map[string]setter{
	"live":                  func(n *Notification, v any) { n.Live = cast.ToBool(v) },
	"event_code":            func(n *Notification, v any) { n.EventCode = strings.TrimSpace(cast.ToString(v)) },
	"psp_reference":         func(n *Notification, v any) { n.PspReference = strings.TrimSpace(cast.ToString(v)) },
	"merchant_reference":    func(n *Notification, v any) { n.MerchantReference = cast.ToString(v) },
	"merchant_account_code": func(n *Notification, v any) { n.MerchantAccountCode = cast.ToString(v) },
	"success":               func(n *Notification, v any) { n.Success = cast.ToBool(v) },
	"payment_method":        func(n *Notification, v any) { n.PaymentMethod = cast.ToString(v) },
	"reason":                func(n *Notification, v any) { n.Reason = cast.ToString(v) },
	"currency":              func(n *Notification, v any) { n.Currency = strings.ToUpper(cast.ToString(v)) },
	"value": func(n *Notification, v any) {
		if value, err := toMinorUnits(v); err == nil {
			n.Value = value
		}
	},
	"original_reference": func(n *Notification, v any) {
		ref := cast.ToString(v)
		n.OriginalReference = &ref
	},
	"operations": func(n *Notification, v any) {
		if s, ok := v.(string); ok {
			n.Operations = s
			return
		}
		if ops, err := cast.ToStringSliceE(v); err == nil {
			n.Operations = strings.Join(ops, ",")
		}
	},
	"event_date": func(n *Notification, v any) {
		if t, err := cast.ToTimeE(v); err == nil && !t.IsZero() {
			t = t.UTC()
			n.EventDate = &t
		}
	},
	"additional_data": func(n *Notification, v any) {
		for key, value := range cast.ToStringMap(v) {
			n.setAdditionalData(key, value)
		}
	},
}

// Build assigns every recognised key of params to a new Notification.
// Keys are accepted in Adyen's camelCase ("pspReference") or in column form
// ("psp_reference"). Unknown keys and nil values are ignored. The result is
// neither normalized nor validated.
func Build(params map[string]any) *Notification {
	n := &Notification{}
	for key, value := range params {
		if value == nil {
			continue
		}
		column := Underscore(key)
		if strings.HasPrefix(column, AdditionalDataPrefix) {
			// attribute names are kept as Adyen sent them
			n.setAdditionalData(key[strings.IndexByte(key, '.')+1:], value)
			continue
		}
		if set, ok := columns[column]; ok {
			set(n, value)
		}
	}
	return n
}

// toMinorUnits accepts integral amounts only. Fractional or out of range
// input is an error rather than a truncated value.
func toMinorUnits(v any) (int64, error) {
	switch value := v.(type) {
	case json.Number:
		return strconv.ParseInt(strings.TrimSpace(value.String()), 10, 64)
	case string:
		return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	case float64:
		if value != math.Trunc(value) || value >= math.MaxInt64 || value < math.MinInt64 {
			return 0, fmt.Errorf("value %v is not an integral amount", value)
		}
		return int64(value), nil
	case float32:
		return toMinorUnits(float64(value))
	}
	return cast.ToInt64E(v)
}

func (n *Notification) setAdditionalData(key string, value any) {
	if key == "" {
		return
	}
	if n.AdditionalData == nil {
		n.AdditionalData = datatypes.JSONMap{}
	}
	n.AdditionalData[key] = value
}

// Underscore converts a mixed-case key to snake_case:
// "merchantReference" -> "merchant_reference", "HTTPStatus" -> "http_status".
// Dots are preserved so "additionalData.cardSummary" becomes
// "additional_data.card_summary".
func Underscore(key string) string {
	runes := []rune(strings.TrimSpace(key))
	var b strings.Builder
	b.Grow(len(runes) + 4)
	for i, r := range runes {
		switch {
		case r == '-' || r == ' ':
			b.WriteByte('_')
			continue
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
