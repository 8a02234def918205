package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Notification is a single Adyen notification item as received on the HTTP callback.
// Follow-up events (CAPTURE, REFUND, ...) point at the AUTHORISATION they belong to
// through OriginalReference = PspReference.
type Notification struct {
	ID                  snowflake.ID      `json:"id" gorm:"primaryKey"`
	Live                bool              `json:"live" gorm:"not null;default:false"`
	EventCode           string            `json:"event_code" gorm:"type:varchar(64);not null;uniqueIndex:ux_adyen_notifications_event,priority:2"`
	PspReference        string            `json:"psp_reference" gorm:"type:varchar(64);not null;uniqueIndex:ux_adyen_notifications_event,priority:1"`
	OriginalReference   *string           `json:"original_reference,omitempty" gorm:"type:varchar(64);index"`
	MerchantReference   string            `json:"merchant_reference" gorm:"type:varchar(255);index"`
	MerchantAccountCode string            `json:"merchant_account_code" gorm:"type:varchar(255)"`
	EventDate           *time.Time        `json:"event_date,omitempty"`
	Success             bool              `json:"success" gorm:"not null;default:false;uniqueIndex:ux_adyen_notifications_event,priority:3"`
	PaymentMethod       string            `json:"payment_method" gorm:"type:varchar(64)"`
	Operations          string            `json:"operations" gorm:"type:varchar(255)"`
	Reason              string            `json:"reason" gorm:"type:text"`
	Currency            string            `json:"currency" gorm:"type:varchar(3)"`
	Value               int64             `json:"value"`
	AdditionalData      datatypes.JSONMap `json:"additional_data,omitempty"`
	CreatedAt           time.Time         `json:"created_at" gorm:"not null"`
	UpdatedAt           time.Time         `json:"updated_at" gorm:"not null"`
}

func (Notification) TableName() string { return "adyen_notifications" }

const (
	EventCodeAuthorisation            = "AUTHORISATION"
	EventCodeAuthorisationAdjustment  = "AUTHORISATION_ADJUSTMENT"
	EventCodeCapture                  = "CAPTURE"
	EventCodeCaptureFailed            = "CAPTURE_FAILED"
	EventCodeCancellation             = "CANCELLATION"
	EventCodeTechnicalCancel          = "TECHNICAL_CANCEL"
	EventCodeRefund                   = "REFUND"
	EventCodeRefundFailed             = "REFUND_FAILED"
	EventCodeRefundedReversed         = "REFUNDED_REVERSED"
	EventCodeCancelOrRefund           = "CANCEL_OR_REFUND"
	EventCodeChargeback               = "CHARGEBACK"
	EventCodeChargebackReversed       = "CHARGEBACK_REVERSED"
	EventCodeNotificationOfChargeback = "NOTIFICATION_OF_CHARGEBACK"
	EventCodePending                  = "PENDING"
	EventCodeOfferClosed              = "OFFER_CLOSED"
	EventCodeReportAvailable          = "REPORT_AVAILABLE"
)

func (n *Notification) IsAuthorisation() bool { return n.EventCode == EventCodeAuthorisation }

// IsAuthorization is the US spelling of IsAuthorisation.
func (n *Notification) IsAuthorization() bool { return n.IsAuthorisation() }

func (n *Notification) IsSuccessfulAuthorisation() bool { return n.IsAuthorisation() && n.Success }

func (n *Notification) IsCapture() bool        { return n.EventCode == EventCodeCapture }
func (n *Notification) IsCaptureFailed() bool  { return n.EventCode == EventCodeCaptureFailed }
func (n *Notification) IsCancellation() bool   { return n.EventCode == EventCodeCancellation }
func (n *Notification) IsRefund() bool         { return n.EventCode == EventCodeRefund }
func (n *Notification) IsRefundFailed() bool   { return n.EventCode == EventCodeRefundFailed }
func (n *Notification) IsCancelOrRefund() bool { return n.EventCode == EventCodeCancelOrRefund }
func (n *Notification) IsChargeback() bool     { return n.EventCode == EventCodeChargeback }
func (n *Notification) IsPending() bool        { return n.EventCode == EventCodePending }
func (n *Notification) IsOfferClosed() bool    { return n.EventCode == EventCodeOfferClosed }
func (n *Notification) IsReportAvailable() bool {
	return n.EventCode == EventCodeReportAvailable
}

// HasOriginalReference reports whether n follows another notification.
func (n *Notification) HasOriginalReference() bool {
	return n.OriginalReference != nil && strings.TrimSpace(*n.OriginalReference) != ""
}

// Normalize resets a blank original reference to absent so the
// original_reference = psp_reference join never matches on "".
func (n *Notification) Normalize() {
	if n.OriginalReference != nil && strings.TrimSpace(*n.OriginalReference) == "" {
		n.OriginalReference = nil
	}
}

// Validate checks the fields every stored notification must carry.
func (n *Notification) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(n.EventCode) == "" {
		verr.Fields = append(verr.Fields, "eventCode")
		verr.causes = append(verr.causes, ErrMissingEventCode)
	}
	if strings.TrimSpace(n.PspReference) == "" {
		verr.Fields = append(verr.Fields, "pspReference")
		verr.causes = append(verr.causes, ErrMissingPspReference)
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
