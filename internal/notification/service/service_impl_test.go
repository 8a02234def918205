package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CasperSleep/solidus-adyen/internal/clock"
	"github.com/CasperSleep/solidus-adyen/internal/notification/domain"
	"github.com/CasperSleep/solidus-adyen/internal/notification/repository"
	"github.com/CasperSleep/solidus-adyen/internal/notification/service"
	"github.com/CasperSleep/solidus-adyen/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	clock *clock.FakeClock
	svc   domain.Service
}

func setup(t *testing.T) fixture {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&domain.Notification{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := service.New(service.Params{
		DB:    conn,
		Log:   zaptest.NewLogger(t),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
	})
	return fixture{db: conn, clock: fake, svc: svc}
}

func (f fixture) log(t *testing.T, params map[string]any) *domain.Notification {
	t.Helper()
	n, err := f.svc.Log(context.Background(), params)
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	return n
}

func TestLogStoresNotification(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	n := f.log(t, map[string]any{
		"eventCode":         "AUTHORISATION",
		"pspReference":      "PSP-AUTH",
		"originalReference": "",
		"merchantReference": "R100",
		"success":           "true",
		"value":             "1000",
		"currency":          "EUR",
		"unknownKey":        "dropped",
	})
	require.NotNil(t, n)
	assert.NotZero(t, n.ID)
	assert.Nil(t, n.OriginalReference)
	assert.True(t, n.IsAuthorisation())

	stored, err := f.svc.Get(ctx, n.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "PSP-AUTH", stored.PspReference)
	assert.Equal(t, "R100", stored.MerchantReference)
	assert.Nil(t, stored.OriginalReference)
	assert.Equal(t, int64(1000), stored.Value)
	assert.True(t, stored.Success)

	var nulls int64
	require.NoError(t, f.db.Table("adyen_notifications").Where("original_reference IS NULL").Count(&nulls).Error)
	assert.Equal(t, int64(1), nulls)
}

func TestLogRejectsMissingRequiredFields(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Log(ctx, map[string]any{"pspReference": "PSP-1"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.True(t, errors.Is(err, domain.ErrMissingEventCode))

	_, err = f.svc.Log(ctx, map[string]any{"eventCode": "CAPTURE"})
	assert.True(t, errors.Is(err, domain.ErrMissingPspReference))

	var count int64
	require.NoError(t, f.db.Model(&domain.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLogRejectsDuplicate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	params := map[string]any{"eventCode": "AUTHORISATION", "pspReference": "PSP-DUP", "success": "true"}

	f.log(t, params)
	_, err := f.svc.Log(ctx, params)
	assert.True(t, errors.Is(err, domain.ErrDuplicateNotification))
	assert.True(t, errors.Is(err, domain.ErrPersistence))

	// a failed authorisation with the same reference is a different event
	f.log(t, map[string]any{"eventCode": "AUTHORISATION", "pspReference": "PSP-DUP", "success": "false"})
}

func TestPreviousAndNextEvents(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	auth := f.log(t, map[string]any{"eventCode": "AUTHORISATION", "pspReference": "A", "success": "true"})
	capture := f.log(t, map[string]any{"eventCode": "CAPTURE", "pspReference": "C", "originalReference": "A"})
	refund := f.log(t, map[string]any{"eventCode": "REFUND", "pspReference": "R", "originalReference": "A"})

	prev, err := f.svc.Previous(ctx, capture)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, auth.ID, prev.ID)

	prev, err = f.svc.Previous(ctx, auth)
	require.NoError(t, err)
	assert.Nil(t, prev)

	next, err := f.svc.NextEvents(ctx, auth)
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, capture.ID, next[0].ID)
	assert.Equal(t, refund.ID, next[1].ID)

	next, err = f.svc.NextEvents(ctx, capture)
	require.NoError(t, err)
	assert.Empty(t, next)
}

func TestPreviousUnmatchedReference(t *testing.T) {
	f := setup(t)

	orphan := f.log(t, map[string]any{"eventCode": "CAPTURE", "pspReference": "C", "originalReference": "MISSING"})
	prev, err := f.svc.Previous(context.Background(), orphan)
	require.NoError(t, err)
	assert.Nil(t, prev)
}

func TestPreviousIgnoresBlankReference(t *testing.T) {
	f := setup(t)
	f.log(t, map[string]any{"eventCode": "AUTHORISATION", "pspReference": "A"})

	blank := "  "
	prev, err := f.svc.Previous(context.Background(), &domain.Notification{EventCode: "CAPTURE", PspReference: "C", OriginalReference: &blank})
	require.NoError(t, err)
	assert.Nil(t, prev)
}

func TestPreviousPicksEarliestMatch(t *testing.T) {
	f := setup(t)

	first := f.log(t, map[string]any{"eventCode": "AUTHORISATION", "pspReference": "A", "success": "false"})
	f.log(t, map[string]any{"eventCode": "AUTHORISATION", "pspReference": "A", "success": "true"})
	capture := f.log(t, map[string]any{"eventCode": "CAPTURE", "pspReference": "C", "originalReference": "A"})

	prev, err := f.svc.Previous(context.Background(), capture)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, first.ID, prev.ID)
}

func TestGetErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, "not-a-number")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = f.svc.Get(ctx, "12345")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPaginates(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, ref := range []string{"P1", "P2", "P3"} {
		f.log(t, map[string]any{"eventCode": "AUTHORISATION", "pspReference": ref, "merchantReference": "R1"})
	}
	f.log(t, map[string]any{"eventCode": "AUTHORISATION", "pspReference": "OTHER", "merchantReference": "R2"})

	page, err := f.svc.List(ctx, domain.ListNotificationRequest{MerchantReference: "R1", PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Notifications, 2)
	assert.Equal(t, "P3", page.Notifications[0].PspReference)
	assert.Equal(t, "P2", page.Notifications[1].PspReference)
	assert.True(t, page.PageInfo.HasMore)
	require.NotEmpty(t, page.PageInfo.NextPageToken)

	page, err = f.svc.List(ctx, domain.ListNotificationRequest{
		MerchantReference: "R1",
		PageSize:          2,
		PageToken:         page.PageInfo.NextPageToken,
	})
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, "P1", page.Notifications[0].PspReference)
	assert.False(t, page.PageInfo.HasMore)
	assert.Empty(t, page.PageInfo.NextPageToken)
}
