package server

import (
	"net/http"
	"strings"

	notificationdomain "github.com/CasperSleep/solidus-adyen/internal/notification/domain"
	storefrontdomain "github.com/CasperSleep/solidus-adyen/internal/storefront/domain"
	"github.com/CasperSleep/solidus-adyen/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type notificationView struct {
	*notificationdomain.Notification
	Previous   *notificationdomain.Notification  `json:"previous"`
	NextEvents []notificationdomain.Notification `json:"next_events"`
	Order      *storefrontdomain.Order           `json:"order,omitempty"`
}

func (s *Server) ListNotifications(c *gin.Context) {
	var query struct {
		pagination.Pagination
		MerchantReference string `form:"merchant_reference"`
		PspReference      string `form:"psp_reference"`
		EventCode         string `form:"event_code"`
	}

	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.notificationSvc.List(c.Request.Context(), notificationdomain.ListNotificationRequest{
		MerchantReference: strings.TrimSpace(query.MerchantReference),
		PspReference:      strings.TrimSpace(query.PspReference),
		EventCode:         strings.TrimSpace(query.EventCode),
		PageToken:         query.PageToken,
		PageSize:          int32(query.PageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      resp.Notifications,
		"page_info": resp.PageInfo,
	})
}

func (s *Server) GetNotification(c *gin.Context) {
	ctx := c.Request.Context()

	n, err := s.notificationSvc.Get(ctx, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	previous, err := s.notificationSvc.Previous(ctx, n)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	next, err := s.notificationSvc.NextEvents(ctx, n)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	view := notificationView{
		Notification: n,
		Previous:     previous,
		NextEvents:   next,
	}
	if s.storefront != nil {
		order, err := s.storefront.FindOrderByNumber(ctx, n.MerchantReference)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		view.Order = order
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}
