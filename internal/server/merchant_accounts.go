package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ResolveMerchantAccount answers which merchant account applies to a payment
// reference, an order number or a store code. Exactly one must be given.
func (s *Server) ResolveMerchantAccount(c *gin.Context) {
	ctx := c.Request.Context()
	pspReference := strings.TrimSpace(c.Query("psp_reference"))
	orderNumber := strings.TrimSpace(c.Query("order_number"))
	storeCode := strings.TrimSpace(c.Query("store_code"))

	given := 0
	for _, v := range []string{pspReference, orderNumber, storeCode} {
		if v != "" {
			given++
		}
	}
	if given != 1 {
		AbortWithError(c, newValidationError("query", "invalid_query", "exactly one of psp_reference, order_number or store_code is required"))
		return
	}

	var account string
	switch {
	case pspReference != "":
		account = s.accounts.ByReference(ctx, pspReference)
	case orderNumber != "":
		order, err := s.storefront.FindOrderByNumber(ctx, orderNumber)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if order == nil {
			AbortWithError(c, ErrNotFound)
			return
		}
		account = s.accounts.ByOrder(ctx, order)
	default:
		store, err := s.storefront.FindStoreByCode(ctx, storeCode)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		account = s.accounts.ByStoreCode(ctx, storeCode, store)
	}

	c.JSON(http.StatusOK, gin.H{"merchant_account": account})
}
