package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// adyenAccepted is the body Adyen requires before it marks a delivery as done.
const adyenAccepted = "[accepted]"

func (s *Server) HandleAdyenNotification(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if _, err := s.ingester.Ingest(c.Request.Context(), c.ContentType(), payload); err != nil {
		AbortWithError(c, err)
		return
	}

	c.String(http.StatusOK, adyenAccepted)
}
