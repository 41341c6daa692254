package handlers

import (
	"net/http"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/ledger_events"

	"github.com/gin-gonic/gin"
)

type LedgerEventRetryHandler struct {
	service ledger_events.RetryServiceInterface
}

func NewLedgerEventRetryHandler(service ledger_events.RetryServiceInterface) *LedgerEventRetryHandler {
	return &LedgerEventRetryHandler{service: service}
}

func (h *LedgerEventRetryHandler) Retry(c *gin.Context) {
	response := h.service.Retry(c.Request.Context(), c.Query("since"))

	if response.ErrorMsg == "" {
		if len(response.SuccessIDs) == 0 && len(response.FailedIDs) == 0 {
			response.Message = log_messages.NoUnpublishedPaymentEvents
		}

		c.JSON(http.StatusOK, response)
		return
	}

	if len(response.SuccessIDs) > 0 {
		c.JSON(http.StatusOK, response)
		return
	}

	c.JSON(http.StatusInternalServerError, response)
}
