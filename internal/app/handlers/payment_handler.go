package handlers

import (
	"net/http"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/ledger"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service ledger.ServiceInterface
}

func NewPaymentHandler(service ledger.ServiceInterface) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var input ledger.PaymentInput
	if !bindJSON(c, &input) {
		return
	}
	result, err := h.service.RecordPayment(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *PaymentHandler) History(c *gin.Context) {
	history, err := h.service.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *PaymentHandler) PreviewFine(c *gin.Context) {
	preview, err := h.service.PreviewFine(c.Request.Context(), c.Param("id"), c.Query("paidDate"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}
