package handlers

import (
	"net/http"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/defaulters"

	"github.com/gin-gonic/gin"
)

type DefaulterHandler struct {
	service defaulters.ServiceInterface
}

func NewDefaulterHandler(service defaulters.ServiceInterface) *DefaulterHandler {
	return &DefaulterHandler{service: service}
}

func (h *DefaulterHandler) Report(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context(), c.Query("classId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *DefaulterHandler) Export(c *gin.Context) {
	result, err := h.service.Export(c.Request.Context(), c.Query("classId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
