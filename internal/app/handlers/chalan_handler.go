package handlers

import (
	"net/http"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/chalan"

	"github.com/gin-gonic/gin"
)

type ChalanHandler struct {
	service chalan.ServiceInterface
}

func NewChalanHandler(service chalan.ServiceInterface) *ChalanHandler {
	return &ChalanHandler{service: service}
}

func (h *ChalanHandler) Generate(c *gin.Context) {
	var req chalan.GenerateRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GenerateBulk answers 200 even when some students failed; the result lists them.
func (h *ChalanHandler) GenerateBulk(c *gin.Context) {
	var req chalan.BulkGenerateRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.GenerateBulk(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ChalanHandler) List(c *gin.Context) {
	filter := models.ChalanFilter{
		StudentID:    c.Query("studentId"),
		ClassID:      c.Query("classId"),
		Status:       models.ChalanStatus(c.Query("status")),
		AcademicYear: c.Query("academicYear"),
	}
	chalans, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chalans)
}

func (h *ChalanHandler) Get(c *gin.Context) {
	found, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *ChalanHandler) UpdateStatus(c *gin.Context) {
	var req chalan.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
