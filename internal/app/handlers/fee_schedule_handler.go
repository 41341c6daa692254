package handlers

import (
	"net/http"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/feeschedule"

	"github.com/gin-gonic/gin"
)

type FeeScheduleHandler struct {
	service feeschedule.ServiceInterface
}

func NewFeeScheduleHandler(service feeschedule.ServiceInterface) *FeeScheduleHandler {
	return &FeeScheduleHandler{service: service}
}

func (h *FeeScheduleHandler) GetStandard(c *gin.Context) {
	entry, err := h.service.GetStandardSchedule(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *FeeScheduleHandler) UpsertStandard(c *gin.Context) {
	var req feeschedule.UpsertStandardScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.service.UpsertStandardSchedule(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *FeeScheduleHandler) ListClasses(c *gin.Context) {
	entries, err := h.service.ListClassSchedules(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *FeeScheduleHandler) GetClass(c *gin.Context) {
	entry, err := h.service.GetClassSchedule(c.Request.Context(), c.Param("classId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *FeeScheduleHandler) UpsertClass(c *gin.Context) {
	var req feeschedule.UpsertClassScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ClassID = c.Param("classId")
	entry, err := h.service.UpsertClassSchedule(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *FeeScheduleHandler) DeleteClass(c *gin.Context) {
	if err := h.service.DeleteClassSchedule(c.Request.Context(), c.Param("classId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FeeScheduleHandler) ResolveClass(c *gin.Context) {
	resolved, err := h.service.ResolveForClass(c.Request.Context(), c.Param("classId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resolved)
}
