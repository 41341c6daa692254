package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/apperr"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/chalan"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func chalanRouter(svc *MockChalanService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewChalanHandler(svc)
	r.POST("/chalans", h.Generate)
	r.POST("/chalans/bulk", h.GenerateBulk)
	r.GET("/chalans", h.List)
	r.GET("/chalans/:id", h.Get)
	r.PATCH("/chalans/:id/status", h.UpdateStatus)
	return r
}

func TestChalanHandler_Generate(t *testing.T) {
	svc := new(MockChalanService)
	expected := chalan.GenerateRequest{
		StudentRef: chalan.StudentRef{StudentID: "stu-1", Name: "Ayesha", ClassID: "class-5"},
		GenerationOptions: chalan.GenerationOptions{
			DueDate: "2024-05-10",
		},
	}
	svc.On("Generate", mock.Anything, expected).
		Return(&models.FeeChalan{ChalanNumber: "CH-1", StudentID: "stu-1",
			Fees: models.ChalanFees{TotalAmount: 11500}}, nil)

	body := `{"studentId":"stu-1","studentName":"Ayesha","classId":"class-5","dueDate":"2024-05-10"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chalans", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	chalanRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var got models.FeeChalan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "CH-1", got.ChalanNumber)
	assert.Equal(t, 11500.0, got.Fees.TotalAmount)
	svc.AssertExpectations(t)
}

func TestChalanHandler_GenerateMalformedBody(t *testing.T) {
	svc := new(MockChalanService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chalans", strings.NewReader(`{"studentId":`))
	req.Header.Set("Content-Type", "application/json")
	chalanRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperr.CodeValidation)
	svc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestChalanHandler_GenerateBulkReportsPartialFailures(t *testing.T) {
	svc := new(MockChalanService)
	result := &chalan.BulkGenerationResult{
		SuccessCount:            1,
		ErrorCount:              1,
		ChalanIDs:               []string{"665f1c2e8a1b2c3d4e5f6a7b"},
		Failures:                []chalan.BulkFailure{{StudentID: "stu-2", Error: "generation in progress"}},
		ClassesWithoutFeeConfig: []string{"class-9"},
	}
	svc.On("GenerateBulk", mock.Anything, mock.AnythingOfType("chalan.BulkGenerateRequest")).Return(result, nil)

	body := `{"students":[{"studentId":"stu-1","studentName":"A","classId":"class-9"},` +
		`{"studentId":"stu-2","studentName":"B","classId":"class-9"}],"remarks":"May"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chalans/bulk", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	chalanRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got chalan.BulkGenerationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.ErrorCount)
	assert.Equal(t, []string{"class-9"}, got.ClassesWithoutFeeConfig)

	sent := svc.Calls[0].Arguments.Get(1).(chalan.BulkGenerateRequest)
	assert.Len(t, sent.Students, 2)
	assert.Equal(t, "May", sent.Remarks)
}

func TestChalanHandler_ListPassesFilters(t *testing.T) {
	svc := new(MockChalanService)
	filter := models.ChalanFilter{ClassID: "class-5", Status: models.ChalanStatusPartial, AcademicYear: "2024-2025"}
	svc.On("List", mock.Anything, filter).Return([]models.FeeChalan{{ChalanNumber: "CH-9"}}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/chalans?classId=class-5&status=partial&academicYear=2024-2025", nil)
	chalanRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CH-9")
	svc.AssertExpectations(t)
}

func TestChalanHandler_GetNotFound(t *testing.T) {
	svc := new(MockChalanService)
	svc.On("Get", mock.Anything, "missing").Return(nil, apperr.NewNotFound("fee chalan", "missing"))

	w := httptest.NewRecorder()
	chalanRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chalans/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), apperr.CodeNotFound)
}

func TestChalanHandler_UpdateStatus(t *testing.T) {
	svc := new(MockChalanService)
	req := chalan.UpdateStatusRequest{Status: models.ChalanStatusOverdue, Remarks: "late"}
	svc.On("UpdateStatus", mock.Anything, "abc", req).
		Return(&models.FeeChalan{Status: models.ChalanStatusOverdue}, nil)

	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPatch, "/chalans/abc/status",
		strings.NewReader(`{"status":"overdue","remarks":"late"}`))
	httpReq.Header.Set("Content-Type", "application/json")
	chalanRouter(svc).ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"overdue"`)
}

func TestChalanHandler_UpdateStatusConflict(t *testing.T) {
	svc := new(MockChalanService)
	svc.On("UpdateStatus", mock.Anything, "abc", mock.Anything).
		Return(nil, &apperr.WriteConflictError{Resource: "fee chalan", ID: "abc", Attempts: 3})

	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPatch, "/chalans/abc/status", strings.NewReader(`{"status":"overdue"}`))
	httpReq.Header.Set("Content-Type", "application/json")
	chalanRouter(svc).ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusConflict, w.Code)
}
