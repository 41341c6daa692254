package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSetupRouterRegistersRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRouter("fee-ledger-test", Services{})

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /api/v1/health",
		"GET /api/v1/fee-schedules/standard",
		"PUT /api/v1/fee-schedules/standard",
		"GET /api/v1/fee-schedules/classes",
		"GET /api/v1/fee-schedules/classes/:classId",
		"PUT /api/v1/fee-schedules/classes/:classId",
		"DELETE /api/v1/fee-schedules/classes/:classId",
		"GET /api/v1/fee-schedules/classes/:classId/resolved",
		"POST /api/v1/chalans",
		"POST /api/v1/chalans/bulk",
		"GET /api/v1/chalans",
		"GET /api/v1/chalans/:id",
		"PATCH /api/v1/chalans/:id/status",
		"GET /api/v1/chalans/:id/fine",
		"POST /api/v1/chalans/:id/payments",
		"GET /api/v1/chalans/:id/payments",
		"GET /api/v1/defaulters",
		"POST /api/v1/defaulters/export",
		"POST /api/v1/ledger-events/retry",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestSetupRouterHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRouter("fee-ledger-test", Services{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "router-test")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Health Check"}`, w.Body.String())
	assert.Equal(t, "router-test", w.Header().Get("X-Request-ID"))
}
