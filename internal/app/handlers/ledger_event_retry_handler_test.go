package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/ledger_events"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func retryRouter(svc *MockRetryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/ledger-events/retry", NewLedgerEventRetryHandler(svc).Retry)
	return r
}

func TestLedgerEventRetryHandler(t *testing.T) {
	tests := []struct {
		name        string
		response    *ledger_events.RetryResponse
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "nothing to publish",
			response:    &ledger_events.RetryResponse{SuccessIDs: []string{}, FailedIDs: []string{}},
			wantStatus:  http.StatusOK,
			wantMessage: log_messages.NoUnpublishedPaymentEvents,
		},
		{
			name:       "all published",
			response:   &ledger_events.RetryResponse{SuccessIDs: []string{"a"}, FailedIDs: []string{}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "partial failure still 200",
			response:   &ledger_events.RetryResponse{SuccessIDs: []string{"a"}, FailedIDs: []string{"b"}, ErrorMsg: "broker"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "total failure",
			response:   &ledger_events.RetryResponse{SuccessIDs: []string{}, FailedIDs: []string{"b"}, ErrorMsg: "broker"},
			wantStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockRetryService)
			svc.On("Retry", mock.Anything, "2024-05-01").Return(tt.response)

			w := httptest.NewRecorder()
			retryRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ledger-events/retry?since=2024-05-01", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var got ledger_events.RetryResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}
}
