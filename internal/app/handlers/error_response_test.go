package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorMapsTaxonomy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperr.NewFieldValidation("paidAmount", "exceeds balance"), http.StatusBadRequest, apperr.CodeValidation},
		{"not found", apperr.NewNotFound("fee chalan", "abc"), http.StatusNotFound, apperr.CodeNotFound},
		{"write conflict", &apperr.WriteConflictError{Resource: "fee chalan", ID: "abc", Attempts: 3},
			http.StatusConflict, apperr.CodeWriteConflict},
		{"storage unavailable", &apperr.StorageUnavailableError{Op: "get", Err: errors.New("dial tcp")},
			http.StatusServiceUnavailable, apperr.CodeStorageUnavailable},
		{"wrapped not found", fmt.Errorf("load: %w", apperr.NewNotFound("fee chalan", "abc")),
			http.StatusNotFound, apperr.CodeNotFound},
		{"internal", errors.New("boom"), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestRespondErrorIncludesFieldsAndHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, apperr.NewFieldValidation("discount", "exceeds amount due"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"discount": "exceeds amount due"}, body.Fields)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, errors.New("mongo: secret connection string"))

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body.Message)
}
