package handlers

import (
	"errors"
	"net/http"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/apperr"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func statusFor(code string) int {
	switch code {
	case apperr.CodeValidation:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeWriteConflict:
		return http.StatusConflict
	case apperr.CodeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	code := apperr.Code(err)
	status := statusFor(code)
	body := ErrorResponse{Code: code, Message: err.Error()}

	var validationErr *apperr.ValidationError
	if errors.As(err, &validationErr) {
		body.Message = validationErr.Message
		body.Fields = validationErr.Fields
	}
	if status == http.StatusInternalServerError {
		logger.CtxError(c.Request.Context(), log_messages.UnhandledRequestError, err)
		body.Message = http.StatusText(http.StatusInternalServerError)
	}
	c.JSON(status, body)
}

// bindJSON decodes the body into dst and answers 400 itself when decoding fails.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperr.NewValidation("malformed request body: "+err.Error()))
		return false
	}
	return true
}
