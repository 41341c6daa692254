// Package apperr holds the error taxonomy shared by the fee services and the HTTP layer.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/consts"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeWriteConflict      = "WRITE_CONFLICT"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrGenerationInProgress is returned by the generation marker when another request already
// holds it for the same student.
var ErrGenerationInProgress = errors.New("chalan generation already in progress")

// Coder is implemented by every error in this package.
type Coder interface {
	ErrorCode() string
}

// ValidationError rejects malformed or out-of-range input before anything is persisted.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) ErrorCode() string { return CodeValidation }

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) ErrorCode() string { return CodeNotFound }

// WriteConflictError is returned once the bounded retry budget for a contended document is spent.
type WriteConflictError struct {
	Resource string
	ID       string
	Attempts int
}

func (e *WriteConflictError) Error() string {
	return fmt.Sprintf("%s %q was modified concurrently (%d attempts), please retry", e.Resource, e.ID, e.Attempts)
}

func (e *WriteConflictError) ErrorCode() string { return CodeWriteConflict }

type StorageUnavailableError struct {
	Op  string
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }

func (e *StorageUnavailableError) ErrorCode() string { return CodeStorageUnavailable }

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewFieldValidation(field, msg string) *ValidationError {
	return &ValidationError{Message: "invalid input", Fields: map[string]string{field: msg}}
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsStorageUnavailable(err error) bool {
	var target *StorageUnavailableError
	return errors.As(err, &target)
}

// IsWriteConflict reports both our own exhausted-retry error and a raw Mongo write conflict.
func IsWriteConflict(err error) bool {
	var target *WriteConflictError
	if errors.As(err, &target) {
		return true
	}
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.HasErrorCode(consts.WriteConflictErrorCode) ||
			serverErr.HasErrorLabel(consts.TransientTransactionErrorLabel)
	}
	return false
}

// Code returns the taxonomy code for err, CodeInternal when it is not one of ours.
func Code(err error) string {
	var coder Coder
	if errors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return CodeInternal
}

// FromValidator converts validator.ValidationErrors into a ValidationError keyed by field name.
func FromValidator(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Message: err.Error()}
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = describeTag(fe)
	}
	return &ValidationError{Message: "invalid input", Fields: fields}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// FromMongo classifies a driver error. Connectivity problems become StorageUnavailableError,
// taxonomy errors pass through untouched and anything else is wrapped with the operation name.
func FromMongo(op string, err error) error {
	if err == nil {
		return nil
	}
	var coder Coder
	if errors.As(err, &coder) {
		return err
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, mongo.ErrClientDisconnected) {
		return &StorageUnavailableError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
