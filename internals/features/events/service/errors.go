package service

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kode error stabil untuk caller (machine-readable).
const (
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeInvalidArguments = "INVALID_ARGUMENTS"
	CodeResourceNotFound = "RESOURCE_NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeConflict         = "CONFLICT"
	CodeUnexpected       = "UNEXPECTED"
)

// FieldIssue menunjuk field input yang bermasalah, termasuk indeks lampiran
// (contoh path: "attachments[2].media_type").
type FieldIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// OpError adalah error operasi dengan kode stabil + detail per-field opsional.
// Untuk CodeUnexpected, detail internal hanya masuk log — pesan ke caller opaque.
type OpError struct {
	Status  int
	Code    string
	Message string
	Issues  []FieldIssue
}

func (e *OpError) Error() string {
	if len(e.Issues) > 0 {
		return fmt.Sprintf("%s: %s (%d issue)", e.Code, e.Message, len(e.Issues))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func ErrUnauthenticated(msg string) *OpError {
	return &OpError{Status: fiber.StatusUnauthorized, Code: CodeUnauthenticated, Message: msg}
}

func ErrInvalidArguments(issues []FieldIssue) *OpError {
	return &OpError{
		Status:  fiber.StatusUnprocessableEntity,
		Code:    CodeInvalidArguments,
		Message: "Validasi input gagal",
		Issues:  issues,
	}
}

func ErrResourceNotFound(msg string) *OpError {
	return &OpError{Status: fiber.StatusNotFound, Code: CodeResourceNotFound, Message: msg}
}

func ErrUnauthorized(msg string) *OpError {
	return &OpError{Status: fiber.StatusForbidden, Code: CodeUnauthorized, Message: msg}
}

func ErrConflict(msg string) *OpError {
	return &OpError{Status: fiber.StatusConflict, Code: CodeConflict, Message: msg}
}

// ErrUnexpected: invariant rusak di sisi storage/infra, bukan salah caller.
func ErrUnexpected() *OpError {
	return &OpError{
		Status:  fiber.StatusInternalServerError,
		Code:    CodeUnexpected,
		Message: "Terjadi kesalahan internal",
	}
}
