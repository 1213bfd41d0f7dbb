package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code - машинночитаемый код ошибки, попадает в error envelope
type Code string

const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeForbidden    Code = "FORBIDDEN"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeConflict     Code = "CONFLICT"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeRateLimited  Code = "RATE_LIMITED"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Error - типизированная ошибка приложения.
// Хранилища и обработчики возвращают такие ошибки, HTTP-граница
// один раз конвертирует их в envelope (см. internal/httpapi)
type Error struct {
	Code    Code
	Status  int
	Message string
	Err     error // исходная причина (для логов, наружу не отдается)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code, status int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Status: status, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return New(CodeNotFound, http.StatusNotFound, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(CodeForbidden, http.StatusForbidden, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(CodeUnauthorized, http.StatusUnauthorized, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(CodeConflict, http.StatusConflict, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return New(CodeValidation, http.StatusBadRequest, format, args...)
}

// Internal оборачивает неожиданную ошибку, деталь остается в Err
func Internal(err error) *Error {
	return &Error{
		Code:    CodeInternal,
		Status:  http.StatusInternalServerError,
		Message: "internal server error",
		Err:     err,
	}
}

// From приводит любую ошибку к *Error.
// Неизвестные ошибки считаются внутренними
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

func IsForbidden(err error) bool {
	return hasCode(err, CodeForbidden)
}

func IsConflict(err error) bool {
	return hasCode(err, CodeConflict)
}

func IsUnauthorized(err error) bool {
	return hasCode(err, CodeUnauthorized)
}

func hasCode(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
