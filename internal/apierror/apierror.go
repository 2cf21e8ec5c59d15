package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jerry-enebeli/paydocs/internal/docgen"
	"github.com/jerry-enebeli/paydocs/ledger"
	"github.com/jerry-enebeli/paydocs/model"
	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrConflict       ErrorCode = "CONFLICT"
	ErrBadRequest     ErrorCode = "BAD_REQUEST"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrUpstream       ErrorCode = "UPSTREAM_ERROR"
	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	if details != nil {
		logrus.WithField("code", code).Error(details)
	}
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// ValidationDetails is attached to INVALID_INPUT and NOT_FOUND errors raised by ledger rules.
type ValidationDetails struct {
	Kind  model.ErrorKind `json:"kind"`
	Field string          `json:"field,omitempty"`
	Row   *int            `json:"row,omitempty"`
}

// FromError converts ledger and payslip validation failures into API errors. APIErrors pass
// through unchanged; anything else becomes an internal error.
func FromError(err error) APIError {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		details := ValidationDetails{Kind: vErr.Kind, Field: vErr.Field}
		var rowErr *ledger.RowError
		if errors.As(err, &rowErr) {
			row := rowErr.Index
			details.Row = &row
		}
		code := ErrInvalidInput
		if vErr.Kind == model.KindNotFound {
			code = ErrNotFound
		}
		return APIError{Code: code, Message: err.Error(), Details: details}
	}

	var upstream *docgen.UpstreamError
	if errors.As(err, &upstream) {
		return NewAPIError(ErrUpstream, upstream.Message, map[string]int{"status": upstream.StatusCode})
	}

	return NewAPIError(ErrInternalServer, "An internal error occurred", err.Error())
}

func MapErrorToHTTPStatus(err error) int {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case ErrNotFound:
			return http.StatusNotFound
		case ErrConflict:
			return http.StatusConflict
		case ErrBadRequest, ErrInvalidInput:
			return http.StatusBadRequest
		case ErrUpstream:
			return http.StatusBadGateway
		case ErrInternalServer:
			return http.StatusInternalServerError
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
