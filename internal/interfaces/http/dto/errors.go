package dto

import "net/http"

// Error codes returned in ErrorInfo.Code. Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeTooLarge     = "ERR_REQUEST_TOO_LARGE"

	ErrCodeNotFound        = "ERR_NOT_FOUND"
	ErrCodeNotSynced       = "ERR_NOT_SYNCED"
	ErrCodeRemoteNotFound  = "ERR_REMOTE_NOT_FOUND"
	ErrCodeNotUnique       = "ERR_NOT_UNIQUE"
	ErrCodeLockTimeout     = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeConversion      = "ERR_CONVERSION"
	ErrCodeGateway         = "ERR_GATEWAY"
	ErrCodeGatewayResponse = "ERR_GATEWAY_RESPONSE"
	ErrCodeUnavailable     = "ERR_SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeNotSynced:      http.StatusNotFound,
	ErrCodeRemoteNotFound: http.StatusNotFound,

	ErrCodeNotUnique:   http.StatusConflict,
	ErrCodeLockTimeout: http.StatusConflict,

	ErrCodeConversion: http.StatusUnprocessableEntity,

	ErrCodeGateway:         http.StatusBadGateway,
	ErrCodeGatewayResponse: http.StatusBadGateway,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
