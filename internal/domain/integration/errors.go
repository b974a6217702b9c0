package integration

import (
	"errors"
	"fmt"
	"net/http"
)

// ---------------------------------------------------------------------------
// Integration Errors
// ---------------------------------------------------------------------------

var (
	// Adapter errors
	ErrAdapterInvalidProduct = errors.New("integration: invalid product for conversion")
	ErrMissingRemoteParentID = errors.New("integration: remote ID not found for parent product")
	ErrMissingLocalParentID  = errors.New("integration: local ID not found for parent product")

	// Mapping errors
	ErrProductMappingNotFound = errors.New("integration: product mapping not found")
	ErrMappingInvalidLocalID  = errors.New("integration: invalid local product ID")
	ErrMappingInvalidRemoteID = errors.New("integration: invalid remote product ID")

	// Sync errors
	ErrMissingLocalID  = errors.New("integration: product has no local ID")
	ErrMissingRemoteID = errors.New("integration: remote product has no ID")
	ErrInvalidContext  = errors.New("integration: commerce context is missing a store ID")
	ErrLockNotAcquired = errors.New("integration: product lock not acquired")

	// Gateway errors
	ErrProductNotUnique       = errors.New("integration: remote product is not unique")
	ErrRemoteProductNotFound  = errors.New("integration: remote product not found")
	ErrGatewayRequest         = errors.New("integration: catalog gateway request failed")
	ErrGatewayInvalidResponse = errors.New("integration: invalid catalog gateway response")
)

// GatewayError describes a failed call to the remote catalog API.
// It unwraps to ErrRemoteProductNotFound, ErrProductNotUnique or ErrGatewayRequest
// so callers can branch with errors.Is.
type GatewayError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

// NewGatewayError classifies a gateway failure by HTTP status and error code
func NewGatewayError(statusCode int, code, message string) *GatewayError {
	return &GatewayError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Err:        classifyGatewayError(statusCode, code),
	}
}

func classifyGatewayError(statusCode int, code string) error {
	switch {
	case statusCode == http.StatusNotFound:
		return ErrRemoteProductNotFound
	case statusCode == http.StatusConflict, code == "NOT_UNIQUE":
		return ErrProductNotUnique
	default:
		return ErrGatewayRequest
	}
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%v (status=%d, code=%s): %s", e.Err, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%v (status=%d): %s", e.Err, e.StatusCode, e.Message)
}

// Unwrap returns the classified sentinel error
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the remote product no longer exists
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRemoteProductNotFound)
}

// IsNotUnique reports whether err is a duplicate SKU conflict
func IsNotUnique(err error) bool {
	return errors.Is(err, ErrProductNotUnique)
}
