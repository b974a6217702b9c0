// Package handler implements the HTTP endpoints of the sync API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/mwc/backend/internal/domain/catalog"
	"github.com/mwc/backend/internal/domain/integration"
	"github.com/mwc/backend/internal/interfaces/http/dto"
	"github.com/mwc/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		middleware.GetRequestID(c),
		details,
	))
}

// HandleBindError answers a failed ShouldBind* call
func (h *BaseHandler) HandleBindError(c *gin.Context, err error) {
	var (
		validationErrors validator.ValidationErrors
		maxBytesErr      *http.MaxBytesError
		syntaxErr        *json.SyntaxError
		typeErr          *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &validationErrors):
		h.ValidationError(c, middleware.ValidationDetails(err))
	case errors.As(err, &maxBytesErr):
		h.ErrorWithCode(c, dto.ErrCodeTooLarge, "Request body exceeds maximum allowed size")
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Malformed request body")
	default:
		h.BadRequest(c, err.Error())
	}
}

// HandleError converts sync and catalog errors into HTTP responses.
// The error is attached to the gin context so the request log carries it.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	code, message := classifyError(err)
	h.ErrorWithCode(c, code, message)
}

func classifyError(err error) (code, message string) {
	var gatewayErr *integration.GatewayError

	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		return dto.ErrCodeNotFound, "Product not found"
	case errors.Is(err, catalog.ErrProductInvalidName):
		return dto.ErrCodeInvalidInput, err.Error()
	case errors.Is(err, integration.ErrProductMappingNotFound):
		return dto.ErrCodeNotSynced, "Product has not been synced"
	case errors.Is(err, integration.ErrRemoteProductNotFound):
		return dto.ErrCodeRemoteNotFound, remoteMessage(err, "Remote product not found")
	case errors.Is(err, integration.ErrProductNotUnique):
		return dto.ErrCodeNotUnique, remoteMessage(err, "Remote product is not unique")
	case errors.Is(err, integration.ErrLockNotAcquired):
		return dto.ErrCodeLockTimeout, "Product is being synced by another request"
	case errors.Is(err, integration.ErrAdapterInvalidProduct),
		errors.Is(err, integration.ErrMissingRemoteParentID),
		errors.Is(err, integration.ErrMissingLocalParentID):
		return dto.ErrCodeConversion, err.Error()
	case errors.Is(err, integration.ErrMissingLocalID),
		errors.Is(err, integration.ErrMappingInvalidLocalID),
		errors.Is(err, integration.ErrMappingInvalidRemoteID):
		return dto.ErrCodeInvalidInput, err.Error()
	case errors.Is(err, integration.ErrGatewayInvalidResponse),
		errors.Is(err, integration.ErrMissingRemoteID):
		return dto.ErrCodeGatewayResponse, "Invalid response from the commerce platform"
	case errors.Is(err, integration.ErrGatewayRequest), errors.As(err, &gatewayErr):
		return dto.ErrCodeGateway, remoteMessage(err, "Commerce platform request failed")
	default:
		return dto.ErrCodeInternal, "An unexpected error occurred"
	}
}

// remoteMessage returns the message reported by the commerce platform, if any
func remoteMessage(err error, fallback string) string {
	var gatewayErr *integration.GatewayError
	if errors.As(err, &gatewayErr) && gatewayErr.Message != "" {
		return gatewayErr.Message
	}
	return fallback
}
