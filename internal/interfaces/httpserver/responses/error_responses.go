package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"companion-server/internal/utils/platformerrors"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code      string `json:"code"` // UUID from PlatformError
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// HandleError maps domain errors to HTTP responses.
func HandleError(reqCtx *gin.Context, err error, message string) {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		statusCode := platformerrors.ErrorTypeToHTTPStatus(platformErr.Type)

		errorMessage := platformErr.Message
		if errorMessage == "" {
			errorMessage = message
		}

		reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
			Code:      platformErr.UUID,
			Error:     errorMessage,
			Message:   errorMessage,
			RequestID: platformErr.RequestID,
		})
		return
	}

	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:   message,
		Message: message,
	})
}

// HandleNewError creates a typed error at the route layer and writes it.
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	ctx := reqCtx.Request.Context()
	err := platformerrors.NewError(ctx, platformerrors.LayerRoute, errorType, message, nil, uuid)

	reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(err.Type), ErrorResponse{
		Code:      err.UUID,
		Error:     message,
		Message:   message,
		RequestID: err.RequestID,
	})
}
