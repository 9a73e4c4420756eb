package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"imagesim/utils/apperrors"
)

// ErrorResponse represents an error response with application error details
type ErrorResponse struct {
	Code          string `json:"code"` // UUID from AppError
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	ErrorInstance error  `json:"-"`
	RequestID     string `json:"request_id,omitempty"`
}

// HandleError handles domain errors and returns appropriate HTTP responses
func HandleError(reqCtx *gin.Context, err error, message string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		statusCode := apperrors.ErrorTypeToHTTPStatus(appErr.GetErrorType())

		errorMessage := appErr.Message
		if errorMessage == "" {
			errorMessage = message
		}

		errResp := ErrorResponse{
			Code:          appErr.GetUUID(),
			Error:         errorMessage,
			Message:       errorMessage,
			ErrorInstance: appErr,
			RequestID:     appErr.GetRequestID(),
		}

		reqCtx.AbortWithStatusJSON(statusCode, errResp)
		return
	}
	// Untyped errors
	errResp := ErrorResponse{
		Error:         message,
		Message:       message,
		ErrorInstance: err,
	}
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, errResp)
}

// HandleNewError creates a new typed error at the route layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType apperrors.ErrorType, message string, uuid string) {
	ctx := reqCtx.Request.Context()
	err := apperrors.NewError(ctx, apperrors.LayerRoute, errorType, message, nil, uuid)

	statusCode := apperrors.ErrorTypeToHTTPStatus(err.GetErrorType())

	errResp := ErrorResponse{
		Code:          err.GetUUID(),
		Error:         message,
		Message:       message,
		ErrorInstance: err,
		RequestID:     err.GetRequestID(),
	}

	reqCtx.AbortWithStatusJSON(statusCode, errResp)
}
