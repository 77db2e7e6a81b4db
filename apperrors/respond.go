package apperrors

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// httpStatus maps an error classification to an HTTP status code.
func httpStatus(t ErrorType) int {
	switch t {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes the JSON error envelope for err. Internal causes are
// logged server-side and never leaked into the response body.
func Respond(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError("Unexpected error", err)
	}

	if appErr.Type == ErrorTypeInternal {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	message := appErr.Message
	if appErr.Type == ErrorTypeInternal && message == "" {
		message = "Unexpected error"
	}

	c.JSON(httpStatus(appErr.Type), gin.H{
		"status":  "error",
		"message": message,
	})
}
