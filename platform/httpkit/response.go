// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"agrolink_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response format for every endpoint. Success
// responses carry data; failures carry a message and an optional underlying
// error string for diagnosis.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK sends a 200 response wrapped in the success envelope.
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Error sends a failure envelope with the given status code.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

// AbortError sends a failure envelope and aborts the handler chain.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}

// HandleError maps domain errors to HTTP responses.
// Typed *apperr.Error values determine the status from their Kind; dependency
// failures additionally expose the underlying error string for diagnosis.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := err.(*apperr.Error); ok {
		envelope := Envelope{Success: false, Message: domainErr.Message}
		if domainErr.Kind == apperr.KindDependency && domainErr.Err != nil {
			envelope.Error = domainErr.Err.Error()
		}
		c.JSON(domainErr.HTTPStatus(), envelope)
		return true
	}

	// Fallback for non-typed errors
	c.JSON(http.StatusInternalServerError, Envelope{Success: false, Message: err.Error()})
	return true
}
