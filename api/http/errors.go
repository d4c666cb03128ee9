package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	verrors "github.com/Humphrey-He/vanya/pkg/errors"
)

// statusOf maps an error onto a response status.
func statusOf(err error) int {
	switch {
	case verrors.IsValidation(err):
		return http.StatusBadRequest
	case verrors.IsNotFound(err):
		return http.StatusNotFound
	case verrors.IsNotAuthenticated(err):
		return http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError records err on the context and writes {"error": ...}.
// Internal errors are not echoed to the client.
func abortWithError(c *gin.Context, err error) {
	status := statusOf(err)
	_ = c.Error(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// badRequest reports a malformed request body or query.
func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
