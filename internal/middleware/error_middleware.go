package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
	"github.com/yigit/coursecatalog/internal/pkg/logger"
)

// ErrorTemplate is the name of the generic error page
const ErrorTemplate = "error"

// HandleError renders the generic error page for err. Missing records become a 404,
// malformed or rejected input a 400, everything else a 500.
func HandleError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		status = http.StatusNotFound
		message = "Not found"
		var custom *apperrors.CustomError
		if errors.As(err, &custom) && custom.Message != "" {
			message = custom.Message
		}
	case errors.Is(err, apperrors.ErrBadRequest):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrValidationFailed):
		status = http.StatusBadRequest
		message = "Submitted values were rejected"
	default:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}

	_ = c.Error(err)
	c.HTML(status, ErrorTemplate, gin.H{
		"Title":   message,
		"Message": message,
		"Status":  status,
	})
	c.Abort()
}

// NotFound is the fallback for unrouted paths
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleError(c, apperrors.NewResourceNotFoundError("Page not found"))
	}
}
