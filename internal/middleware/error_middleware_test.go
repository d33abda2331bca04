package middleware

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
)

func TestHandleErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{name: "not found", err: apperrors.ErrCourseNotFound, status: http.StatusNotFound, body: "course not found"},
		{name: "bad request", err: apperrors.NewBadRequestError("Malformed upload"), status: http.StatusBadRequest, body: "Malformed upload"},
		{
			name:   "rejected by database",
			err:    fmt.Errorf("error creating category: %w", fmt.Errorf("%w: check", apperrors.ErrValidationFailed)),
			status: http.StatusBadRequest,
			body:   "Submitted values were rejected",
		},
		{name: "anything else", err: errors.New("conn reset"), status: http.StatusInternalServerError, body: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.SetHTMLTemplate(template.Must(template.New(ErrorTemplate).Parse(`{{.Status}} {{.Message}}`)))
			router.GET("/", func(c *gin.Context) { HandleError(c, tt.err) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}
