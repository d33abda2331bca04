package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/coursecatalog/internal/middleware"
	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
	"github.com/yigit/coursecatalog/internal/pkg/validation"
)

// Catalog list pages, the targets of delete redirects
const (
	coursesPath     = "/catalog/courses"
	instructorsPath = "/catalog/instructors"
	categoriesPath  = "/catalog/categories"
)

// formValues collects the posted value of every rule field
func formValues(ctx *gin.Context, rules []validation.Rule) validation.Values {
	values := make(validation.Values, len(rules))
	for _, rule := range rules {
		values[rule.Field] = ctx.PostForm(rule.Field)
	}
	return values
}

// bodyID reads the id a delete form posts, falling back to the :id path parameter
func bodyID(ctx *gin.Context, field string) (uuid.UUID, error) {
	raw := strings.TrimSpace(ctx.PostForm(field))
	if raw == "" {
		return middleware.GetID(ctx), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.NewResourceNotFoundError("Not found")
	}
	return id, nil
}

func redirect(ctx *gin.Context, location string) {
	ctx.Redirect(http.StatusFound, location)
}
