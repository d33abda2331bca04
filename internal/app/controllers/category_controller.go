package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursecatalog/internal/app/models"
	"github.com/yigit/coursecatalog/internal/app/services"
	"github.com/yigit/coursecatalog/internal/middleware"
	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
	"github.com/yigit/coursecatalog/internal/pkg/logger"
	"github.com/yigit/coursecatalog/internal/pkg/validation"
)

// CategoryController handles category pages
type CategoryController struct {
	categoryService services.CategoryService
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categoryService services.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

// ListCategories renders all categories sorted by title
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	categories, err := c.categoryService.ListCategories(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "category_list", gin.H{
		"Title":      "Category List",
		"Categories": categories,
	})
}

// GetCategory renders a category with the courses filed under it
func (c *CategoryController) GetCategory(ctx *gin.Context) {
	detail, err := c.categoryService.GetCategoryDetail(ctx.Request.Context(), middleware.GetID(ctx))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "category_detail", gin.H{
		"Title":    "Category Detail",
		"Category": detail.Category,
		"Courses":  detail.Courses,
	})
}

// CreateCategoryForm renders an empty category form
func (c *CategoryController) CreateCategoryForm(ctx *gin.Context) {
	renderCategoryForm(ctx, "Create Category", validation.Values{}, nil)
}

// CreateCategory creates a category, or redirects to the one that already has the title
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	values, errs := validation.Run(validation.CategoryCreateRules, formValues(ctx, validation.CategoryCreateRules))
	if len(errs) > 0 {
		renderCategoryForm(ctx, "Create Category", values, errs)
		return
	}

	category, created, err := c.categoryService.CreateCategory(ctx.Request.Context(), values[validation.FieldTitle])
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}
	if created {
		logger.Info().Str("categoryID", category.ID.String()).Msg("Category created")
	}

	redirect(ctx, category.URL())
}

// DeleteCategoryForm renders the delete confirmation, listing blocking courses
func (c *CategoryController) DeleteCategoryForm(ctx *gin.Context) {
	detail, err := c.categoryService.GetCategoryDetail(ctx.Request.Context(), middleware.GetID(ctx))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}
	renderCategoryDelete(ctx, detail)
}

// DeleteCategory deletes a category no course is filed under
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	id, err := bodyID(ctx, "categoryid")
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	detail, err := c.categoryService.DeleteCategory(ctx.Request.Context(), id)
	if errors.Is(err, apperrors.ErrCategoryHasCourses) {
		renderCategoryDelete(ctx, detail)
		return
	}
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	logger.Info().Str("categoryID", id.String()).Msg("Category deleted")
	redirect(ctx, categoriesPath)
}

// UpdateCategoryForm renders the form pre-filled with the stored title
func (c *CategoryController) UpdateCategoryForm(ctx *gin.Context) {
	category, err := c.categoryService.GetCategory(ctx.Request.Context(), middleware.GetID(ctx))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	renderCategoryForm(ctx, "Update Category", validation.Values{validation.FieldTitle: category.Title}, nil)
}

// UpdateCategory updates the title in place
func (c *CategoryController) UpdateCategory(ctx *gin.Context) {
	existing, err := c.categoryService.GetCategory(ctx.Request.Context(), middleware.GetID(ctx))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	values, errs := validation.Run(validation.CategoryUpdateRules, formValues(ctx, validation.CategoryUpdateRules))
	if len(errs) > 0 {
		renderCategoryForm(ctx, "Update Category", values, errs)
		return
	}

	category := &models.Category{
		ID:    existing.ID,
		Title: values[validation.FieldTitle],
	}
	if err := c.categoryService.UpdateCategory(ctx.Request.Context(), category); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	redirect(ctx, category.URL())
}

func renderCategoryForm(ctx *gin.Context, title string, values validation.Values, errs validation.Errors) {
	ctx.HTML(http.StatusOK, "category_form", gin.H{
		"Title":  title,
		"Form":   values,
		"Errors": errs,
	})
}

func renderCategoryDelete(ctx *gin.Context, detail *services.CategoryDetail) {
	ctx.HTML(http.StatusOK, "category_delete", gin.H{
		"Title":    "Delete Category",
		"Category": detail.Category,
		"Courses":  detail.Courses,
	})
}
