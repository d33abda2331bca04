package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yigit/coursecatalog/internal/app/models"
	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
	"golang.org/x/sync/errgroup"
)

// CategoryDetail is a category together with the courses filed under it
type CategoryDetail struct {
	Category *models.Category
	Courses  []*models.Course
}

// CategoryService defines the interface for category-related operations
type CategoryService interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetCategoryDetail(ctx context.Context, id uuid.UUID) (*CategoryDetail, error)
	// CreateCategory returns the existing category with the same title instead of
	// creating a duplicate; created reports which case happened.
	CreateCategory(ctx context.Context, title string) (category *models.Category, created bool, err error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	// DeleteCategory returns the detail and apperrors.ErrCategoryHasCourses when the
	// category is still referenced.
	DeleteCategory(ctx context.Context, id uuid.UUID) (*CategoryDetail, error)
}

type categoryServiceImpl struct {
	categories CategoryStore
	courses    CourseStore
}

// NewCategoryService creates a new category service instance
func NewCategoryService(categories CategoryStore, courses CourseStore) CategoryService {
	return &categoryServiceImpl{
		categories: categories,
		courses:    courses,
	}
}

// ListCategories returns all categories sorted by title
func (s *categoryServiceImpl) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.categories.GetAllCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving categories: %w", err)
	}
	return categories, nil
}

// GetCategory retrieves a category by ID
func (s *categoryServiceImpl) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.categories.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCategoryNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("error retrieving category: %w", err)
	}
	return category, nil
}

// GetCategoryDetail fetches the category and its courses concurrently
func (s *categoryServiceImpl) GetCategoryDetail(ctx context.Context, id uuid.UUID) (*CategoryDetail, error) {
	detail := &CategoryDetail{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		category, err := s.GetCategory(gctx, id)
		detail.Category = category
		return err
	})
	g.Go(func() error {
		courses, err := s.courses.GetCoursesByCategory(gctx, id)
		if err != nil {
			return fmt.Errorf("error retrieving category courses: %w", err)
		}
		detail.Courses = courses
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return detail, nil
}

// CreateCategory creates a category unless one with the same title exists
func (s *categoryServiceImpl) CreateCategory(ctx context.Context, title string) (*models.Category, bool, error) {
	existing, err := s.categories.GetCategoryByTitle(ctx, title)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrCategoryNotFound) {
		return nil, false, fmt.Errorf("error looking up category: %w", err)
	}

	category := &models.Category{Title: title}
	if err := s.categories.CreateCategory(ctx, category); err != nil {
		return nil, false, fmt.Errorf("error creating category: %w", err)
	}
	return category, true, nil
}

// UpdateCategory updates an existing category in place
func (s *categoryServiceImpl) UpdateCategory(ctx context.Context, category *models.Category) error {
	if err := s.categories.UpdateCategory(ctx, category); err != nil {
		if errors.Is(err, apperrors.ErrCategoryNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return fmt.Errorf("error updating category: %w", err)
	}
	return nil
}

// DeleteCategory deletes a category that no course references
func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, id uuid.UUID) (*CategoryDetail, error) {
	detail, err := s.GetCategoryDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(detail.Courses) > 0 {
		return detail, apperrors.ErrCategoryHasCourses
	}

	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCategoryHasCourses):
			// a course was filed under it after the read above
			return s.refreshedDetail(ctx, detail), apperrors.ErrCategoryHasCourses
		case errors.Is(err, apperrors.ErrCategoryNotFound):
			return nil, apperrors.ErrCategoryNotFound
		default:
			return nil, fmt.Errorf("error deleting category: %w", err)
		}
	}
	return detail, nil
}

func (s *categoryServiceImpl) refreshedDetail(ctx context.Context, fallback *CategoryDetail) *CategoryDetail {
	courses, err := s.courses.GetCoursesByCategory(ctx, fallback.Category.ID)
	if err != nil {
		return fallback
	}
	return &CategoryDetail{Category: fallback.Category, Courses: courses}
}
