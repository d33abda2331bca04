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

// Dashboard holds the catalog totals. A nil count failed to load.
type Dashboard struct {
	CourseCount     *int
	InstructorCount *int
	CategoryCount   *int
}

// CourseFormOptions feeds the pickers of the course form
type CourseFormOptions struct {
	Instructors []*models.Instructor
	Categories  []models.CategoryOption
}

// CourseService defines the interface for course-related operations
type CourseService interface {
	// GetDashboard returns whatever counts loaded together with the first error
	GetDashboard(ctx context.Context) (*Dashboard, error)
	ListCourses(ctx context.Context) ([]*models.Course, error)
	// GetCourse returns the course with its instructor and categories resolved
	GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error)
	// GetFormOptions lists instructors and categories, marking selected categories checked
	GetFormOptions(ctx context.Context, selected []uuid.UUID) (*CourseFormOptions, error)
	GetCourseForUpdate(ctx context.Context, id uuid.UUID) (*models.Course, *CourseFormOptions, error)
	CreateCourse(ctx context.Context, course *models.Course) error
	UpdateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id uuid.UUID) error
}

type courseServiceImpl struct {
	courses     CourseStore
	instructors InstructorStore
	categories  CategoryStore
}

// NewCourseService creates a new course service instance
func NewCourseService(courses CourseStore, instructors InstructorStore, categories CategoryStore) CourseService {
	return &courseServiceImpl{
		courses:     courses,
		instructors: instructors,
		categories:  categories,
	}
}

// GetDashboard counts courses, instructors and categories concurrently. One failing
// count does not cancel the others.
func (s *courseServiceImpl) GetDashboard(ctx context.Context) (*Dashboard, error) {
	dashboard := &Dashboard{}
	counters := []struct {
		count func(context.Context) (int, error)
		dst   **int
	}{
		{s.courses.CountCourses, &dashboard.CourseCount},
		{s.instructors.CountInstructors, &dashboard.InstructorCount},
		{s.categories.CountCategories, &dashboard.CategoryCount},
	}

	var g errgroup.Group
	for _, c := range counters {
		g.Go(func() error {
			n, err := c.count(ctx)
			if err != nil {
				return fmt.Errorf("error counting catalog: %w", err)
			}
			*c.dst = &n
			return nil
		})
	}

	return dashboard, g.Wait()
}

// ListCourses returns all courses sorted by title, with instructors resolved
func (s *courseServiceImpl) ListCourses(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.courses.GetAllCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	return courses, nil
}

// GetCourse retrieves a course by ID
func (s *courseServiceImpl) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	course, err := s.courses.GetCourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

// GetFormOptions fetches instructors and categories concurrently
func (s *courseServiceImpl) GetFormOptions(ctx context.Context, selected []uuid.UUID) (*CourseFormOptions, error) {
	g, gctx := errgroup.WithContext(ctx)
	options := s.fetchFormOptions(gctx, g, func() []uuid.UUID { return selected })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return options(), nil
}

// GetCourseForUpdate fetches the course, instructors and categories concurrently and
// marks the categories the course is filed under
func (s *courseServiceImpl) GetCourseForUpdate(ctx context.Context, id uuid.UUID) (*models.Course, *CourseFormOptions, error) {
	var course *models.Course

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.GetCourse(gctx, id)
		course = c
		return err
	})
	options := s.fetchFormOptions(gctx, g, func() []uuid.UUID { return course.CategoryIDs })
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return course, options(), nil
}

// fetchFormOptions schedules the picker reads on g. The returned func must only be
// called after g.Wait succeeded; selected is evaluated at that point.
func (s *courseServiceImpl) fetchFormOptions(ctx context.Context, g *errgroup.Group, selected func() []uuid.UUID) func() *CourseFormOptions {
	var (
		instructors []*models.Instructor
		categories  []*models.Category
	)

	g.Go(func() error {
		var err error
		instructors, err = s.instructors.GetAllInstructors(ctx)
		if err != nil {
			return fmt.Errorf("error retrieving instructors: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.categories.GetAllCategories(ctx)
		if err != nil {
			return fmt.Errorf("error retrieving categories: %w", err)
		}
		return nil
	})

	return func() *CourseFormOptions {
		return &CourseFormOptions{
			Instructors: instructors,
			Categories:  models.CategoryOptions(categories, selected()),
		}
	}
}

// CreateCourse persists a new course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, course *models.Course) error {
	if course.CategoryIDs == nil {
		course.CategoryIDs = []uuid.UUID{}
	}
	if err := s.courses.CreateCourse(ctx, course); err != nil {
		if errors.Is(err, apperrors.ErrUnknownReference) {
			return apperrors.ErrUnknownReference
		}
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// UpdateCourse updates an existing course in place
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, course *models.Course) error {
	if course.CategoryIDs == nil {
		course.CategoryIDs = []uuid.UUID{}
	}
	if err := s.courses.UpdateCourse(ctx, course); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCourseNotFound):
			return apperrors.ErrCourseNotFound
		case errors.Is(err, apperrors.ErrUnknownReference):
			return apperrors.ErrUnknownReference
		default:
			return fmt.Errorf("error updating course: %w", err)
		}
	}
	return nil
}

// DeleteCourse deletes a course. Nothing references courses, so there is no guard.
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if err := s.courses.DeleteCourse(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error deleting course: %w", err)
	}
	return nil
}
