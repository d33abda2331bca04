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

// InstructorDetail is an instructor with the courses they teach (title and description)
type InstructorDetail struct {
	Instructor *models.Instructor
	Courses    []*models.Course
}

// InstructorService defines the interface for instructor-related operations
type InstructorService interface {
	ListInstructors(ctx context.Context) ([]*models.Instructor, error)
	GetInstructor(ctx context.Context, id uuid.UUID) (*models.Instructor, error)
	GetInstructorDetail(ctx context.Context, id uuid.UUID) (*InstructorDetail, error)
	CreateInstructor(ctx context.Context, instructor *models.Instructor) error
	UpdateInstructor(ctx context.Context, instructor *models.Instructor) error
	// DeleteInstructor returns the detail and apperrors.ErrInstructorHasCourses when the
	// instructor still teaches a course. On success the detail of the removed record is
	// returned.
	DeleteInstructor(ctx context.Context, id uuid.UUID) (*InstructorDetail, error)
}

type instructorServiceImpl struct {
	instructors InstructorStore
	courses     CourseStore
}

// NewInstructorService creates a new instructor service instance
func NewInstructorService(instructors InstructorStore, courses CourseStore) InstructorService {
	return &instructorServiceImpl{
		instructors: instructors,
		courses:     courses,
	}
}

// ListInstructors returns all instructors sorted by family name
func (s *instructorServiceImpl) ListInstructors(ctx context.Context) ([]*models.Instructor, error) {
	instructors, err := s.instructors.GetAllInstructors(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving instructors: %w", err)
	}
	return instructors, nil
}

// GetInstructor retrieves an instructor by ID
func (s *instructorServiceImpl) GetInstructor(ctx context.Context, id uuid.UUID) (*models.Instructor, error) {
	instructor, err := s.instructors.GetInstructorByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrInstructorNotFound) {
			return nil, apperrors.ErrInstructorNotFound
		}
		return nil, fmt.Errorf("error retrieving instructor: %w", err)
	}
	return instructor, nil
}

// GetInstructorDetail fetches the instructor and their courses concurrently
func (s *instructorServiceImpl) GetInstructorDetail(ctx context.Context, id uuid.UUID) (*InstructorDetail, error) {
	detail := &InstructorDetail{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		instructor, err := s.GetInstructor(gctx, id)
		detail.Instructor = instructor
		return err
	})
	g.Go(func() error {
		courses, err := s.courses.GetCoursesByInstructor(gctx, id)
		if err != nil {
			return fmt.Errorf("error retrieving instructor courses: %w", err)
		}
		detail.Courses = courses
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return detail, nil
}

// CreateInstructor persists a new instructor. Identical names are allowed.
func (s *instructorServiceImpl) CreateInstructor(ctx context.Context, instructor *models.Instructor) error {
	if instructor.ImageURL == "" {
		instructor.ImageURL = models.DefaultInstructorImage
	}
	if err := s.instructors.CreateInstructor(ctx, instructor); err != nil {
		return fmt.Errorf("error creating instructor: %w", err)
	}
	return nil
}

// UpdateInstructor updates an existing instructor in place
func (s *instructorServiceImpl) UpdateInstructor(ctx context.Context, instructor *models.Instructor) error {
	if instructor.ImageURL == "" {
		instructor.ImageURL = models.DefaultInstructorImage
	}
	if err := s.instructors.UpdateInstructor(ctx, instructor); err != nil {
		if errors.Is(err, apperrors.ErrInstructorNotFound) {
			return apperrors.ErrInstructorNotFound
		}
		return fmt.Errorf("error updating instructor: %w", err)
	}
	return nil
}

// DeleteInstructor deletes an instructor that teaches no course
func (s *instructorServiceImpl) DeleteInstructor(ctx context.Context, id uuid.UUID) (*InstructorDetail, error) {
	detail, err := s.GetInstructorDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(detail.Courses) > 0 {
		return detail, apperrors.ErrInstructorHasCourses
	}

	if err := s.instructors.DeleteInstructor(ctx, id); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInstructorHasCourses):
			if courses, cerr := s.courses.GetCoursesByInstructor(ctx, id); cerr == nil {
				detail.Courses = courses
			}
			return detail, apperrors.ErrInstructorHasCourses
		case errors.Is(err, apperrors.ErrInstructorNotFound):
			return nil, apperrors.ErrInstructorNotFound
		default:
			return nil, fmt.Errorf("error deleting instructor: %w", err)
		}
	}
	return detail, nil
}
