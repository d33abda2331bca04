package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/yigit/coursecatalog/internal/app/models"
)

// CategoryStore persists categories. Lookups by id return apperrors.ErrCategoryNotFound
// when nothing matches.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	// GetCategoryByTitle returns apperrors.ErrCategoryNotFound when no category has the title
	GetCategoryByTitle(ctx context.Context, title string) (*models.Category, error)
	// GetAllCategories is sorted by title
	GetAllCategories(ctx context.Context) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	// DeleteCategory refuses with apperrors.ErrCategoryHasCourses while a course still
	// references the category. The check and the delete are atomic.
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CountCategories(ctx context.Context) (int, error)
}

// InstructorStore persists instructors.
type InstructorStore interface {
	CreateInstructor(ctx context.Context, instructor *models.Instructor) error
	GetInstructorByID(ctx context.Context, id uuid.UUID) (*models.Instructor, error)
	// GetAllInstructors is sorted by family name, then first name
	GetAllInstructors(ctx context.Context) ([]*models.Instructor, error)
	UpdateInstructor(ctx context.Context, instructor *models.Instructor) error
	// DeleteInstructor refuses with apperrors.ErrInstructorHasCourses while a course still
	// references the instructor. The check and the delete are atomic.
	DeleteInstructor(ctx context.Context, id uuid.UUID) error
	CountInstructors(ctx context.Context) (int, error)
}

// CourseStore persists courses together with their category set. Writes that point at
// a missing instructor or category fail with apperrors.ErrUnknownReference.
type CourseStore interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	// GetCourseByID resolves the instructor and the categories
	GetCourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	// GetAllCourses returns title and resolved instructor, sorted by title
	GetAllCourses(ctx context.Context) ([]*models.Course, error)
	GetCoursesByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Course, error)
	// GetCoursesByInstructor returns title and description only
	GetCoursesByInstructor(ctx context.Context, instructorID uuid.UUID) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id uuid.UUID) error
	CountCourses(ctx context.Context) (int, error)
}

// Stores groups the stores a catalog runs on
type Stores struct {
	Categories  CategoryStore
	Instructors InstructorStore
	Courses     CourseStore
}

// Services holds all the service instances
type Services struct {
	CategoryService   CategoryService
	InstructorService InstructorService
	CourseService     CourseService
}

// NewServices wires every service onto stores
func NewServices(stores Stores) *Services {
	return &Services{
		CategoryService:   NewCategoryService(stores.Categories, stores.Courses),
		InstructorService: NewInstructorService(stores.Instructors, stores.Courses),
		CourseService:     NewCourseService(stores.Courses, stores.Instructors, stores.Categories),
	}
}
