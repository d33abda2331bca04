// Package memory keeps the catalog in process memory. It backs the "memory" database
// driver and the handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/coursecatalog/internal/app/models"
	"github.com/yigit/coursecatalog/internal/app/services"
	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
)

// Store implements the category, instructor and course stores. A single mutex guards
// all three collections, so reference checks and deletes are atomic.
type Store struct {
	mu          sync.RWMutex
	categories  map[uuid.UUID]*models.Category
	instructors map[uuid.UUID]*models.Instructor
	courses     map[uuid.UUID]*models.Course
	// insertion order, used to break ties
	order map[uuid.UUID]int
	seq   int
	now   func() time.Time
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{
		categories:  make(map[uuid.UUID]*models.Category),
		instructors: make(map[uuid.UUID]*models.Instructor),
		courses:     make(map[uuid.UUID]*models.Course),
		order:       make(map[uuid.UUID]int),
		now:         time.Now,
	}
}

// Stores exposes the store under every interface the services consume
func (s *Store) Stores() services.Stores {
	return services.Stores{Categories: s, Instructors: s, Courses: s}
}

func (s *Store) track(id uuid.UUID) {
	s.seq++
	s.order[id] = s.seq
}

func copyCategory(c *models.Category) *models.Category {
	cp := *c
	return &cp
}

func copyInstructor(i *models.Instructor) *models.Instructor {
	cp := *i
	return &cp
}

func copyCourse(c *models.Course) *models.Course {
	cp := *c
	cp.CategoryIDs = append([]uuid.UUID{}, c.CategoryIDs...)
	cp.Instructor = nil
	cp.Categories = nil
	return &cp
}

// CreateCategory stores a category and assigns its id
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category.ID = uuid.New()
	category.CreatedAt = s.now()
	category.UpdatedAt = category.CreatedAt
	s.categories[category.ID] = copyCategory(category)
	s.track(category.ID)
	return nil
}

// GetCategoryByID retrieves a category by ID
func (s *Store) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}
	return copyCategory(c), nil
}

// GetCategoryByTitle retrieves the oldest category with exactly this title
func (s *Store) GetCategoryByTitle(ctx context.Context, title string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *models.Category
	for _, c := range s.categories {
		if c.Title == title && (found == nil || s.order[c.ID] < s.order[found.ID]) {
			found = c
		}
	}
	if found == nil {
		return nil, apperrors.ErrCategoryNotFound
	}
	return copyCategory(found), nil
}

// GetAllCategories returns all categories sorted by title
func (s *Store) GetAllCategories(ctx context.Context) ([]*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedCategories(func(*models.Category) bool { return true }), nil
}

func (s *Store) sortedCategories(keep func(*models.Category) bool) []*models.Category {
	categories := []*models.Category{}
	for _, c := range s.categories {
		if keep(c) {
			categories = append(categories, copyCategory(c))
		}
	}
	sort.Slice(categories, func(a, b int) bool {
		if categories[a].Title != categories[b].Title {
			return categories[a].Title < categories[b].Title
		}
		return s.order[categories[a].ID] < s.order[categories[b].ID]
	})
	return categories
}

// UpdateCategory replaces the title of an existing category
func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.categories[category.ID]
	if !ok {
		return apperrors.ErrCategoryNotFound
	}
	existing.Title = category.Title
	existing.UpdatedAt = s.now()
	return nil
}

// DeleteCategory deletes a category no course is filed under
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return apperrors.ErrCategoryNotFound
	}
	for _, course := range s.courses {
		if course.HasCategory(id) {
			return apperrors.ErrCategoryHasCourses
		}
	}
	delete(s.categories, id)
	delete(s.order, id)
	return nil
}

// CountCategories returns the number of categories
func (s *Store) CountCategories(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.categories), nil
}

// CreateInstructor stores an instructor and assigns its id
func (s *Store) CreateInstructor(ctx context.Context, instructor *models.Instructor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	instructor.ID = uuid.New()
	instructor.CreatedAt = s.now()
	instructor.UpdatedAt = instructor.CreatedAt
	s.instructors[instructor.ID] = copyInstructor(instructor)
	s.track(instructor.ID)
	return nil
}

// GetInstructorByID retrieves an instructor by ID
func (s *Store) GetInstructorByID(ctx context.Context, id uuid.UUID) (*models.Instructor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.instructors[id]
	if !ok {
		return nil, apperrors.ErrInstructorNotFound
	}
	return copyInstructor(i), nil
}

// GetAllInstructors returns all instructors sorted by family name, then first name
func (s *Store) GetAllInstructors(ctx context.Context) ([]*models.Instructor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	instructors := make([]*models.Instructor, 0, len(s.instructors))
	for _, i := range s.instructors {
		instructors = append(instructors, copyInstructor(i))
	}
	sort.Slice(instructors, func(a, b int) bool {
		x, y := instructors[a], instructors[b]
		if x.FamilyName != y.FamilyName {
			return x.FamilyName < y.FamilyName
		}
		if x.FirstName != y.FirstName {
			return x.FirstName < y.FirstName
		}
		return s.order[x.ID] < s.order[y.ID]
	})
	return instructors, nil
}

// UpdateInstructor replaces the fields of an existing instructor
func (s *Store) UpdateInstructor(ctx context.Context, instructor *models.Instructor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.instructors[instructor.ID]
	if !ok {
		return apperrors.ErrInstructorNotFound
	}
	existing.FirstName = instructor.FirstName
	existing.FamilyName = instructor.FamilyName
	existing.Bio = instructor.Bio
	existing.ImageURL = instructor.ImageURL
	existing.UpdatedAt = s.now()
	return nil
}

// DeleteInstructor deletes an instructor who teaches no course
func (s *Store) DeleteInstructor(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.instructors[id]; !ok {
		return apperrors.ErrInstructorNotFound
	}
	for _, course := range s.courses {
		if course.InstructorID == id {
			return apperrors.ErrInstructorHasCourses
		}
	}
	delete(s.instructors, id)
	delete(s.order, id)
	return nil
}

// CountInstructors returns the number of instructors
func (s *Store) CountInstructors(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.instructors), nil
}

// checkReferences must be called with the lock held
func (s *Store) checkReferences(course *models.Course) error {
	if _, ok := s.instructors[course.InstructorID]; !ok {
		return apperrors.ErrUnknownReference
	}
	for _, id := range course.CategoryIDs {
		if _, ok := s.categories[id]; !ok {
			return apperrors.ErrUnknownReference
		}
	}
	return nil
}

// CreateCourse stores a course and assigns its id
func (s *Store) CreateCourse(ctx context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkReferences(course); err != nil {
		return err
	}
	course.ID = uuid.New()
	course.CreatedAt = s.now()
	course.UpdatedAt = course.CreatedAt
	s.courses[course.ID] = copyCourse(course)
	s.track(course.ID)
	return nil
}

// GetCourseByID retrieves a course with its instructor and categories resolved
func (s *Store) GetCourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}

	course := copyCourse(stored)
	if instructor, ok := s.instructors[course.InstructorID]; ok {
		course.Instructor = copyInstructor(instructor)
	}
	course.Categories = s.sortedCategories(func(c *models.Category) bool { return course.HasCategory(c.ID) })
	return course, nil
}

// GetAllCourses returns all courses with instructors resolved, sorted by title
func (s *Store) GetAllCourses(ctx context.Context) ([]*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := s.sortedCourses(func(*models.Course) bool { return true })
	for _, course := range courses {
		if instructor, ok := s.instructors[course.InstructorID]; ok {
			course.Instructor = copyInstructor(instructor)
		}
	}
	return courses, nil
}

// GetCoursesByCategory returns the courses filed under a category
func (s *Store) GetCoursesByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedCourses(func(c *models.Course) bool { return c.HasCategory(categoryID) }), nil
}

// GetCoursesByInstructor returns title and description of an instructor's courses
func (s *Store) GetCoursesByInstructor(ctx context.Context, instructorID uuid.UUID) ([]*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := s.sortedCourses(func(c *models.Course) bool { return c.InstructorID == instructorID })
	for i, c := range courses {
		courses[i] = &models.Course{ID: c.ID, Title: c.Title, Description: c.Description}
	}
	return courses, nil
}

func (s *Store) sortedCourses(keep func(*models.Course) bool) []*models.Course {
	courses := []*models.Course{}
	for _, c := range s.courses {
		if keep(c) {
			courses = append(courses, copyCourse(c))
		}
	}
	sort.Slice(courses, func(a, b int) bool {
		if courses[a].Title != courses[b].Title {
			return courses[a].Title < courses[b].Title
		}
		return s.order[courses[a].ID] < s.order[courses[b].ID]
	})
	return courses
}

// UpdateCourse replaces an existing course, keeping its id
func (s *Store) UpdateCourse(ctx context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.courses[course.ID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	if err := s.checkReferences(course); err != nil {
		return err
	}

	updated := copyCourse(course)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now()
	s.courses[course.ID] = updated
	return nil
}

// DeleteCourse deletes a course
func (s *Store) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(s.courses, id)
	delete(s.order, id)
	return nil
}

// CountCourses returns the number of courses
func (s *Store) CountCourses(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses), nil
}
