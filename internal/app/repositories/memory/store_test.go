package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursecatalog/internal/app/models"
	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
)

func newCategory(t *testing.T, s *Store, title string) *models.Category {
	t.Helper()
	c := &models.Category{Title: title}
	require.NoError(t, s.CreateCategory(context.Background(), c))
	return c
}

func newInstructor(t *testing.T, s *Store, first, family string) *models.Instructor {
	t.Helper()
	i := &models.Instructor{FirstName: first, FamilyName: family, ImageURL: models.DefaultInstructorImage}
	require.NoError(t, s.CreateInstructor(context.Background(), i))
	return i
}

func newCourse(t *testing.T, s *Store, title string, instructor *models.Instructor, categories ...*models.Category) *models.Course {
	t.Helper()
	c := models.NewCourse()
	c.Title = title
	c.Description = title + " description"
	c.InstructorID = instructor.ID
	for _, cat := range categories {
		c.CategoryIDs = append(c.CategoryIDs, cat.ID)
	}
	require.NoError(t, s.CreateCourse(context.Background(), c))
	return c
}

func titles[T any](items []T, title func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, title(item))
	}
	return out
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	science := newCategory(t, s, "Science")
	health := newCategory(t, s, "Health")
	dup := newCategory(t, s, "Health")
	assert.NotEqual(t, uuid.Nil, science.ID)
	assert.False(t, science.CreatedAt.IsZero())

	all, err := s.GetAllCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Health", "Health", "Science"}, titles(all, func(c *models.Category) string { return c.Title }))
	assert.Equal(t, health.ID, all[0].ID, "ties keep insertion order")
	assert.Equal(t, dup.ID, all[1].ID)

	byTitle, err := s.GetCategoryByTitle(ctx, "Health")
	require.NoError(t, err)
	assert.Equal(t, health.ID, byTitle.ID)

	_, err = s.GetCategoryByTitle(ctx, "health")
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)

	require.NoError(t, s.UpdateCategory(ctx, &models.Category{ID: science.ID, Title: "Sciences"}))
	got, err := s.GetCategoryByID(ctx, science.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sciences", got.Title)

	assert.ErrorIs(t, s.UpdateCategory(ctx, &models.Category{ID: uuid.New(), Title: "x"}), apperrors.ErrCategoryNotFound)
	_, err = s.GetCategoryByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)

	n, err := s.CountCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	health := newCategory(t, s, "Health")

	got, err := s.GetCategoryByID(ctx, health.ID)
	require.NoError(t, err)
	got.Title = "Changed"
	health.Title = "Changed too"

	again, err := s.GetCategoryByID(ctx, health.ID)
	require.NoError(t, err)
	assert.Equal(t, "Health", again.Title)
}

func TestInstructorsSortedByFamilyThenFirstName(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	newInstructor(t, s, "Isaac", "Asimov")
	newInstructor(t, s, "Ben", "Bova")
	newInstructor(t, s, "Anna", "Asimov")

	all, err := s.GetAllInstructors(ctx)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"Asimov, Anna", "Asimov, Isaac", "Bova, Ben"},
		titles(all, func(i *models.Instructor) string { return i.DisplayName() }),
	)
}

func TestCourseReferences(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	ada := newInstructor(t, s, "Ada", "Lovelace")
	health := newCategory(t, s, "Health")

	missingInstructor := models.NewCourse()
	missingInstructor.Title = "Orphan"
	missingInstructor.InstructorID = uuid.New()
	assert.ErrorIs(t, s.CreateCourse(ctx, missingInstructor), apperrors.ErrUnknownReference)

	missingCategory := models.NewCourse()
	missingCategory.Title = "Lost"
	missingCategory.InstructorID = ada.ID
	missingCategory.CategoryIDs = []uuid.UUID{health.ID, uuid.New()}
	assert.ErrorIs(t, s.CreateCourse(ctx, missingCategory), apperrors.ErrUnknownReference)

	n, err := s.CountCourses(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCourseQueries(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	ada := newInstructor(t, s, "Ada", "Lovelace")
	alan := newInstructor(t, s, "Alan", "Turing")
	health := newCategory(t, s, "Health")
	science := newCategory(t, s, "Science")

	engines := newCourse(t, s, "Engines", ada, science, health)
	newCourse(t, s, "Computability", alan, science)
	newCourse(t, s, "Analysis", ada)

	course, err := s.GetCourseByID(ctx, engines.ID)
	require.NoError(t, err)
	require.NotNil(t, course.Instructor)
	assert.Equal(t, "Lovelace, Ada", course.Instructor.DisplayName())
	assert.Equal(t, []string{"Health", "Science"}, titles(course.Categories, func(c *models.Category) string { return c.Title }))
	assert.Equal(t, 30, course.LeftSpots)

	all, err := s.GetAllCourses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Analysis", "Computability", "Engines"}, titles(all, func(c *models.Course) string { return c.Title }))
	for _, c := range all {
		assert.NotNil(t, c.Instructor)
	}

	inScience, err := s.GetCoursesByCategory(ctx, science.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Computability", "Engines"}, titles(inScience, func(c *models.Course) string { return c.Title }))

	byAda, err := s.GetCoursesByInstructor(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, byAda, 2)
	assert.Equal(t, "Analysis description", byAda[0].Description)
	assert.Equal(t, uuid.Nil, byAda[0].InstructorID, "projection carries title and description only")

	_, err = s.GetCourseByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestUpdateCourseReplacesCategorySet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	ada := newInstructor(t, s, "Ada", "Lovelace")
	health := newCategory(t, s, "Health")
	science := newCategory(t, s, "Science")
	course := newCourse(t, s, "Engines", ada, health)

	updated := models.NewCourse()
	updated.ID = course.ID
	updated.Title = "Difference Engines"
	updated.InstructorID = ada.ID
	updated.CategoryIDs = []uuid.UUID{science.ID}
	updated.LeftSpots = 0
	require.NoError(t, s.UpdateCourse(ctx, updated))

	got, err := s.GetCourseByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Difference Engines", got.Title)
	assert.Equal(t, []uuid.UUID{science.ID}, got.CategoryIDs)
	assert.Equal(t, 0, got.LeftSpots)
	assert.Equal(t, course.CreatedAt, got.CreatedAt)

	updated.ID = uuid.New()
	assert.ErrorIs(t, s.UpdateCourse(ctx, updated), apperrors.ErrCourseNotFound)
}

func TestGuardedDeletes(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	ada := newInstructor(t, s, "Ada", "Lovelace")
	health := newCategory(t, s, "Health")
	course := newCourse(t, s, "Engines", ada, health)

	assert.ErrorIs(t, s.DeleteCategory(ctx, health.ID), apperrors.ErrCategoryHasCourses)
	assert.ErrorIs(t, s.DeleteInstructor(ctx, ada.ID), apperrors.ErrInstructorHasCourses)

	require.NoError(t, s.DeleteCourse(ctx, course.ID))
	assert.ErrorIs(t, s.DeleteCourse(ctx, course.ID), apperrors.ErrCourseNotFound)

	require.NoError(t, s.DeleteCategory(ctx, health.ID))
	require.NoError(t, s.DeleteInstructor(ctx, ada.ID))
	assert.ErrorIs(t, s.DeleteCategory(ctx, health.ID), apperrors.ErrCategoryNotFound)
	assert.ErrorIs(t, s.DeleteInstructor(ctx, ada.ID), apperrors.ErrInstructorNotFound)
}

// A course create racing a category delete either lands before the delete (which is
// then refused) or fails its reference check; it never points at a deleted category.
func TestDeleteRacesCreate(t *testing.T) {
	ctx := context.Background()

	for range 50 {
		s := NewStore()
		ada := newInstructor(t, s, "Ada", "Lovelace")
		health := newCategory(t, s, "Health")

		var (
			wg        sync.WaitGroup
			deleteErr error
			createErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			deleteErr = s.DeleteCategory(ctx, health.ID)
		}()
		go func() {
			defer wg.Done()
			c := models.NewCourse()
			c.Title = "Engines"
			c.InstructorID = ada.ID
			c.CategoryIDs = []uuid.UUID{health.ID}
			createErr = s.CreateCourse(ctx, c)
		}()
		wg.Wait()

		if createErr == nil {
			assert.ErrorIs(t, deleteErr, apperrors.ErrCategoryHasCourses)
		} else {
			assert.ErrorIs(t, createErr, apperrors.ErrUnknownReference)
			assert.NoError(t, deleteErr)
		}
	}
}
