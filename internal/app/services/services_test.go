package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yigit/coursecatalog/internal/app/models"
	"github.com/yigit/coursecatalog/internal/app/repositories/memory"
	"github.com/yigit/coursecatalog/internal/app/services"
	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	stores   services.Stores
	services *services.Services
}

func newFixture() *fixture {
	stores := memory.NewStore().Stores()
	return &fixture{stores: stores, services: services.NewServices(stores)}
}

func (f *fixture) instructor(t *testing.T, first, family string) *models.Instructor {
	t.Helper()
	i := &models.Instructor{FirstName: first, FamilyName: family}
	require.NoError(t, f.services.InstructorService.CreateInstructor(context.Background(), i))
	return i
}

func (f *fixture) category(t *testing.T, title string) *models.Category {
	t.Helper()
	c, created, err := f.services.CategoryService.CreateCategory(context.Background(), title)
	require.NoError(t, err)
	require.True(t, created)
	return c
}

func (f *fixture) course(t *testing.T, title string, instructor *models.Instructor, categories ...*models.Category) *models.Course {
	t.Helper()
	c := models.NewCourse()
	c.Title = title
	c.InstructorID = instructor.ID
	for _, cat := range categories {
		c.CategoryIDs = append(c.CategoryIDs, cat.ID)
	}
	require.NoError(t, f.services.CourseService.CreateCourse(context.Background(), c))
	return c
}

func TestCreateCategoryIsIdempotentByTitle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	first, created, err := f.services.CategoryService.CreateCategory(ctx, "Health")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := f.services.CategoryService.CreateCategory(ctx, "Health")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	n, err := f.stores.Categories.CountCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDeleteCategoryGuard(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ada := f.instructor(t, "Ada", "Lovelace")
	health := f.category(t, "Health")
	course := f.course(t, "Engines", ada, health)

	detail, err := f.services.CategoryService.DeleteCategory(ctx, health.ID)
	assert.ErrorIs(t, err, apperrors.ErrCategoryHasCourses)
	require.NotNil(t, detail)
	require.Len(t, detail.Courses, 1)
	assert.Equal(t, course.ID, detail.Courses[0].ID)

	require.NoError(t, f.services.CourseService.DeleteCourse(ctx, course.ID))

	_, err = f.services.CategoryService.DeleteCategory(ctx, health.ID)
	require.NoError(t, err)

	_, err = f.services.CategoryService.GetCategory(ctx, health.ID)
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)

	_, err = f.services.CategoryService.DeleteCategory(ctx, health.ID)
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
}

func TestDeleteInstructorGuard(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ada := f.instructor(t, "Ada", "Lovelace")
	course := f.course(t, "Engines", ada)

	detail, err := f.services.InstructorService.DeleteInstructor(ctx, ada.ID)
	assert.ErrorIs(t, err, apperrors.ErrInstructorHasCourses)
	require.Len(t, detail.Courses, 1)

	require.NoError(t, f.services.CourseService.DeleteCourse(ctx, course.ID))

	detail, err = f.services.InstructorService.DeleteInstructor(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, ada.ID, detail.Instructor.ID)
}

func TestInstructorImageDefaultsToPlaceholder(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ada := f.instructor(t, "Ada", "Lovelace")
	assert.Equal(t, models.DefaultInstructorImage, ada.ImageURL)

	ada.ImageURL = ""
	require.NoError(t, f.services.InstructorService.UpdateInstructor(ctx, ada))
	got, err := f.services.InstructorService.GetInstructor(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultInstructorImage, got.ImageURL)

	missing := &models.Instructor{ID: uuid.New(), FirstName: "No", FamilyName: "One"}
	assert.ErrorIs(t, f.services.InstructorService.UpdateInstructor(ctx, missing), apperrors.ErrInstructorNotFound)
}

func TestGetDetails(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ada := f.instructor(t, "Ada", "Lovelace")
	health := f.category(t, "Health")
	f.course(t, "Engines", ada, health)
	f.course(t, "Analysis", ada)

	categoryDetail, err := f.services.CategoryService.GetCategoryDetail(ctx, health.ID)
	require.NoError(t, err)
	assert.Equal(t, "Health", categoryDetail.Category.Title)
	assert.Len(t, categoryDetail.Courses, 1)

	instructorDetail, err := f.services.InstructorService.GetInstructorDetail(ctx, ada.ID)
	require.NoError(t, err)
	assert.Len(t, instructorDetail.Courses, 2)

	_, err = f.services.InstructorService.GetInstructorDetail(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrInstructorNotFound)
	_, err = f.services.CategoryService.GetCategoryDetail(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
}

func TestCourseWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ada := f.instructor(t, "Ada", "Lovelace")
	health := f.category(t, "Health")

	course := models.NewCourse()
	course.Title = "Engines"
	course.InstructorID = ada.ID
	course.CategoryIDs = nil
	require.NoError(t, f.services.CourseService.CreateCourse(ctx, course))
	assert.NotNil(t, course.CategoryIDs)

	course.CategoryIDs = []uuid.UUID{health.ID}
	course.LeftSpots = 10
	require.NoError(t, f.services.CourseService.UpdateCourse(ctx, course))

	got, err := f.services.CourseService.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.LeftSpots)
	assert.Equal(t, []uuid.UUID{health.ID}, got.CategoryIDs)

	course.InstructorID = uuid.New()
	assert.ErrorIs(t, f.services.CourseService.UpdateCourse(ctx, course), apperrors.ErrUnknownReference)

	orphan := models.NewCourse()
	orphan.Title = "Orphan"
	orphan.InstructorID = uuid.New()
	assert.ErrorIs(t, f.services.CourseService.CreateCourse(ctx, orphan), apperrors.ErrUnknownReference)

	course.ID = uuid.New()
	course.InstructorID = ada.ID
	assert.ErrorIs(t, f.services.CourseService.UpdateCourse(ctx, course), apperrors.ErrCourseNotFound)
	assert.ErrorIs(t, f.services.CourseService.DeleteCourse(ctx, course.ID), apperrors.ErrCourseNotFound)
}

func TestGetCourseForUpdateChecksFiledCategories(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ada := f.instructor(t, "Ada", "Lovelace")
	health := f.category(t, "Health")
	science := f.category(t, "Science")
	course := f.course(t, "Engines", ada, science)

	got, options, err := f.services.CourseService.GetCourseForUpdate(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, got.ID)
	require.Len(t, options.Instructors, 1)

	type checked struct {
		ID      uuid.UUID
		Checked bool
	}
	var have []checked
	for _, o := range options.Categories {
		have = append(have, checked{ID: o.ID, Checked: o.Checked})
	}
	want := []checked{{ID: health.ID, Checked: false}, {ID: science.ID, Checked: true}}
	if diff := cmp.Diff(want, have); diff != "" {
		t.Errorf("category options mismatch (-want +got):\n%s", diff)
	}

	_, _, err = f.services.CourseService.GetCourseForUpdate(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestGetFormOptionsMarksSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	health := f.category(t, "Health")
	f.category(t, "Science")

	options, err := f.services.CourseService.GetFormOptions(ctx, []uuid.UUID{health.ID})
	require.NoError(t, err)
	require.Len(t, options.Categories, 2)
	assert.True(t, options.Categories[0].Checked)
	assert.False(t, options.Categories[1].Checked)
	assert.Empty(t, options.Instructors)
}

type failingInstructorCount struct {
	services.InstructorStore
}

var errCountUnavailable = errors.New("count unavailable")

func (failingInstructorCount) CountInstructors(context.Context) (int, error) {
	return 0, errCountUnavailable
}

func TestGetDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ada := f.instructor(t, "Ada", "Lovelace")
	health := f.category(t, "Health")
	f.course(t, "Engines", ada, health)
	f.course(t, "Analysis", ada)

	dashboard, err := f.services.CourseService.GetDashboard(ctx)
	require.NoError(t, err)
	require.NotNil(t, dashboard.CourseCount)
	assert.Equal(t, 2, *dashboard.CourseCount)
	assert.Equal(t, 1, *dashboard.InstructorCount)
	assert.Equal(t, 1, *dashboard.CategoryCount)

	t.Run("one count failing keeps the others", func(t *testing.T) {
		svc := services.NewCourseService(f.stores.Courses, failingInstructorCount{f.stores.Instructors}, f.stores.Categories)

		dashboard, err := svc.GetDashboard(ctx)
		assert.ErrorIs(t, err, errCountUnavailable)
		require.NotNil(t, dashboard)
		assert.Nil(t, dashboard.InstructorCount)
		require.NotNil(t, dashboard.CourseCount)
		assert.Equal(t, 2, *dashboard.CourseCount)
		require.NotNil(t, dashboard.CategoryCount)
		assert.Equal(t, 1, *dashboard.CategoryCount)
	})
}

func TestListsAreSorted(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	turing := f.instructor(t, "Alan", "Turing")
	f.instructor(t, "Ada", "Lovelace")
	f.category(t, "Science")
	f.category(t, "Health")
	f.course(t, "Engines", turing)
	f.course(t, "Analysis", turing)

	instructors, err := f.services.InstructorService.ListInstructors(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", instructors[0].FamilyName)

	categories, err := f.services.CategoryService.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Health", categories[0].Title)

	courses, err := f.services.CourseService.ListCourses(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Analysis", courses[0].Title)
	require.NotNil(t, courses[0].Instructor)
	assert.Equal(t, "Turing, Alan", courses[0].Instructor.DisplayName())
}
