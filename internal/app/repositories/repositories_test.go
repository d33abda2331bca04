package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
	"github.com/yigit/coursecatalog/internal/pkg/dberrors"
)

func TestLockRowQuery(t *testing.T) {
	id := uuid.New()

	sql, args, err := lockRowQuery(statementBuilder(), "categories", id).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM categories WHERE id = $1 FOR UPDATE", sql)
	// squirrel.Eq resolves driver.Valuer, so the uuid is bound as its string form
	assert.Equal(t, []interface{}{id.String()}, args)
}

func TestExistsQuery(t *testing.T) {
	id := uuid.New()

	sql, args, err := existsQuery(statementBuilder(), "course_categories", squirrel.Eq{"category_id": id}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT EXISTS (")
	assert.Contains(t, sql, "SELECT 1 FROM course_categories WHERE category_id = $1")
	assert.Contains(t, sql, "LIMIT 1")
	assert.Equal(t, []interface{}{id.String()}, args)
}

func TestInsertCategoriesQuery(t *testing.T) {
	repo := NewCourseRepository(nil)
	courseID, a, b := uuid.New(), uuid.New(), uuid.New()

	sql, args, err := repo.insertCategoriesQuery(courseID, []uuid.UUID{a, b}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO course_categories (course_id,category_id) VALUES ($1,$2),($3,$4)", sql)
	assert.Equal(t, []interface{}{courseID, a, courseID, b}, args)
}

func TestSelectCourseCategories(t *testing.T) {
	repo := NewCourseRepository(nil)
	courseID := uuid.New()

	sql, args, err := repo.selectCourseCategories(courseID).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT cat.id, cat.title, cat.created_at, cat.updated_at FROM categories cat "+
			"JOIN course_categories cc ON cc.category_id = cat.id WHERE cc.course_id = $1 ORDER BY cat.title ASC",
		sql,
	)
	assert.Equal(t, []interface{}{courseID.String()}, args)
}

func TestSelectCourseWithInstructorJoins(t *testing.T) {
	sql, _, err := NewCourseRepository(nil).selectCourseWithInstructor().ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM courses c JOIN instructors i ON i.id = c.instructor_id")
}

func TestRepositoriesExposeStores(t *testing.T) {
	repos := NewRepositories(nil)
	stores := repos.Stores()

	assert.Same(t, repos.CategoryRepository, stores.Categories)
	assert.Same(t, repos.InstructorRepository, stores.Instructors)
	assert.Same(t, repos.CourseRepository, stores.Courses)
}

func TestMapWriteError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		want         error
		wantRejected bool
	}{
		{
			name: "foreign key",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: dberrors.CodeForeignKeyViolation, ConstraintName: "courses_instructor_id_fkey"}),
			want: apperrors.ErrUnknownReference,
		},
		{
			name:         "check violation",
			err:          &pgconn.PgError{Code: dberrors.CodeCheckViolation, ConstraintName: "courses_left_spots_check"},
			wantRejected: true,
		},
		{
			name:         "malformed literal",
			err:          &pgconn.PgError{Code: dberrors.CodeInvalidTextRepr},
			wantRejected: true,
		},
		{
			name: "connection failure",
			err:  errors.New("conn reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapWriteError(tt.err, "creating")
			if tt.want != nil {
				assert.ErrorIs(t, got, tt.want)
				return
			}
			assert.Equal(t, tt.wantRejected, errors.Is(got, apperrors.ErrValidationFailed))
			assert.NotErrorIs(t, got, apperrors.ErrUnknownReference)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestRejectedValueKeepsOtherErrors(t *testing.T) {
	plain := errors.New("timeout")
	assert.Same(t, plain, rejectedValue(plain))

	check := &pgconn.PgError{Code: dberrors.CodeCheckViolation}
	var pgErr *pgconn.PgError
	require.ErrorAs(t, rejectedValue(check), &pgErr)
	assert.Equal(t, dberrors.CodeCheckViolation, pgErr.Code)
}
