package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursecatalog/internal/app/models"
	"github.com/yigit/coursecatalog/internal/db"
	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
	"github.com/yigit/coursecatalog/internal/pkg/dberrors"
	"github.com/yigit/coursecatalog/internal/pkg/logger"
)

// CourseRepository handles course database operations. The category set lives in
// course_categories and is written in the same transaction as the course row.
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// mapWriteError turns foreign key failures into ErrUnknownReference
func mapWriteError(err error, action string) error {
	if dberrors.IsForeignKeyViolation(err) {
		return apperrors.ErrUnknownReference
	}
	return fmt.Errorf("error %s course: %w", action, rejectedValue(err))
}

// CreateCourse inserts a course and its category set
func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	course.ID = uuid.New()

	sql, args, err := r.sb.Insert("courses").
		Columns("id", "title", "instructor_id", "description", "left_spots").
		Values(course.ID, course.Title, course.InstructorID, course.Description, course.LeftSpots).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	err = db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, sql, args...).Scan(&course.CreatedAt, &course.UpdatedAt); err != nil {
			return mapWriteError(err, "creating")
		}
		return r.writeCategories(ctx, tx, course.ID, course.CategoryIDs)
	})
	if err != nil && !errors.Is(err, apperrors.ErrUnknownReference) {
		logger.Error().Err(err).Msg("Error creating course")
	}
	return err
}

// insertCategoriesQuery builds one multi-row insert for the category set
func (r *CourseRepository) insertCategoriesQuery(courseID uuid.UUID, categoryIDs []uuid.UUID) squirrel.InsertBuilder {
	insert := r.sb.Insert("course_categories").Columns("course_id", "category_id")
	for _, categoryID := range categoryIDs {
		insert = insert.Values(courseID, categoryID)
	}
	return insert
}

func (r *CourseRepository) writeCategories(ctx context.Context, tx pgx.Tx, courseID uuid.UUID, categoryIDs []uuid.UUID) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	sql, args, err := r.insertCategoriesQuery(courseID, categoryIDs).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build course categories query: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return mapWriteError(err, "filing")
	}
	return nil
}

// selectCourseWithInstructor joins every course column with the instructor's
func (r *CourseRepository) selectCourseWithInstructor() squirrel.SelectBuilder {
	return r.sb.Select(
		"c.id", "c.title", "c.instructor_id", "c.description", "c.left_spots", "c.created_at", "c.updated_at",
		"i.id", "i.first_name", "i.family_name", "i.bio", "i.image_url", "i.created_at", "i.updated_at",
	).
		From("courses c").
		Join("instructors i ON i.id = c.instructor_id")
}

func scanCourseWithInstructor(row pgx.Row) (*models.Course, error) {
	c := &models.Course{Instructor: &models.Instructor{}}
	i := c.Instructor
	err := row.Scan(
		&c.ID, &c.Title, &c.InstructorID, &c.Description, &c.LeftSpots, &c.CreatedAt, &c.UpdatedAt,
		&i.ID, &i.FirstName, &i.FamilyName, &i.Bio, &i.ImageURL, &i.CreatedAt, &i.UpdatedAt,
	)
	return c, err
}

// GetCourseByID retrieves a course with its instructor and categories
func (r *CourseRepository) GetCourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	sql, args, err := r.selectCourseWithInstructor().
		Where(squirrel.Eq{"c.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course by ID SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourseWithInstructor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("courseID", id.String()).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}

	categories, err := r.getCourseCategories(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Categories = categories
	course.CategoryIDs = make([]uuid.UUID, 0, len(categories))
	for _, category := range categories {
		course.CategoryIDs = append(course.CategoryIDs, category.ID)
	}

	return course, nil
}

func (r *CourseRepository) selectCourseCategories(courseID uuid.UUID) squirrel.SelectBuilder {
	return r.sb.Select("cat.id", "cat.title", "cat.created_at", "cat.updated_at").
		From("categories cat").
		Join("course_categories cc ON cc.category_id = cat.id").
		Where(squirrel.Eq{"cc.course_id": courseID}).
		OrderBy("cat.title ASC")
}

func (r *CourseRepository) getCourseCategories(ctx context.Context, courseID uuid.UUID) ([]*models.Category, error) {
	sql, args, err := r.selectCourseCategories(courseID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course categories query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("courseID", courseID.String()).Msg("Error querying course categories")
		return nil, fmt.Errorf("error querying course categories: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course category rows: %w", err)
	}
	return categories, nil
}

// GetAllCourses retrieves every course with its instructor, sorted by title
func (r *CourseRepository) GetAllCourses(ctx context.Context) ([]*models.Course, error) {
	sql, args, err := r.sb.Select("c.id", "c.title", "c.instructor_id", "i.id", "i.first_name", "i.family_name").
		From("courses c").
		Join("instructors i ON i.id = c.instructor_id").
		OrderBy("c.title ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all courses SQL")
		return nil, fmt.Errorf("failed to build get all courses query: %w", err)
	}

	return r.queryCourses(ctx, sql, args, func(row pgx.Rows) (*models.Course, error) {
		c := &models.Course{Instructor: &models.Instructor{}}
		err := row.Scan(&c.ID, &c.Title, &c.InstructorID, &c.Instructor.ID, &c.Instructor.FirstName, &c.Instructor.FamilyName)
		return c, err
	})
}

// GetCoursesByCategory retrieves the courses filed under a category, sorted by title
func (r *CourseRepository) GetCoursesByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Course, error) {
	sql, args, err := r.sb.Select("c.id", "c.title", "c.description").
		From("courses c").
		Join("course_categories cc ON cc.course_id = c.id").
		Where(squirrel.Eq{"cc.category_id": categoryID}).
		OrderBy("c.title ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get courses by category SQL")
		return nil, fmt.Errorf("failed to build courses by category query: %w", err)
	}

	return r.queryCourses(ctx, sql, args, scanCourseSummary)
}

// GetCoursesByInstructor retrieves title and description of the courses an instructor teaches
func (r *CourseRepository) GetCoursesByInstructor(ctx context.Context, instructorID uuid.UUID) ([]*models.Course, error) {
	sql, args, err := r.sb.Select("id", "title", "description").
		From("courses").
		Where(squirrel.Eq{"instructor_id": instructorID}).
		OrderBy("title ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get courses by instructor SQL")
		return nil, fmt.Errorf("failed to build courses by instructor query: %w", err)
	}

	return r.queryCourses(ctx, sql, args, scanCourseSummary)
}

func scanCourseSummary(row pgx.Rows) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(&c.ID, &c.Title, &c.Description)
	return c, err
}

func (r *CourseRepository) queryCourses(ctx context.Context, sql string, args []interface{}, scan func(pgx.Rows) (*models.Course, error)) ([]*models.Course, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}

// UpdateCourse updates a course in place and replaces its category set
func (r *CourseRepository) UpdateCourse(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		SetMap(map[string]interface{}{
			"title":         course.Title,
			"instructor_id": course.InstructorID,
			"description":   course.Description,
			"left_spots":    course.LeftSpots,
			"updated_at":    squirrel.Expr("CURRENT_TIMESTAMP"),
		}).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update course SQL")
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	clearSQL, clearArgs, err := r.sb.Delete("course_categories").
		Where(squirrel.Eq{"course_id": course.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear course categories query: %w", err)
	}

	err = db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return mapWriteError(err, "updating")
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrCourseNotFound
		}

		if _, err := tx.Exec(ctx, clearSQL, clearArgs...); err != nil {
			return fmt.Errorf("error clearing course categories: %w", err)
		}
		return r.writeCategories(ctx, tx, course.ID, course.CategoryIDs)
	})
	if err != nil && !apperrors.Is(err, apperrors.ErrCourseNotFound, apperrors.ErrUnknownReference) {
		logger.Error().Err(err).Str("courseID", course.ID.String()).Msg("Error updating course")
	}
	return err
}

// DeleteCourse deletes a course; its category rows cascade
func (r *CourseRepository) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.sb.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete course SQL")
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("courseID", id.String()).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// CountCourses returns the number of courses
func (r *CourseRepository) CountCourses(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, r.sb, "courses")
}
