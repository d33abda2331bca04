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

var instructorColumns = []string{"id", "first_name", "family_name", "bio", "image_url", "created_at", "updated_at"}

// InstructorRepository handles instructor database operations
type InstructorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInstructorRepository creates a new InstructorRepository
func NewInstructorRepository(db *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{
		db: db,
		sb: statementBuilder(),
	}
}

func scanInstructor(row pgx.Row) (*models.Instructor, error) {
	i := &models.Instructor{}
	err := row.Scan(&i.ID, &i.FirstName, &i.FamilyName, &i.Bio, &i.ImageURL, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

// CreateInstructor inserts an instructor and assigns its id
func (r *InstructorRepository) CreateInstructor(ctx context.Context, instructor *models.Instructor) error {
	instructor.ID = uuid.New()

	sql, args, err := r.sb.Insert("instructors").
		Columns("id", "first_name", "family_name", "bio", "image_url").
		Values(instructor.ID, instructor.FirstName, instructor.FamilyName, instructor.Bio, instructor.ImageURL).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create instructor SQL")
		return fmt.Errorf("failed to build create instructor query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&instructor.CreatedAt, &instructor.UpdatedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create instructor query")
		return fmt.Errorf("error creating instructor: %w", rejectedValue(err))
	}
	return nil
}

// GetInstructorByID retrieves an instructor by ID
func (r *InstructorRepository) GetInstructorByID(ctx context.Context, id uuid.UUID) (*models.Instructor, error) {
	sql, args, err := r.sb.Select(instructorColumns...).
		From("instructors").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get instructor by ID SQL")
		return nil, fmt.Errorf("failed to build get instructor query: %w", err)
	}

	instructor, err := scanInstructor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInstructorNotFound
		}
		logger.Error().Err(err).Str("instructorID", id.String()).Msg("Error scanning instructor row")
		return nil, fmt.Errorf("error getting instructor by ID: %w", err)
	}
	return instructor, nil
}

// GetAllInstructors retrieves all instructors sorted by family name, then first name
func (r *InstructorRepository) GetAllInstructors(ctx context.Context) ([]*models.Instructor, error) {
	sql, args, err := r.sb.Select(instructorColumns...).
		From("instructors").
		OrderBy("family_name ASC", "first_name ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all instructors SQL")
		return nil, fmt.Errorf("failed to build get all instructors query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all instructors query")
		return nil, fmt.Errorf("error querying instructors: %w", err)
	}
	defer rows.Close()

	instructors := []*models.Instructor{}
	for rows.Next() {
		instructor, err := scanInstructor(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning instructor row: %w", err)
		}
		instructors = append(instructors, instructor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instructor rows: %w", err)
	}

	return instructors, nil
}

// UpdateInstructor updates an existing instructor
func (r *InstructorRepository) UpdateInstructor(ctx context.Context, instructor *models.Instructor) error {
	sql, args, err := r.sb.Update("instructors").
		SetMap(map[string]interface{}{
			"first_name":  instructor.FirstName,
			"family_name": instructor.FamilyName,
			"bio":         instructor.Bio,
			"image_url":   instructor.ImageURL,
			"updated_at":  squirrel.Expr("CURRENT_TIMESTAMP"),
		}).
		Where(squirrel.Eq{"id": instructor.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update instructor SQL")
		return fmt.Errorf("failed to build update instructor query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("instructorID", instructor.ID.String()).Msg("Error executing update instructor query")
		return fmt.Errorf("error updating instructor: %w", rejectedValue(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInstructorNotFound
	}
	return nil
}

// DeleteInstructor deletes an instructor who teaches no course, under a row lock
func (r *InstructorRepository) DeleteInstructor(ctx context.Context, id uuid.UUID) error {
	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		lockSQL, lockArgs, err := lockRowQuery(r.sb, "instructors", id).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build lock instructor query: %w", err)
		}
		var locked uuid.UUID
		if err := tx.QueryRow(ctx, lockSQL, lockArgs...).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrInstructorNotFound
			}
			return fmt.Errorf("error locking instructor: %w", err)
		}

		hasCourses, err := exists(ctx, tx, existsQuery(r.sb, "courses", squirrel.Eq{"instructor_id": id}))
		if err != nil {
			return err
		}
		if hasCourses {
			return apperrors.ErrInstructorHasCourses
		}

		sql, args, err := r.sb.Delete("instructors").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete instructor query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrInstructorHasCourses
			}
			return fmt.Errorf("error deleting instructor: %w", err)
		}
		return nil
	})
	if err != nil && !apperrors.Is(err, apperrors.ErrInstructorNotFound, apperrors.ErrInstructorHasCourses) {
		logger.Error().Err(err).Str("instructorID", id.String()).Msg("Error deleting instructor")
	}
	return err
}

// CountInstructors returns the number of instructors
func (r *InstructorRepository) CountInstructors(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, r.sb, "instructors")
}
