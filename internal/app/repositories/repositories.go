package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursecatalog/internal/app/services"
	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
	"github.com/yigit/coursecatalog/internal/pkg/dberrors"
	"github.com/yigit/coursecatalog/internal/pkg/logger"
)

// Repositories holds all the repository instances
type Repositories struct {
	CategoryRepository   *CategoryRepository
	InstructorRepository *InstructorRepository
	CourseRepository     *CourseRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		CategoryRepository:   NewCategoryRepository(db),
		InstructorRepository: NewInstructorRepository(db),
		CourseRepository:     NewCourseRepository(db),
	}
}

// Stores exposes the repositories as the stores the services consume
func (r *Repositories) Stores() services.Stores {
	return services.Stores{
		Categories:  r.CategoryRepository,
		Instructors: r.InstructorRepository,
		Courses:     r.CourseRepository,
	}
}

// querier is implemented by *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// rejectedValue marks CHECK failures and literals the server could not parse as
// validation failures; any other error is returned unchanged.
func rejectedValue(err error) error {
	if dberrors.IsCheckViolation(err) || dberrors.IsInvalidInput(err) {
		return fmt.Errorf("%w: %w", apperrors.ErrValidationFailed, err)
	}
	return err
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// existsQuery wraps a select in SELECT EXISTS (...)
func existsQuery(sb squirrel.StatementBuilderType, table string, where squirrel.Sqlizer) squirrel.SelectBuilder {
	return sb.Select("1").
		From(table).
		Where(where).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1)
}

// lockRowQuery selects a row by id FOR UPDATE so concurrent writers referencing it
// wait for the surrounding transaction
func lockRowQuery(sb squirrel.StatementBuilderType, table string, id any) squirrel.SelectBuilder {
	return sb.Select("id").
		From(table).
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE")
}

func exists(ctx context.Context, q querier, query squirrel.SelectBuilder) (bool, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var found bool
	if err := q.QueryRow(ctx, sql, args...).Scan(&found); err != nil {
		return false, fmt.Errorf("error executing exists query: %w", err)
	}
	return found, nil
}

func countRows(ctx context.Context, q querier, sb squirrel.StatementBuilderType, table string) (int, error) {
	sql, args, err := sb.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error building count SQL")
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var n int
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error executing count query")
		return 0, fmt.Errorf("error counting %s: %w", table, err)
	}
	return n, nil
}
