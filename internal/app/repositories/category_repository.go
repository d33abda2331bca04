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

var categoryColumns = []string{"id", "title", "created_at", "updated_at"}

// CategoryRepository handles category database operations
type CategoryRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{
		db: db,
		sb: statementBuilder(),
	}
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	category := &models.Category{}
	err := row.Scan(&category.ID, &category.Title, &category.CreatedAt, &category.UpdatedAt)
	return category, err
}

// CreateCategory inserts a category and assigns its id
func (r *CategoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	category.ID = uuid.New()

	sql, args, err := r.sb.Insert("categories").
		Columns("id", "title").
		Values(category.ID, category.Title).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create category SQL")
		return fmt.Errorf("failed to build create category query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&category.CreatedAt, &category.UpdatedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create category query")
		return fmt.Errorf("error creating category: %w", rejectedValue(err))
	}
	return nil
}

// GetCategoryByID retrieves a category by ID
func (r *CategoryRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetCategoryByTitle retrieves the oldest category with exactly this title
func (r *CategoryRepository) GetCategoryByTitle(ctx context.Context, title string) (*models.Category, error) {
	return r.getOne(ctx, squirrel.Eq{"title": title})
}

func (r *CategoryRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Category, error) {
	sql, args, err := r.sb.Select(categoryColumns...).
		From("categories").
		Where(where).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get category SQL")
		return nil, fmt.Errorf("failed to build get category query: %w", err)
	}

	category, err := scanCategory(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}
		logger.Error().Err(err).Msg("Error scanning category row")
		return nil, fmt.Errorf("error getting category: %w", err)
	}
	return category, nil
}

// GetAllCategories retrieves all categories sorted by title
func (r *CategoryRepository) GetAllCategories(ctx context.Context) ([]*models.Category, error) {
	sql, args, err := r.sb.Select(categoryColumns...).
		From("categories").
		OrderBy("title ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all categories SQL")
		return nil, fmt.Errorf("failed to build get all categories query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all categories query")
		return nil, fmt.Errorf("error querying categories: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return categories, nil
}

// UpdateCategory updates the title of an existing category
func (r *CategoryRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	sql, args, err := r.sb.Update("categories").
		Set("title", category.Title).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": category.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update category SQL")
		return fmt.Errorf("failed to build update category query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("categoryID", category.ID.String()).Msg("Error executing update category query")
		return fmt.Errorf("error updating category: %w", rejectedValue(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory deletes a category no course is filed under. The row is locked for
// the length of the transaction, so a course insert referencing it waits and then
// fails its foreign key.
func (r *CategoryRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		lockSQL, lockArgs, err := lockRowQuery(r.sb, "categories", id).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build lock category query: %w", err)
		}
		var locked uuid.UUID
		if err := tx.QueryRow(ctx, lockSQL, lockArgs...).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrCategoryNotFound
			}
			return fmt.Errorf("error locking category: %w", err)
		}

		hasCourses, err := exists(ctx, tx, existsQuery(r.sb, "course_categories", squirrel.Eq{"category_id": id}))
		if err != nil {
			return err
		}
		if hasCourses {
			return apperrors.ErrCategoryHasCourses
		}

		sql, args, err := r.sb.Delete("categories").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete category query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrCategoryHasCourses
			}
			return fmt.Errorf("error deleting category: %w", err)
		}
		return nil
	})
	if err != nil && !apperrors.Is(err, apperrors.ErrCategoryNotFound, apperrors.ErrCategoryHasCourses) {
		logger.Error().Err(err).Str("categoryID", id.String()).Msg("Error deleting category")
	}
	return err
}

// CountCategories returns the number of categories
func (r *CategoryRepository) CountCategories(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, r.sb, "categories")
}
