package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// CategoryRepository is the remote categories collection.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	Insert(ctx context.Context, category domain.Category) (*domain.Category, error)
	UpdateByID(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error)
	DeleteByID(ctx context.Context, id string) error
}

const categoryColumnsList = `id, name, description, is_active, created_at`

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository builds the repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	const query = `SELECT ` + categoryColumnsList + ` FROM categories ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *cat)
	}
	return result, rows.Err()
}

func (r *categoryRepository) Insert(ctx context.Context, category domain.Category) (*domain.Category, error) {
	const query = `
        INSERT INTO categories (name, description, is_active)
        VALUES ($1,$2,$3)
        RETURNING ` + categoryColumnsList
	return scanCategory(r.pool.QueryRow(ctx, query,
		category.Name,
		category.Description,
		category.IsActive,
	))
}

func (r *categoryRepository) UpdateByID(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	query, args := categoryColumns(patch).updateQuery("categories", categoryColumnsList, id)
	return scanCategory(r.pool.QueryRow(ctx, query, args...))
}

func (r *categoryRepository) DeleteByID(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var cat domain.Category
	if err := row.Scan(
		&cat.ID,
		&cat.Name,
		&cat.Description,
		&cat.IsActive,
		&cat.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &cat, nil
}
