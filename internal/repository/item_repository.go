package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// ItemRepository is the remote items collection.
type ItemRepository interface {
	List(ctx context.Context) ([]domain.Item, error)
	Insert(ctx context.Context, item domain.Item) (*domain.Item, error)
	UpdateByID(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error)
	DeleteByID(ctx context.Context, id string) error
}

const itemColumnsList = `id, title, description, category, status, previous_status, date, location,
               image, contact_email, created_by, created_at`

type itemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository instantiates repository.
func NewItemRepository(pool *pgxpool.Pool) ItemRepository {
	return &itemRepository{pool: pool}
}

func (r *itemRepository) List(ctx context.Context) ([]domain.Item, error) {
	const query = `SELECT ` + itemColumnsList + ` FROM items ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	return result, rows.Err()
}

func (r *itemRepository) Insert(ctx context.Context, item domain.Item) (*domain.Item, error) {
	const query = `
        INSERT INTO items (title, description, category, status, previous_status, date, location, image, contact_email, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING ` + itemColumnsList
	date := item.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return scanItem(r.pool.QueryRow(ctx, query,
		item.Title,
		item.Description,
		string(item.Category),
		string(item.Status),
		nullableStatus(item.PreviousStatus),
		date,
		item.Location,
		item.Image,
		item.ContactEmail,
		string(item.CreatedBy),
	))
}

func (r *itemRepository) UpdateByID(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error) {
	query, args := itemColumns(patch).updateQuery("items", itemColumnsList, id)
	return scanItem(r.pool.QueryRow(ctx, query, args...))
}

func (r *itemRepository) DeleteByID(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	if err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Category,
		&item.Status,
		&item.PreviousStatus,
		&item.Date,
		&item.Location,
		&item.Image,
		&item.ContactEmail,
		&item.CreatedBy,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func nullableStatus(s *domain.ItemStatus) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}
