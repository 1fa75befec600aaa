package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// ObjectRepository stores uploaded blobs by bucket and path.
type ObjectRepository interface {
	Put(ctx context.Context, obj *domain.StoredObject) error
	Get(ctx context.Context, bucket, path string) (*domain.StoredObject, error)
}

type objectRepository struct {
	pool *pgxpool.Pool
}

// NewObjectRepository constructs repository.
func NewObjectRepository(pool *pgxpool.Pool) ObjectRepository {
	return &objectRepository{pool: pool}
}

func (r *objectRepository) Put(ctx context.Context, obj *domain.StoredObject) error {
	const query = `
        INSERT INTO storage_objects (bucket, path, content_type, data)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (bucket, path) DO UPDATE SET content_type=EXCLUDED.content_type, data=EXCLUDED.data
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		obj.Bucket,
		obj.Path,
		obj.ContentType,
		obj.Data,
	).Scan(&obj.CreatedAt)
}

func (r *objectRepository) Get(ctx context.Context, bucket, path string) (*domain.StoredObject, error) {
	const query = `
        SELECT bucket, path, content_type, data, created_at
        FROM storage_objects WHERE bucket=$1 AND path=$2`
	var obj domain.StoredObject
	if err := r.pool.QueryRow(ctx, query, bucket, path).Scan(
		&obj.Bucket,
		&obj.Path,
		&obj.ContentType,
		&obj.Data,
		&obj.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &obj, nil
}
