package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// MessageRepository is the remote messages collection.
type MessageRepository interface {
	List(ctx context.Context) ([]domain.Message, error)
	Insert(ctx context.Context, msg domain.Message) (*domain.Message, error)
	UpdateByID(ctx context.Context, id string, patch domain.MessagePatch) (*domain.Message, error)
	DeleteByID(ctx context.Context, id string) error
}

const messageColumnsList = `id, name, email, subject, message, date, is_read, created_at`

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository builds repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) List(ctx context.Context) ([]domain.Message, error) {
	const query = `SELECT ` + messageColumnsList + ` FROM messages ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *msg)
	}
	return result, rows.Err()
}

func (r *messageRepository) Insert(ctx context.Context, msg domain.Message) (*domain.Message, error) {
	const query = `
        INSERT INTO messages (name, email, subject, message, date, is_read)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING ` + messageColumnsList
	date := msg.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return scanMessage(r.pool.QueryRow(ctx, query,
		msg.Name,
		msg.Email,
		msg.Subject,
		msg.Body,
		date,
		msg.IsRead,
	))
}

func (r *messageRepository) UpdateByID(ctx context.Context, id string, patch domain.MessagePatch) (*domain.Message, error) {
	query, args := messageColumns(patch).updateQuery("messages", messageColumnsList, id)
	return scanMessage(r.pool.QueryRow(ctx, query, args...))
}

func (r *messageRepository) DeleteByID(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var msg domain.Message
	if err := row.Scan(
		&msg.ID,
		&msg.Name,
		&msg.Email,
		&msg.Subject,
		&msg.Body,
		&msg.Date,
		&msg.IsRead,
		&msg.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &msg, nil
}
