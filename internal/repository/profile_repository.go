package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// ProfileRepository persists user profiles together with their credentials.
type ProfileRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	ConfirmEmail(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context) ([]domain.User, error)
}

const profileColumnsList = `id, name, email, role, student_id, department, year, created_at, password_hash, email_confirmed_at`

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO profiles (name, email, role, student_id, department, year, password_hash, email_confirmed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	u := &account.User
	return r.pool.QueryRow(ctx, query,
		u.Name,
		strings.ToLower(u.Email),
		string(u.Role),
		u.StudentID,
		u.Department,
		u.Year,
		account.PasswordHash,
		account.EmailConfirmedAt,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `SELECT ` + profileColumnsList + ` FROM profiles WHERE id=$1`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `SELECT ` + profileColumnsList + ` FROM profiles WHERE email=$1`
	return scanAccount(r.pool.QueryRow(ctx, query, strings.ToLower(email)))
}

func (r *profileRepository) ConfirmEmail(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE profiles SET email_confirmed_at=$1 WHERE id=$2`, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *profileRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT ` + profileColumnsList + ` FROM profiles ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, account.User)
	}
	return result, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	u := &account.User
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Role,
		&u.StudentID,
		&u.Department,
		&u.Year,
		&u.CreatedAt,
		&account.PasswordHash,
		&account.EmailConfirmedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}
