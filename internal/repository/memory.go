package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// memTable keeps rows in insertion order and lists them newest first.
// It backs the in-memory repositories used when no Postgres DSN is set.
type memTable[T any] struct {
	mu    sync.RWMutex
	rows  []T
	getID func(T) string
}

func (t *memTable[T]) list() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.rows))
	for i := len(t.rows) - 1; i >= 0; i-- {
		out = append(out, t.rows[i])
	}
	return out
}

func (t *memTable[T]) insert(row T) *T {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, row)
	return &row
}

// insertUnless appends row unless an existing row matches conflict. The
// check and the append happen under one lock.
func (t *memTable[T]) insertUnless(row T, conflict func(T) bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, existing := range t.rows {
		if conflict(existing) {
			return false
		}
	}
	t.rows = append(t.rows, row)
	return true
}

func (t *memTable[T]) update(id string, mutate func(*T)) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if t.getID(t.rows[i]) == id {
			mutate(&t.rows[i])
			out := t.rows[i]
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (t *memTable[T]) delete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if t.getID(t.rows[i]) == id {
			t.rows = append(t.rows[:i:i], t.rows[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (t *memTable[T]) find(match func(T) bool) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, row := range t.rows {
		if match(row) {
			out := row
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memoryCategoryRepository struct {
	table memTable[domain.Category]
}

// NewMemoryCategoryRepository returns a process-local categories collection.
func NewMemoryCategoryRepository() CategoryRepository {
	return &memoryCategoryRepository{table: memTable[domain.Category]{getID: func(c domain.Category) string { return c.ID }}}
}

func (r *memoryCategoryRepository) List(context.Context) ([]domain.Category, error) {
	return r.table.list(), nil
}

func (r *memoryCategoryRepository) Insert(_ context.Context, category domain.Category) (*domain.Category, error) {
	category.ID = uuid.NewString()
	category.CreatedAt = time.Now().UTC()
	return r.table.insert(category), nil
}

func (r *memoryCategoryRepository) UpdateByID(_ context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	return r.table.update(id, func(c *domain.Category) {
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Description != nil {
			c.Description = *patch.Description
		}
		if patch.IsActive != nil {
			c.IsActive = *patch.IsActive
		}
	})
}

func (r *memoryCategoryRepository) DeleteByID(_ context.Context, id string) error {
	return r.table.delete(id)
}

type memoryItemRepository struct {
	table memTable[domain.Item]
}

// NewMemoryItemRepository returns a process-local items collection.
func NewMemoryItemRepository() ItemRepository {
	return &memoryItemRepository{table: memTable[domain.Item]{getID: func(i domain.Item) string { return i.ID }}}
}

func (r *memoryItemRepository) List(context.Context) ([]domain.Item, error) {
	return r.table.list(), nil
}

func (r *memoryItemRepository) Insert(_ context.Context, item domain.Item) (*domain.Item, error) {
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now().UTC()
	if item.Date.IsZero() {
		item.Date = item.CreatedAt
	}
	return r.table.insert(item), nil
}

func (r *memoryItemRepository) UpdateByID(_ context.Context, id string, patch domain.ItemPatch) (*domain.Item, error) {
	return r.table.update(id, func(it *domain.Item) {
		if patch.Title != nil {
			it.Title = *patch.Title
		}
		if patch.Description != nil {
			it.Description = *patch.Description
		}
		if patch.Category != nil {
			it.Category = *patch.Category
		}
		if patch.Status != nil {
			it.Status = *patch.Status
		}
		if patch.PreviousStatus != nil {
			prev := *patch.PreviousStatus
			it.PreviousStatus = &prev
		}
		if patch.Date != nil {
			it.Date = *patch.Date
		}
		if patch.Location != nil {
			it.Location = *patch.Location
		}
		if patch.Image != nil {
			if *patch.Image == "" {
				it.Image = nil
			} else {
				img := *patch.Image
				it.Image = &img
			}
		}
		if patch.ContactEmail != nil {
			it.ContactEmail = *patch.ContactEmail
		}
	})
}

func (r *memoryItemRepository) DeleteByID(_ context.Context, id string) error {
	return r.table.delete(id)
}

type memoryMessageRepository struct {
	table memTable[domain.Message]
}

// NewMemoryMessageRepository returns a process-local messages collection.
func NewMemoryMessageRepository() MessageRepository {
	return &memoryMessageRepository{table: memTable[domain.Message]{getID: func(m domain.Message) string { return m.ID }}}
}

func (r *memoryMessageRepository) List(context.Context) ([]domain.Message, error) {
	return r.table.list(), nil
}

func (r *memoryMessageRepository) Insert(_ context.Context, msg domain.Message) (*domain.Message, error) {
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now().UTC()
	if msg.Date.IsZero() {
		msg.Date = msg.CreatedAt
	}
	return r.table.insert(msg), nil
}

func (r *memoryMessageRepository) UpdateByID(_ context.Context, id string, patch domain.MessagePatch) (*domain.Message, error) {
	return r.table.update(id, func(m *domain.Message) {
		if patch.IsRead != nil {
			m.IsRead = *patch.IsRead
		}
	})
}

func (r *memoryMessageRepository) DeleteByID(_ context.Context, id string) error {
	return r.table.delete(id)
}

type memoryProfileRepository struct {
	table memTable[domain.Account]
}

// NewMemoryProfileRepository returns a process-local profile store.
func NewMemoryProfileRepository() ProfileRepository {
	return &memoryProfileRepository{table: memTable[domain.Account]{getID: func(a domain.Account) string { return a.User.ID }}}
}

func (r *memoryProfileRepository) Create(_ context.Context, account *domain.Account) error {
	email := strings.ToLower(account.User.Email)
	row := *account
	row.User.ID = uuid.NewString()
	row.User.Email = email
	row.User.CreatedAt = time.Now().UTC()
	if !r.table.insertUnless(row, func(a domain.Account) bool { return a.User.Email == email }) {
		return errDuplicateEmail
	}
	*account = row
	return nil
}

func (r *memoryProfileRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	return r.table.find(func(a domain.Account) bool { return a.User.ID == id })
}

func (r *memoryProfileRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	email = strings.ToLower(email)
	return r.table.find(func(a domain.Account) bool { return a.User.Email == email })
}

func (r *memoryProfileRepository) ConfirmEmail(_ context.Context, id string, at time.Time) error {
	_, err := r.table.update(id, func(a *domain.Account) {
		a.EmailConfirmedAt = &at
	})
	return err
}

func (r *memoryProfileRepository) List(context.Context) ([]domain.User, error) {
	accounts := r.table.list()
	users := make([]domain.User, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, a.User)
	}
	return users, nil
}

type memoryObjectRepository struct {
	mu      sync.RWMutex
	objects map[string]domain.StoredObject
}

// NewMemoryObjectRepository returns a process-local blob store.
func NewMemoryObjectRepository() ObjectRepository {
	return &memoryObjectRepository{objects: make(map[string]domain.StoredObject)}
}

func (r *memoryObjectRepository) Put(_ context.Context, obj *domain.StoredObject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	obj.CreatedAt = time.Now().UTC()
	stored := *obj
	stored.Data = append([]byte(nil), obj.Data...)
	r.objects[obj.Bucket+"/"+obj.Path] = stored
	return nil
}

func (r *memoryObjectRepository) Get(_ context.Context, bucket, path string) (*domain.StoredObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	obj, ok := r.objects[bucket+"/"+path]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &obj, nil
}
