// Package mirror keeps an in-memory copy of a remote collection and serves
// reads from it between refreshes.
package mirror

import (
	"context"
	"sync"

	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// Remote is the backing collection a Repository mirrors.
type Remote[T any, P any] interface {
	List(ctx context.Context) ([]T, error)
	Insert(ctx context.Context, record T) (*T, error)
	UpdateByID(ctx context.Context, id string, patch P) (*T, error)
	DeleteByID(ctx context.Context, id string) error
}

// Recorder observes mirror operations.
type Recorder interface {
	RecordMirrorOp(collection, op, outcome string)
}

// Options configures a Repository.
type Options[T any, P any] struct {
	Name          string
	ID            func(T) string
	Validate      func(T) error
	ValidatePatch func(P) error
	Recorder      Recorder
}

// Repository mirrors one remote collection. The mirror is swapped as a
// whole under mu, so readers see either the state before an operation or
// the state after it.
type Repository[T any, P any] struct {
	name          string
	remote        Remote[T, P]
	id            func(T) string
	validate      func(T) error
	validatePatch func(P) error
	recorder      Recorder
	locks         *keyLock

	mu      sync.RWMutex
	records []T
	version uint64
	epoch   uint64
}

// New builds a Repository over remote.
func New[T any, P any](remote Remote[T, P], opts Options[T, P]) *Repository[T, P] {
	return &Repository[T, P]{
		name:          opts.Name,
		remote:        remote,
		id:            opts.ID,
		validate:      opts.Validate,
		validatePatch: opts.ValidatePatch,
		recorder:      opts.Recorder,
		locks:         newKeyLock(),
	}
}

// Name returns the collection name.
func (r *Repository[T, P]) Name() string {
	return r.name
}

// List fetches every record, newest first, and replaces the mirror.
// On failure the previous mirror is kept.
func (r *Repository[T, P]) List(ctx context.Context) ([]T, error) {
	epoch := r.currentEpoch()
	records, err := r.remote.List(ctx)
	if err != nil {
		r.record("list", "error")
		return nil, apperrors.NewFetchError(r.name, err)
	}
	fresh := append([]T(nil), records...)
	r.apply(epoch, func([]T) []T { return fresh })
	r.record("list", "ok")
	return append([]T(nil), fresh...), nil
}

// Create validates record, inserts it and appends the canonical record.
func (r *Repository[T, P]) Create(ctx context.Context, record T) (*T, error) {
	epoch := r.currentEpoch()
	created, err := r.insert(ctx, record)
	if err != nil {
		return nil, err
	}
	canonical := *created
	r.apply(epoch, func(cur []T) []T {
		return append(cur, canonical)
	})
	return created, nil
}

// Submit validates and inserts record without touching the mirror.
func (r *Repository[T, P]) Submit(ctx context.Context, record T) (*T, error) {
	return r.insert(ctx, record)
}

func (r *Repository[T, P]) insert(ctx context.Context, record T) (*T, error) {
	if r.validate != nil {
		if err := r.validate(record); err != nil {
			r.record("create", "invalid")
			return nil, err
		}
	}
	created, err := r.remote.Insert(ctx, record)
	if err != nil {
		r.record("create", "error")
		return nil, apperrors.NewWriteError(r.name, "create", err)
	}
	r.record("create", "ok")
	return created, nil
}

// UpdateByID submits patch for id and merges the canonical record into
// the mirror. An id missing from the mirror fails before any remote call.
func (r *Repository[T, P]) UpdateByID(ctx context.Context, id string, patch P) (*T, error) {
	unlock := r.locks.lock(id)
	defer unlock()

	if _, ok := r.Get(id); !ok {
		r.record("update", "not_found")
		return nil, apperrors.NewNotFound(r.name, map[string]any{"id": id})
	}
	if r.validatePatch != nil {
		if err := r.validatePatch(patch); err != nil {
			r.record("update", "invalid")
			return nil, err
		}
	}

	epoch := r.currentEpoch()
	updated, err := r.remote.UpdateByID(ctx, id, patch)
	if err != nil {
		r.record("update", "error")
		return nil, apperrors.NewWriteError(r.name, "update", err)
	}
	canonical := *updated
	r.apply(epoch, func(cur []T) []T {
		for i := range cur {
			if r.id(cur[i]) == id {
				cur[i] = canonical
				break
			}
		}
		return cur
	})
	r.record("update", "ok")
	return updated, nil
}

// DeleteByID deletes id remotely and drops it from the mirror once the
// remote confirms.
func (r *Repository[T, P]) DeleteByID(ctx context.Context, id string) error {
	unlock := r.locks.lock(id)
	defer unlock()

	if _, ok := r.Get(id); !ok {
		r.record("delete", "not_found")
		return apperrors.NewNotFound(r.name, map[string]any{"id": id})
	}

	epoch := r.currentEpoch()
	if err := r.remote.DeleteByID(ctx, id); err != nil {
		r.record("delete", "error")
		return apperrors.NewWriteError(r.name, "delete", err)
	}
	r.apply(epoch, func(cur []T) []T {
		out := cur[:0]
		for _, rec := range cur {
			if r.id(rec) != id {
				out = append(out, rec)
			}
		}
		return out
	})
	r.record("delete", "ok")
	return nil
}

// Get returns the mirrored record with id.
func (r *Repository[T, P]) Get(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if r.id(rec) == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// Snapshot returns a copy of the mirror.
func (r *Repository[T, P]) Snapshot() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]T(nil), r.records...)
}

// Len returns the number of mirrored records.
func (r *Repository[T, P]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Version changes every time the mirror is swapped.
func (r *Repository[T, P]) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Reset clears the mirror. Results of operations started before the reset
// are discarded when they settle.
func (r *Repository[T, P]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	r.epoch++
	r.version++
}

func (r *Repository[T, P]) currentEpoch() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.epoch
}

// apply builds the next mirror from a private copy of the current one and
// swaps it in, unless a Reset happened since epoch was read.
func (r *Repository[T, P]) apply(epoch uint64, next func([]T) []T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch {
		return false
	}
	r.records = next(append([]T(nil), r.records...))
	r.version++
	return true
}

func (r *Repository[T, P]) record(op, outcome string) {
	if r.recorder != nil {
		r.recorder.RecordMirrorOp(r.name, op, outcome)
	}
}
