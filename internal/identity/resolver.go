// Package identity resolves the actor behind an authenticated session.
package identity

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/domain"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// ProfileSource loads stored profiles.
type ProfileSource interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}

// ChangeFunc is called when the resolved actor changes identity or role.
type ChangeFunc func(prev, next *domain.User)

// Resolver exposes the current actor of one session, or none.
type Resolver struct {
	profiles     ProfileSource
	adminDomains []string
	logger       *zap.Logger

	mu        sync.RWMutex
	current   *domain.User
	loading   bool
	listeners map[int]ChangeFunc
	nextID    int
}

// NewResolver returns a resolver with no actor. It reports loading until
// the first Resolve or Clear settles.
func NewResolver(profiles ProfileSource, adminDomains []string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		profiles:     profiles,
		adminDomains: adminDomains,
		logger:       logger,
		loading:      true,
		listeners:    make(map[int]ChangeFunc),
	}
}

// Resolve loads the profile for session and makes it the current actor.
// A nil session clears the actor. When the profile cannot be loaded the
// actor is cleared and the error returned.
func (r *Resolver) Resolve(ctx context.Context, session *domain.Session) (*domain.User, error) {
	if session == nil {
		r.Clear()
		return nil, nil
	}

	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()

	account, err := r.profiles.GetByID(ctx, session.UserID)
	if err != nil {
		r.set(nil)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("profile not found")
		}
		r.logger.Warn("profile lookup failed", zap.String("user_id", session.UserID), zap.Error(err))
		return nil, apperrors.NewFetchError("profiles", err)
	}

	user := account.User
	if auth.IsAdminEmail(user.Email, r.adminDomains) {
		user.Role = domain.RoleAdmin
	}
	r.set(&user)
	out := user
	return &out, nil
}

// Clear drops the current actor.
func (r *Resolver) Clear() {
	r.set(nil)
}

// Current returns a copy of the current actor, or nil.
func (r *Resolver) Current() *domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return nil
	}
	out := *r.current
	return &out
}

// Loading reports whether a resolution is in flight or has not happened yet.
func (r *Resolver) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loading
}

// OnChange registers fn and returns a function that removes it.
func (r *Resolver) OnChange(fn ChangeFunc) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

// set swaps the actor and notifies listeners outside the lock when the
// identity or role changed. Profile field edits alone do not notify.
func (r *Resolver) set(next *domain.User) {
	r.mu.Lock()
	prev := r.current
	r.current = next
	r.loading = false
	changed := !domain.SameActor(prev, next)
	var listeners []ChangeFunc
	if changed {
		listeners = make([]ChangeFunc, 0, len(r.listeners))
		for _, fn := range r.listeners {
			listeners = append(listeners, fn)
		}
	}
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(prev, next)
	}
}
