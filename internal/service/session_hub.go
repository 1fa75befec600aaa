package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/identity"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// Workspace is the per-session pairing of an identity resolver and the
// DataContext scoped to the actor it resolves.
type Workspace struct {
	Session  domain.Session
	Identity *identity.Resolver
	Data     *DataContext

	lastSeen time.Time
	detach   func()
}

// SessionHub keeps one workspace per signed-in session and evicts it on
// sign-out or after an idle period.
type SessionHub struct {
	auth         *AuthService
	deps         DataContextDependencies
	adminDomains []string
	idleTTL      time.Duration
	logger       *zap.Logger
	now          func() time.Time
	baseCtx      context.Context

	mu         sync.Mutex
	workspaces map[string]*Workspace
	anonymous  *DataContext
	stop       func()
}

// SessionHubDependencies bundles collaborators for the hub.
type SessionHubDependencies struct {
	Auth         *AuthService
	Data         DataContextDependencies
	AdminDomains []string
	IdleTTL      time.Duration
	Logger       *zap.Logger
}

// NewSessionHub builds a hub and subscribes it to sign-out events.
func NewSessionHub(ctx context.Context, deps SessionHubDependencies) *SessionHub {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &SessionHub{
		auth:         deps.Auth,
		deps:         deps.Data,
		adminDomains: deps.AdminDomains,
		idleTTL:      deps.IdleTTL,
		logger:       logger,
		now:          time.Now,
		baseCtx:      context.WithoutCancel(ctx),
		workspaces:   make(map[string]*Workspace),
		anonymous:    NewDataContext(nil, deps.Data),
	}
	h.stop = deps.Auth.OnSessionChange(func(event domain.SessionEvent, session domain.Session) {
		if event == domain.SessionSignedOut {
			h.Evict(session.ID)
		}
	})
	return h
}

// Authenticate resolves token to a principal, building the session's
// workspace on first use.
func (h *SessionHub) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	session, err := h.auth.CurrentSession(ctx, token)
	if err != nil {
		return nil, err
	}
	ws, err := h.workspace(ctx, *session)
	if err != nil {
		return nil, err
	}
	user := ws.Identity.Current()
	if user == nil {
		return nil, apperrors.NewUnauthorized("profile not resolved")
	}
	return &auth.Principal{Session: session, User: user}, nil
}

// DataFor returns the DataContext serving p, or the anonymous one when p
// is nil.
func (h *SessionHub) DataFor(ctx context.Context, p *auth.Principal) (*DataContext, error) {
	if p == nil || p.Session == nil {
		return h.anonymous, nil
	}
	ws, err := h.workspace(ctx, *p.Session)
	if err != nil {
		return nil, err
	}
	return ws.Data, nil
}

// Evict drops the workspace of sessionID, clearing its actor.
func (h *SessionHub) Evict(sessionID string) {
	h.mu.Lock()
	ws, ok := h.workspaces[sessionID]
	delete(h.workspaces, sessionID)
	h.mu.Unlock()
	if ok {
		h.teardown(ws)
	}
}

// Sweep evicts workspaces idle for longer than the idle TTL and returns how
// many were dropped.
func (h *SessionHub) Sweep() int {
	cutoff := h.now().Add(-h.idleTTL)
	var stale []*Workspace

	h.mu.Lock()
	for id, ws := range h.workspaces {
		if ws.lastSeen.Before(cutoff) || !h.now().Before(ws.Session.ExpiresAt) {
			stale = append(stale, ws)
			delete(h.workspaces, id)
		}
	}
	h.mu.Unlock()

	for _, ws := range stale {
		h.teardown(ws)
	}
	if len(stale) > 0 {
		h.logger.Info("evicted idle workspaces", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Len returns the number of live workspaces.
func (h *SessionHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.workspaces)
}

// Close evicts every workspace and unsubscribes from the auth service.
func (h *SessionHub) Close() {
	h.stop()
	h.mu.Lock()
	all := h.workspaces
	h.workspaces = make(map[string]*Workspace)
	h.mu.Unlock()
	for _, ws := range all {
		h.teardown(ws)
	}
}

func (h *SessionHub) workspace(ctx context.Context, session domain.Session) (*Workspace, error) {
	h.mu.Lock()
	if ws, ok := h.workspaces[session.ID]; ok {
		ws.lastSeen = h.now()
		h.mu.Unlock()
		return ws, nil
	}
	h.mu.Unlock()

	ws := &Workspace{
		Session:  session,
		Identity: identity.NewResolver(h.deps.Collections.Profiles, h.adminDomains, h.logger),
		Data:     NewDataContext(nil, h.deps),
	}
	ws.detach = ws.Identity.OnChange(func(_, next *domain.User) {
		ws.Data.SetActor(h.baseCtx, next)
	})
	if _, err := ws.Identity.Resolve(ctx, &session); err != nil {
		ws.detach()
		return nil, err
	}
	ws.lastSeen = h.now()

	h.mu.Lock()
	if existing, ok := h.workspaces[session.ID]; ok {
		existing.lastSeen = h.now()
		h.mu.Unlock()
		h.teardown(ws)
		return existing, nil
	}
	h.workspaces[session.ID] = ws
	h.mu.Unlock()

	h.logger.Debug("workspace opened", zap.String("user_id", session.UserID))
	return ws, nil
}

func (h *SessionHub) teardown(ws *Workspace) {
	ws.Identity.Clear()
	ws.detach()
}
