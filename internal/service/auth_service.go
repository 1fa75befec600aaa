package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/persistence"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// SessionListener observes sign-in and sign-out transitions.
type SessionListener func(event domain.SessionEvent, session domain.Session)

// AuthService coordinates registration, login and session flows.
type AuthService struct {
	profiles   repository.ProfileRepository
	sessions   persistence.SessionStore
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.AuthConfig
	now        func() time.Time

	mu        sync.RWMutex
	listeners map[int]SessionListener
	nextID    int
}

// AuthDependencies encapsulates collaborators for auth service.
type AuthDependencies struct {
	Profiles   repository.ProfileRepository
	Sessions   persistence.SessionStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		profiles:   deps.Profiles,
		sessions:   deps.Sessions,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		dispatcher: deps.Dispatcher,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
		listeners:  make(map[int]SessionListener),
	}
}

// SignUpInput describes a registration.
type SignUpInput struct {
	Email      string
	Password   string
	Name       string
	StudentID  *string
	Department *string
	Year       *string
}

// SignUp registers an account. While email confirmation is required the
// returned session is nil and a confirmation token is sent instead.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*domain.User, *domain.Session, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)
	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return nil, nil, apperrors.NewValidationError("missing required sign-up fields", map[string]any{"missing": missing})
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}

	role := domain.RoleStudent
	if auth.IsAdminEmail(email, s.cfg.AdminEmailDomains) {
		role = domain.RoleAdmin
	}
	account := &domain.Account{
		User: domain.User{
			Name:       name,
			Email:      email,
			Role:       role,
			StudentID:  input.StudentID,
			Department: input.Department,
			Year:       input.Year,
		},
		PasswordHash: hash,
	}
	if !s.cfg.RequireEmailConfirmation {
		confirmedAt := s.now().UTC()
		account.EmailConfirmedAt = &confirmedAt
	}

	if err := s.profiles.Create(ctx, account); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
		return nil, nil, apperrors.NewWriteError("profiles", "create", err)
	}
	s.logger.Info("user registered", zap.String("user_id", account.User.ID), zap.String("role", string(role)))

	user := account.User
	if s.cfg.RequireEmailConfirmation {
		if err := s.sendConfirmation(ctx, &user, events.EventUserRegistered); err != nil {
			s.logger.Warn("confirmation not sent", zap.String("user_id", user.ID), zap.Error(err))
		}
		return &user, nil, nil
	}

	session, err := s.openSession(ctx, &user)
	if err != nil {
		return nil, nil, err
	}
	return &user, session, nil
}

// SignIn checks credentials and opens a session. An unconfirmed account
// gets a fresh confirmation token and EMAIL_NOT_CONFIRMED.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	account, err := s.profiles.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAuthFailed("invalid login credentials")
		}
		return nil, apperrors.NewFetchError("profiles", err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, apperrors.NewAuthFailed("invalid login credentials")
	}

	if s.cfg.RequireEmailConfirmation && !account.Confirmed() {
		err := s.sendConfirmation(ctx, &account.User, events.EventConfirmationResent)
		if err != nil {
			s.logger.Warn("confirmation resend failed", zap.String("user_id", account.User.ID), zap.Error(err))
		}
		return nil, apperrors.NewEmailNotConfirmed(err == nil)
	}

	return s.openSession(ctx, &account.User)
}

// SignOut revokes the session.
func (s *AuthService) SignOut(ctx context.Context, session domain.Session) error {
	if err := s.sessions.DeleteSession(ctx, session.ID); err != nil {
		return apperrors.NewWriteError("sessions", "delete", err)
	}
	s.logger.Info("signed out", zap.String("user_id", session.UserID))
	s.notify(domain.SessionSignedOut, session)
	return nil
}

// CurrentSession returns the live session bound to token.
func (s *AuthService) CurrentSession(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	session, err := s.sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, persistence.ErrTokenNotFound) {
			return nil, apperrors.NewUnauthorized("session expired")
		}
		return nil, apperrors.NewFetchError("sessions", err)
	}
	if session.UserID != claims.UserID {
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	session.Token = token
	return session, nil
}

// ConfirmEmail consumes a confirmation token and marks the account verified.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.sessions.TakeConfirmation(ctx, strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, persistence.ErrTokenNotFound) {
			return nil, apperrors.NewValidationError("confirmation token invalid or expired", nil)
		}
		return nil, apperrors.NewFetchError("confirmations", err)
	}
	if err := s.profiles.ConfirmEmail(ctx, userID, s.now().UTC()); err != nil {
		return nil, apperrors.NewWriteError("profiles", "update", err)
	}
	account, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewFetchError("profiles", err)
	}
	s.logger.Info("email confirmed", zap.String("user_id", userID))
	return &account.User, nil
}

// OnSessionChange registers fn and returns a function that removes it.
func (s *AuthService) OnSessionChange(fn SessionListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// TokenManager exposes the token manager.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	sessionID := uuid.NewString()
	token, expiresAt, err := s.tokenMgr.GenerateToken(user.ID, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	session := domain.Session{
		ID:        sessionID,
		UserID:    user.ID,
		Email:     user.Email,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, apperrors.NewWriteError("sessions", "create", err)
	}
	s.logger.Info("signed in", zap.String("user_id", user.ID))
	s.notify(domain.SessionSignedIn, session)
	return &session, nil
}

func (s *AuthService) sendConfirmation(ctx context.Context, user *domain.User, eventType events.EventType) error {
	token := uuid.NewString()
	if err := s.sessions.PutConfirmation(ctx, token, user.ID, s.cfg.ConfirmationTTL()); err != nil {
		return err
	}
	if s.dispatcher == nil {
		return nil
	}
	return s.dispatcher.Publish(ctx, events.NewEvent(eventType, user.ID, user, events.ConfirmationPayload{
		Email: user.Email,
		Name:  user.Name,
		Token: token,
	}))
}

func (s *AuthService) notify(event domain.SessionEvent, session domain.Session) {
	s.mu.RLock()
	listeners := make([]SessionListener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(event, session)
	}
}
