package http

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/api/http/handlers"
	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/observability"
	"github.com/spec-kit/lostfound-service/internal/persistence"
	"github.com/spec-kit/lostfound-service/internal/repository"
	"github.com/spec-kit/lostfound-service/internal/service"
	"github.com/spec-kit/lostfound-service/internal/storage"
)

const testBaseURL = "http://lostfound.test"

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type testServer struct {
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	collections := service.Collections{
		Categories: repository.NewMemoryCategoryRepository(),
		Items:      repository.NewMemoryItemRepository(),
		Messages:   repository.NewMemoryMessageRepository(),
		Profiles:   repository.NewMemoryProfileRepository(),
	}
	store := storage.NewObjectStore(repository.NewMemoryObjectRepository(), testBaseURL, logger)

	authService := service.NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
		AdminEmailDomains:     []string{"@tracecloud.rit.edu", "ritchennai.edu.in"},
	}, service.AuthDependencies{
		Profiles:   collections.Profiles,
		Sessions:   persistence.NewMemorySessionStore(),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	hub := service.NewSessionHub(context.Background(), service.SessionHubDependencies{
		Auth: authService,
		Data: service.DataContextDependencies{
			Collections: collections,
			Store:       store,
			ItemBucket:  "items",
			Dispatcher:  dispatcher,
			Recorder:    metrics,
			Logger:      logger,
		},
		AdminDomains: []string{"@tracecloud.rit.edu", "ritchennai.edu.in"},
		Logger:       logger,
	})
	t.Cleanup(hub.Close)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0, []string{"http://localhost:5173"})
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("lostfound-service", "test", &persistence.Postgres{}, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Categories:     handlers.NewCategoriesHandler(hub),
		Items:          handlers.NewItemsHandler(hub),
		Messages:       handlers.NewMessagesHandler(hub),
		Users:          handlers.NewUsersHandler(hub),
		Dashboard:      handlers.NewDashboardHandler(hub),
		Storage:        handlers.NewStorageHandler(store),
		AuthMiddleware: auth.NewAuthMiddleware(hub),
		Metrics:        metrics,
	})
	return &testServer{app: app}
}

func (s *testServer) do(t *testing.T, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if len(body) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(body, &env), string(body))
	}
	return resp, env
}

func (s *testServer) json(t *testing.T, method, path, token string, payload any) (*http.Response, envelope) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return s.do(t, req)
}

func (s *testServer) signUp(t *testing.T, name, email string) string {
	t.Helper()
	resp, env := s.json(t, http.MethodPost, "/auth/signup", "", map[string]any{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var data struct {
		Auth struct {
			Token string `json:"token"`
		} `json:"auth"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Auth.Token)
	return data.Auth.Token
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type itemBody struct {
	ID             string  `json:"id"`
	Status         string  `json:"status"`
	PreviousStatus *string `json:"previous_status"`
	CategoryName   string  `json:"category_name"`
	Image          *string `json:"image"`
	ContactEmail   string  `json:"contact_email"`
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.json(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.json(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "lostfound_http_requests_total")
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.json(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.json(t, http.MethodGet, "/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	resp, _ = s.json(t, http.MethodGet, "/items", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRoutesRejectStudents(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "Ravi", "ravi@student.rit.edu")

	resp, env := s.json(t, http.MethodPost, "/categories", token, map[string]any{"name": "Electronics"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	resp, _ = s.json(t, http.MethodGet, "/messages", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.json(t, http.MethodGet, "/users", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestItemLifecycle(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.signUp(t, "Dean", "dean@tracecloud.rit.edu")

	resp, env := s.json(t, http.MethodPost, "/categories", adminToken, map[string]any{"name": "Electronics"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	category := decode[struct {
		ID       string `json:"id"`
		IsActive bool   `json:"is_active"`
	}](t, env)
	assert.True(t, category.IsActive)

	owner := s.signUp(t, "Ravi", "ravi@student.rit.edu")
	other := s.signUp(t, "Meera", "meera@student.rit.edu")

	resp, env = s.json(t, http.MethodPost, "/items", owner, map[string]any{
		"title":       "Calculator",
		"description": "Casio fx-991",
		"category":    category.ID,
		"status":      "lost",
		"date":        "2026-10-01",
		"location":    "Block A",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	item := decode[itemBody](t, env)
	assert.Equal(t, "Electronics", item.CategoryName)
	assert.Equal(t, "ravi@student.rit.edu", item.ContactEmail)

	resp, env = s.json(t, http.MethodGet, "/items?status=lost&search=casio", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]itemBody](t, env), 1)

	resp, env = s.json(t, http.MethodGet, "/items?status=found", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]itemBody](t, env))

	resp, env = s.json(t, http.MethodPatch, "/items/"+item.ID, other, map[string]any{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	resp, _ = s.json(t, http.MethodPost, "/items/"+item.ID+"/claim-toggle", other, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env = s.json(t, http.MethodPost, "/items/"+item.ID+"/claim-toggle", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	claimed := decode[itemBody](t, env)
	assert.Equal(t, "claimed", claimed.Status)
	require.NotNil(t, claimed.PreviousStatus)
	assert.Equal(t, "lost", *claimed.PreviousStatus)

	resp, env = s.json(t, http.MethodPost, "/items/"+item.ID+"/claim-toggle", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "lost", decode[itemBody](t, env).Status)

	resp, env = s.json(t, http.MethodGet, "/dashboard/stats", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	studentStats := decode[map[string]any](t, env)
	assert.EqualValues(t, 1, studentStats["total_lost_items"])
	assert.EqualValues(t, 1, studentStats["total_pending_items"])
	assert.NotContains(t, studentStats, "total_messages")
	assert.NotContains(t, studentStats, "recent_messages")
	require.Len(t, studentStats["recent_items"], 1)

	resp, _ = s.json(t, http.MethodDelete, "/items/"+item.ID, owner, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCreateItemWithPhoto(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "Ravi", "ravi@student.rit.edu")

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"title":       "Water bottle",
		"description": "Steel, blue cap",
		"category":    "cat-1",
		"status":      "found",
		"location":    "Canteen",
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("image", "bottle.png")
	require.NoError(t, err)
	_, err = part.Write(pngBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/items", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, env := s.do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	item := decode[itemBody](t, env)
	require.NotNil(t, item.Image)
	assert.Equal(t, "Unknown", item.CategoryName)
	require.True(t, strings.HasPrefix(*item.Image, testBaseURL+storage.RoutePrefix+"/items/"))

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, strings.TrimPrefix(*item.Image, testBaseURL), nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get(fiber.HeaderContentType))
}

func TestCreateItemRejectsBadDate(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "Ravi", "ravi@student.rit.edu")

	resp, env := s.json(t, http.MethodPost, "/items", token, map[string]any{
		"title": "Keys", "description": "Two keys", "category": "cat-1", "location": "Gate", "date": "yesterday",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestContactAndFeedbackReachAdminInbox(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.signUp(t, "Dean", "dean@tracecloud.rit.edu")
	studentToken := s.signUp(t, "Ravi", "ravi@student.rit.edu")

	resp, _ := s.json(t, http.MethodPost, "/messages", "", map[string]any{
		"name": "Visitor", "email": "visitor@example.com", "subject": "Lost wallet", "message": "Brown leather",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env := s.json(t, http.MethodPost, "/feedback", studentToken, map[string]any{"message": "Great portal"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	feedback := decode[struct {
		Subject    string `json:"subject"`
		Email      string `json:"email"`
		IsFeedback bool   `json:"is_feedback"`
	}](t, env)
	assert.Equal(t, "Feedback: student Feedback", feedback.Subject)
	assert.Equal(t, "ravi@student.rit.edu", feedback.Email)
	assert.True(t, feedback.IsFeedback)

	resp, env = s.json(t, http.MethodGet, "/messages?refresh=true", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	inbox := decode[[]struct {
		ID     string `json:"id"`
		IsRead bool   `json:"is_read"`
	}](t, env)
	require.Len(t, inbox, 2)

	resp, env = s.json(t, http.MethodPost, "/messages/"+inbox[0].ID+"/read", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[struct {
		IsRead bool `json:"is_read"`
	}](t, env).IsRead)

	resp, env = s.json(t, http.MethodGet, "/dashboard/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	adminStats := decode[map[string]any](t, env)
	assert.EqualValues(t, 2, adminStats["total_messages"])
	assert.Len(t, adminStats["recent_messages"], 2)
	assert.Empty(t, adminStats["recent_items"])

	resp, _ = s.json(t, http.MethodDelete, "/messages/"+inbox[1].ID, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, env = s.json(t, http.MethodGet, "/users", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]map[string]any](t, env), 2)
}

func TestSignInAndLogout(t *testing.T) {
	s := newTestServer(t)
	s.signUp(t, "Ravi", "ravi@student.rit.edu")

	resp, env := s.json(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email": "ravi@student.rit.edu", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "AUTH_FAILED", env.Error.Code)

	resp, env = s.json(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email": "ravi@student.rit.edu", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := decode[struct {
		Auth struct {
			Token string `json:"token"`
		} `json:"auth"`
	}](t, env).Auth.Token

	resp, env = s.json(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[struct {
		User struct {
			Role string `json:"role"`
		} `json:"user"`
	}](t, env)
	assert.Equal(t, "student", me.User.Role)

	resp, _ = s.json(t, http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = s.json(t, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/items", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
