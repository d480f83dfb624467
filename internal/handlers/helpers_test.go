package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"LostFound/internal/config"
	"LostFound/internal/handlers"
	"LostFound/internal/matching"
	"LostFound/internal/middleware"
	"LostFound/internal/model"
	"LostFound/internal/realtime"
	"LostFound/internal/repo"
	"LostFound/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEnv - полный стек поверх in-memory SQLite.
type testEnv struct {
	router http.Handler
	cfg    *config.Config
	users  repo.UserRepository
	hub    *realtime.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repo.InitDB(fmt.Sprintf("file:h_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{AuthSecret: "test-secret"}
	logger := zap.NewNop().Sugar()

	users := repo.NewUserRepository(db)
	items := repo.NewItemRepository(db)
	chats := repo.NewChatRepository(db)

	userSvc := service.NewUserService(users)
	itemSvc := service.NewItemService(items, users, matching.NewEngine(items, logger), logger)
	chatSvc := service.NewChatService(items, chats, users, logger)
	hub := realtime.NewHub(chatSvc, handlers.Reason, middleware.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst), logger)
	chatSvc.SetNotifier(hub)

	h := handlers.NewHandler(userSvc, itemSvc, chatSvc, hub, logger, cfg)
	return &testEnv{router: h.Router, cfg: cfg, users: users, hub: hub}
}

// mkUser создаёт пользователя напрямую в хранилище.
func (e *testEnv) mkUser(t *testing.T, name, status string) int64 {
	t.Helper()
	u, err := e.users.CreateUser(context.Background(), &model.User{
		Name: name, Email: strings.ToLower(name) + "@example.com", Password: "x", VerificationStatus: status,
	})
	require.NoError(t, err)
	return u.ID
}

// do выполняет запрос от имени uid (0 - анонимно) и возвращает рекордер.
func (e *testEnv) do(t *testing.T, method, path string, body any, uid int64) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			rd = strings.NewReader(s)
		} else {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			rd = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if uid != 0 {
		token, err := middleware.GenerateToken(uid, e.cfg.AuthSecret)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

type itemWithMatches struct {
	Item    model.Item   `json:"item"`
	Matches []model.Item `json:"matches"`
}

type claimResponse struct {
	Message string      `json:"message"`
	Claim   model.Claim `json:"claim"`
}

type errorResponse struct {
	Error string `json:"error"`
}
