package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"LostFound/internal/config"
	"LostFound/internal/handlers"
	"LostFound/internal/matching"
	"LostFound/internal/repo"
	"LostFound/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// перехват вывода на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// startServer поднимает API поверх in-memory SQLite и возвращает репозиторий пользователей
// для ручной верификации.
func startServer(t *testing.T) (*httptest.Server, repo.UserRepository) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repo.InitDB(fmt.Sprintf("file:cmd_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{AuthSecret: "cmd-secret", RateLimitRPS: 1000, RateLimitBurst: 1000}
	logger := zap.NewNop().Sugar()
	users := repo.NewUserRepository(db)
	items := repo.NewItemRepository(db)
	chats := repo.NewChatRepository(db)

	h := handlers.NewHandler(
		service.NewUserService(users),
		service.NewItemService(items, users, matching.NewEngine(items, logger), logger),
		service.NewChatService(items, chats, users, logger),
		nil, logger, cfg,
	)
	ts := httptest.NewServer(h.Router)
	t.Cleanup(ts.Close)
	return ts, users
}

// clientCfg - конфиг клиента с отдельным файлом токена.
func clientCfg(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	return &config.Config{ServerURL: serverURL, TokenFile: filepath.Join(t.TempDir(), "token")}
}

// run выполняет команду через Dispatch и возвращает код и вывод.
func run(t *testing.T, cfg *config.Config, args ...string) (int, string) {
	t.Helper()
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, args) })
	return code, out
}
