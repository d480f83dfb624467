package service_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"LostFound/internal/cli/api"
	fsrepo "LostFound/internal/cli/repo/fs"
	"LostFound/internal/cli/service"
	"LostFound/internal/config"
	"LostFound/internal/handlers"
	"LostFound/internal/matching"
	"LostFound/internal/model"
	"LostFound/internal/repo"
	srv "LostFound/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// startServer поднимает настоящий API поверх in-memory SQLite.
func startServer(t *testing.T) (*httptest.Server, repo.UserRepository) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repo.InitDB(fmt.Sprintf("file:cli_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{AuthSecret: "cli-secret", RateLimitRPS: 1000, RateLimitBurst: 1000}
	logger := zap.NewNop().Sugar()
	users := repo.NewUserRepository(db)
	items := repo.NewItemRepository(db)
	chats := repo.NewChatRepository(db)

	h := handlers.NewHandler(
		srv.NewUserService(users),
		srv.NewItemService(items, users, matching.NewEngine(items, logger), logger),
		srv.NewChatService(items, chats, users, logger),
		nil, logger, cfg,
	)
	ts := httptest.NewServer(h.Router)
	t.Cleanup(ts.Close)
	return ts, users
}

func newRemote(t *testing.T, baseURL string) *service.Remote {
	t.Helper()
	store := fsrepo.NewAuthFSStore(filepath.Join(t.TempDir(), "token"))
	return service.NewRemote(api.New(baseURL), store)
}

func strp(s string) *string { return &s }

func TestRemote_ClaimAndChatFlow(t *testing.T) {
	ts, users := startServer(t)
	ctx := context.Background()

	alice := newRemote(t, ts.URL)
	bob := newRemote(t, ts.URL)

	acc, err := alice.Register(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, model.VerificationUnverified, acc.VerificationStatus)
	_, err = bob.Register(ctx, "Bob", "bob@example.com", "secret2")
	require.NoError(t, err)

	// повторная регистрация
	_, err = newRemote(t, ts.URL).Register(ctx, "Alice2", "alice@example.com", "x")
	assert.EqualError(t, err, "email already registered")

	// без верификации публиковать нельзя
	_, err = alice.Add(ctx, model.KindLost, service.ItemInput{Title: strp("Blue Wallet")})
	assert.Equal(t, http.StatusForbidden, api.StatusOf(err))

	require.NoError(t, users.SetVerificationStatus(ctx, acc.ID, model.VerificationVerified))
	created, err := alice.Add(ctx, model.KindLost, service.ItemInput{
		Title:    strp("Blue Wallet"),
		Category: strp("accessories"),
		Location: strp("Library"),
		Date:     strp("2024-05-01"),
	})
	require.NoError(t, err)
	itemID := created.Item.ID
	assert.NotEmpty(t, itemID)
	assert.Empty(t, created.Matches)

	list, err := bob.List(ctx, model.KindLost)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got, err := bob.Get(ctx, model.KindLost, itemID)
	require.NoError(t, err)
	assert.Equal(t, "Blue Wallet", got.Title)

	// заявки
	_, err = alice.Claim(ctx, model.KindLost, itemID, "mine")
	assert.Equal(t, http.StatusBadRequest, api.StatusOf(err))

	claim, err := bob.Claim(ctx, model.KindLost, itemID, "I think it's mine")
	require.NoError(t, err)
	assert.Equal(t, model.ClaimStatusPending, claim.Status)

	_, err = bob.Claim(ctx, model.KindLost, itemID, "again")
	assert.Equal(t, http.StatusConflict, api.StatusOf(err))

	_, err = bob.Claims(ctx, model.KindLost, itemID)
	assert.Equal(t, http.StatusForbidden, api.StatusOf(err))

	claims, err := alice.Claims(ctx, model.KindLost, itemID)
	require.NoError(t, err)
	require.Len(t, claims, 1)

	_, err = alice.Decide(ctx, model.KindLost, itemID, claim.ID, "maybe")
	assert.Error(t, err)

	decided, err := alice.Decide(ctx, model.KindLost, itemID, claim.ID, model.ClaimStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimStatusApproved, decided.Status)

	// чат
	msg, err := bob.Send(ctx, model.KindLost, itemID, "where can we meet?")
	require.NoError(t, err)
	assert.Equal(t, "where can we meet?", msg.Text)

	chat, err := alice.Chat(ctx, model.KindLost, itemID)
	require.NoError(t, err)
	require.Len(t, chat.Messages, 1)
	assert.True(t, chat.HasParticipant(acc.ID))

	// правка и удаление
	edited, err := alice.Edit(ctx, model.KindLost, itemID, service.ItemInput{Status: strp(model.ItemStatusReturned)})
	require.NoError(t, err)
	assert.Equal(t, model.ItemStatusReturned, edited.Item.Status)

	require.NoError(t, alice.Delete(ctx, model.KindLost, itemID))
	_, err = bob.Get(ctx, model.KindLost, itemID)
	assert.Equal(t, http.StatusNotFound, api.StatusOf(err))
}

func TestRemote_LoginLogout(t *testing.T) {
	ts, _ := startServer(t)
	ctx := context.Background()
	r := newRemote(t, ts.URL)

	_, err := r.CurrentUser(ctx)
	assert.ErrorIs(t, err, service.ErrNotLoggedIn)

	_, err = r.Register(ctx, "Carol", "Carol@Example.com", "pw")
	require.NoError(t, err)

	me, err := r.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", me.Email)

	require.NoError(t, r.Logout(ctx))
	_, err = r.CurrentUser(ctx)
	assert.ErrorIs(t, err, service.ErrNotLoggedIn)

	_, err = r.Login(ctx, "carol@example.com", "wrong")
	assert.EqualError(t, err, "invalid email or password")

	acc, err := r.Login(ctx, "carol@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Carol", acc.Name)

	_, err = r.Send(ctx, model.KindFound, "not-a-uuid", "hi")
	assert.Equal(t, http.StatusNotFound, api.StatusOf(err))
}
