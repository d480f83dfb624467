package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"LostFound/internal/config"
	"LostFound/internal/handlers"
	"LostFound/internal/middleware"
	"LostFound/internal/model"
	"LostFound/internal/repo"
	"LostFound/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Minimal mocks
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) SetVerificationStatus(ctx context.Context, id int64, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

// --- Helpers ---
func newUserTestRouter(t *testing.T, ur repo.UserRepository) http.Handler {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret"}
	logger := zap.NewNop().Sugar()

	// для user‑тестов item/chat‑сервисы не вызываются
	h := handlers.NewHandler(service.NewUserService(ur), nil, nil, nil, logger, cfg)
	return h.Router
}

func addAuthCookie(t *testing.T, req *http.Request, userID int64, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_ = middleware.SetLoginCookie(rr, userID, secret)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

func hasAuthCookie(rr *httptest.ResponseRecorder) bool {
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.CookieName && c.Value != "" {
			return true
		}
	}
	return false
}

// --- Tests ---
func TestUser_Register(t *testing.T) {
	m := new(mockUserRepo)
	router := newUserTestRouter(t, m)

	t.Run("ok", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByEmail", mock.Anything, "john@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
		created := &model.User{ID: 42, Name: "John", Email: "john@example.com", VerificationStatus: model.VerificationUnverified}
		m.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool { return u.Email == "john@example.com" && u.Password != "" })).Return(created, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(`{"name":"John","email":"john@example.com","password":"p"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, hasAuthCookie(rr), "Set-Cookie auth_token expected")
		var body struct {
			ID    int64  `json:"id"`
			Token string `json:"token"`
		}
		_ = json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&body)
		assert.Equal(t, int64(42), body.ID)
		uid, err := middleware.ParseToken(body.Token, "test-secret")
		assert.NoError(t, err)
		assert.Equal(t, int64(42), uid)
		m.AssertExpectations(t)
	})

	t.Run("conflict", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByEmail", mock.Anything, "john@example.com").Return(&model.User{ID: 1, Email: "john@example.com"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(`{"name":"John","email":"john@example.com","password":"p"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		m.AssertExpectations(t)
	})

	t.Run("bad json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(`{`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUser_Login(t *testing.T) {
	m := new(mockUserRepo)
	router := newUserTestRouter(t, m)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)

	t.Run("ok", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(&model.User{ID: 2, Email: "alice@example.com", Password: string(hash)}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader(`{"email":"alice@example.com","password":"secret"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, hasAuthCookie(rr))
		m.AssertExpectations(t)
	})

	t.Run("unauthorized", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(&model.User{ID: 2, Email: "alice@example.com", Password: string(hash)}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader(`{"email":"alice@example.com","password":"bad"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		m.AssertExpectations(t)
	})
}

func TestUser_MeAndLogout(t *testing.T) {
	m := new(mockUserRepo)
	router := newUserTestRouter(t, m)

	t.Run("anonymous", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/user/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("authorized by cookie", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByID", mock.Anything, int64(77)).Return(&model.User{ID: 77, Name: "Zed", VerificationStatus: model.VerificationVerified}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		addAuthCookie(t, req, 77, "test-secret")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		var body map[string]any
		_ = json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&body)
		assert.Equal(t, "Zed", body["name"])
		assert.Equal(t, model.VerificationVerified, body["verification_status"])
	})

	t.Run("logout clears cookie", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/user/logout", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, hasAuthCookie(rr))
	})
}

func TestUser_SetVerification(t *testing.T) {
	m := new(mockUserRepo)
	router := newUserTestRouter(t, m)

	put := func(uid int64, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/users/"+target+"/verification", strings.NewReader(body))
		addAuthCookie(t, req, uid, "test-secret")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	m.On("GetUserByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, IsAdmin: true}, nil)
	m.On("GetUserByID", mock.Anything, int64(2)).Return(&model.User{ID: 2}, nil)
	m.On("SetVerificationStatus", mock.Anything, int64(5), model.VerificationVerified).Return(nil).Once()

	assert.Equal(t, http.StatusOK, put(1, "5", `{"status":"verified"}`).Code)
	assert.Equal(t, http.StatusForbidden, put(2, "5", `{"status":"verified"}`).Code)
	assert.Equal(t, http.StatusBadRequest, put(1, "abc", `{"status":"verified"}`).Code)
	assert.Equal(t, http.StatusBadRequest, put(1, "5", `{"status":"sure"}`).Code)
	m.AssertExpectations(t)
}

func TestHealthAndMetrics(t *testing.T) {
	router := newUserTestRouter(t, new(mockUserRepo))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "running")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "lostfound_match_candidates")
}
