package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"LostFound/internal/cli/api"
	"LostFound/internal/cli/repo"
	fsrepo "LostFound/internal/cli/repo/fs"
)

// ErrNotLoggedIn - на диске нет токена.
var ErrNotLoggedIn = errors.New("not logged in: run login or register first")

// AuthService описывает юзкейс-уровень аутентификации для CLI.
type AuthService interface {
	// Register создаёт аккаунт и сохраняет токен.
	Register(ctx context.Context, name, email, password string) (*Account, error)

	// Login вход по email и паролю, токен сохраняется локально.
	Login(ctx context.Context, email, password string) (*Account, error)

	// Logout очищает локальный контекст аутентификации.
	Logout(ctx context.Context) error

	// CurrentUser возвращает профиль текущего пользователя с сервера.
	CurrentUser(ctx context.Context) (*Account, error)
}

// Account - профиль пользователя в ответах /api/user/*.
type Account struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	VerificationStatus string `json:"verification_status"`
	IsAdmin            bool   `json:"is_admin"`
	Token              string `json:"token,omitempty"`
}

// Remote реализует сервисы CLI поверх HTTP API.
type Remote struct {
	client *api.Client
	store  repo.SessionStore
}

var (
	_ AuthService = (*Remote)(nil)
	_ ItemService = (*Remote)(nil)
	_ ChatService = (*Remote)(nil)
)

// NewRemote конструктор.
func NewRemote(client *api.Client, store repo.SessionStore) *Remote {
	return &Remote{client: client, store: store}
}

// authed возвращает клиента с сохранённым токеном.
func (s *Remote) authed() (*api.Client, error) {
	tok, err := s.store.Load()
	if errors.Is(err, fsrepo.ErrNoToken) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	return s.client.WithToken(tok), nil
}

func (s *Remote) Register(ctx context.Context, name, email, password string) (*Account, error) {
	req := map[string]string{"name": name, "email": email, "password": password}
	var acc Account
	if err := s.client.Do(ctx, http.MethodPost, "/api/user/register", req, &acc); err != nil {
		if api.StatusOf(err) == http.StatusConflict {
			return nil, errors.New("email already registered")
		}
		return nil, err
	}
	return &acc, s.persist(&acc)
}

func (s *Remote) Login(ctx context.Context, email, password string) (*Account, error) {
	req := map[string]string{"email": email, "password": password}
	var acc Account
	if err := s.client.Do(ctx, http.MethodPost, "/api/user/login", req, &acc); err != nil {
		if api.StatusOf(err) == http.StatusUnauthorized {
			return nil, errors.New("invalid email or password")
		}
		return nil, err
	}
	return &acc, s.persist(&acc)
}

func (s *Remote) persist(acc *Account) error {
	if acc.Token == "" {
		return errors.New("no token in server response")
	}
	if err := s.store.Save(acc.Token); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	if err := s.store.SaveLogin(acc.Email); err != nil {
		return fmt.Errorf("saving login: %w", err)
	}
	return nil
}

// Logout: серверный выход best-effort, локальный токен удаляется всегда.
func (s *Remote) Logout(ctx context.Context) error {
	if c, err := s.authed(); err == nil {
		_ = c.Do(ctx, http.MethodPost, "/api/user/logout", nil, nil)
	}
	return s.store.Clear()
}

func (s *Remote) CurrentUser(ctx context.Context) (*Account, error) {
	c, err := s.authed()
	if err != nil {
		return nil, err
	}
	var acc Account
	if err := c.Do(ctx, http.MethodGet, "/api/user/me", nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}
