package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoToken - токен ещё не сохранён (нужен login или register).
var ErrNoToken = errors.New("not logged in")

// AuthFSStore - файловое хранилище токена и контекста пользователя для CLI.
// Пустой Path означает файл auth_token в пользовательском конфиг-каталоге.
type AuthFSStore struct {
	Path string
}

// NewAuthFSStore создаёт хранилище с токеном по пути path.
func NewAuthFSStore(path string) AuthFSStore {
	return AuthFSStore{Path: path}
}

func (s AuthFSStore) tokenPath() (string, error) {
	if s.Path != "" {
		return s.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "LostFound", "auth_token"), nil
}

// loginPath лежит рядом с токеном.
func (s AuthFSStore) loginPath() (string, error) {
	p, err := s.tokenPath()
	if err != nil {
		return "", err
	}
	return p + ".login", nil
}

func writeFile(p, value string) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return err
	}
	return os.WriteFile(p, []byte(value), 0o600)
}

// readTrimmed читает файл и обрезает завершающие переводы строки и пробелы.
func readTrimmed(p string) (string, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), " \t\r\n"), nil
}

// Save сохраняет auth-токен в файл.
func (s AuthFSStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty token")
	}
	p, err := s.tokenPath()
	if err != nil {
		return err
	}
	return writeFile(p, token)
}

// Load читает auth-токен. Отсутствующий или пустой файл даёт ErrNoToken.
func (s AuthFSStore) Load() (string, error) {
	p, err := s.tokenPath()
	if err != nil {
		return "", err
	}
	tok, err := readTrimmed(p)
	if errors.Is(err, os.ErrNotExist) || (err == nil && tok == "") {
		return "", ErrNoToken
	}
	return tok, err
}

// Clear удаляет токен и сохранённый email. Отсутствие файлов не ошибка.
func (s AuthFSStore) Clear() error {
	for _, pathFn := range []func() (string, error){s.tokenPath, s.loginPath} {
		p, err := pathFn()
		if err != nil {
			return err
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// SaveLogin сохраняет email пользователя.
func (s AuthFSStore) SaveLogin(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("empty login")
	}
	p, err := s.loginPath()
	if err != nil {
		return err
	}
	return writeFile(p, email)
}

// LoadLogin читает email пользователя.
func (s AuthFSStore) LoadLogin() (string, error) {
	p, err := s.loginPath()
	if err != nil {
		return "", err
	}
	login, err := readTrimmed(p)
	if err != nil {
		return "", err
	}
	if login == "" {
		return "", errors.New("no stored login")
	}
	return login, nil
}
