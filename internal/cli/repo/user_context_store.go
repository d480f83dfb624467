package repo

// UserContextStore хранит email последнего вошедшего пользователя.
type UserContextStore interface {
	SaveLogin(email string) error
	LoadLogin() (string, error)
}

// SessionStore - всё, что CLI держит на диске между запусками.
type SessionStore interface {
	TokenStore
	UserContextStore
}
