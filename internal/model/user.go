package model

import "time"

// Статусы верификации пользователя. Публиковать вещи может только verified.
const (
	VerificationUnverified = "unverified"
	VerificationPending    = "pending"
	VerificationVerified   = "verified"
	VerificationRejected   = "rejected"
)

// User - пользователь сервиса. Жизненный цикл (регистрация, проверка документов)
// принадлежит подсистеме аутентификации, ядро читает только ID, статус и флаг админа.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	VerificationStatus string `gorm:"not null;default:unverified" json:"verification_status"`
	IsAdmin            bool   `gorm:"not null;default:false" json:"is_admin"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsVerified сообщает, прошёл ли пользователь верификацию.
func (u *User) IsVerified() bool {
	return u != nil && u.VerificationStatus == VerificationVerified
}

// ValidVerificationStatus проверяет значение статуса верификации.
func ValidVerificationStatus(s string) bool {
	switch s {
	case VerificationUnverified, VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// UserRef - публичное представление пользователя (имя и email), без секретов.
type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Ref возвращает публичное представление пользователя.
func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
