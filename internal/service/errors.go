package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Виды ошибок бизнес-логики. Конкретная причина добавляется через fmt.Errorf("%w: ...").
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrStorage          = errors.New("storage error")

	ErrLoginTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// storageErr переводит ошибку репозитория в вид сервиса.
func storageErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s not found", ErrNotFound, what)
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
