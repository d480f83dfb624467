package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"LostFound/internal/model"
	"LostFound/internal/repo"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService - регистрация, вход и статус верификации.
type UserService struct {
	repo   repo.UserRepository
	admins map[string]struct{}
}

// UserOption настраивает UserService.
type UserOption func(*UserService)

// WithAdmins: пользователи с этими email при регистрации становятся
// администраторами и сразу получают статус verified.
func WithAdmins(emails []string) UserOption {
	return func(s *UserService) {
		for _, e := range emails {
			e = strings.ToLower(strings.TrimSpace(e))
			if e != "" {
				s.admins[e] = struct{}{}
			}
		}
	}
}

func NewUserService(r repo.UserRepository, opts ...UserOption) *UserService {
	s := &UserService{repo: r, admins: map[string]struct{}{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UserService) isAdminEmail(email string) bool {
	_, ok := s.admins[email]
	return ok
}

// Register создаёт пользователя, если email свободен.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageErr(err, "user")
	}
	if existing != nil {
		return nil, ErrLoginTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:               name,
		Email:              email,
		Password:           string(hash),
		VerificationStatus: model.VerificationUnverified,
	}
	if s.isAdminEmail(email) {
		user.IsAdmin = true
		user.VerificationStatus = model.VerificationVerified
	}
	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		// гонка двух регистраций упирается в уникальный индекс
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrLoginTaken
		}
		return nil, storageErr(err, "user")
	}
	return created, nil
}

// Login проверяет email и пароль.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageErr(err, "user")
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Get возвращает пользователя по id.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, "user")
	}
	return u, nil
}

// SetVerification меняет статус верификации; доступно только администратору.
func (s *UserService) SetVerification(ctx context.Context, adminID, targetID int64, status string) error {
	admin, err := s.repo.GetUserByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: admin only", ErrForbidden)
		}
		return storageErr(err, "user")
	}
	if !admin.IsAdmin {
		return fmt.Errorf("%w: admin only", ErrForbidden)
	}
	if !model.ValidVerificationStatus(status) {
		return fmt.Errorf("%w: unknown verification status %q", ErrInvalidInput, status)
	}
	if err := s.repo.SetVerificationStatus(ctx, targetID, status); err != nil {
		return storageErr(err, "user")
	}
	return nil
}
