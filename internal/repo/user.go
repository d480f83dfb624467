package repo

import (
	"context"

	"LostFound/internal/model"

	"gorm.io/gorm"
)

// UserRepository - доступ к пользователям. Полный жизненный цикл пользователя
// вне ядра, здесь только то, что нужно для входа и проверок.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	SetVerificationStatus(ctx context.Context, id int64, status string) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository создаёт репозиторий пользователей.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) SetVerificationStatus(ctx context.Context, id int64, status string) error {
	tx := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("verification_status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// loadUserRefs подгружает имя и email пользователей одним запросом.
func loadUserRefs(ctx context.Context, db *gorm.DB, ids []int64) (map[int64]*model.UserRef, error) {
	refs := make(map[int64]*model.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	var users []model.User
	if err := db.WithContext(ctx).Select("id", "name", "email").Where("id IN ?", uniqueIDs(ids)).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		refs[users[i].ID] = users[i].Ref()
	}
	return refs, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
