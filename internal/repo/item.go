package repo

import (
	"context"
	"time"

	"LostFound/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository - хранилище объявлений вместе с их заявками.
// Заявки адресуются только через объявление: отдельного хранилища у них нет.
type ItemRepository interface {
	Create(ctx context.Context, it *model.Item) error

	// GetByID возвращает объявление с заявками в порядке подачи.
	GetByID(ctx context.Context, kind model.ItemKind, id string) (*model.Item, error)

	// ListByKind - все объявления вида, самые старые первыми.
	ListByKind(ctx context.Context, kind model.ItemKind) ([]model.Item, error)

	// ListByKindAndCategory - структурный префильтр для сопоставления.
	ListByKindAndCategory(ctx context.Context, kind model.ItemKind, category string) ([]model.Item, error)

	// Update пишет только переданные поля и только если ownerID - владелец.
	// Если строка не найдена по (kind, id, owner), возвращает gorm.ErrRecordNotFound.
	Update(ctx context.Context, kind model.ItemKind, id string, ownerID int64, updates map[string]any) error

	// Delete удаляет объявление владельца вместе с заявками в одной транзакции.
	Delete(ctx context.Context, kind model.ItemKind, id string, ownerID int64) error

	// AddClaimIfAbsent атомарно добавляет заявку, если от этого заявителя её ещё нет.
	// created=false означает дубликат.
	AddClaimIfAbsent(ctx context.Context, c *model.Claim) (created bool, err error)

	ListClaims(ctx context.Context, itemID string) ([]model.Claim, error)

	// UpdateClaimStatus меняет статус одной заявки объявления.
	UpdateClaimStatus(ctx context.Context, itemID, claimID, status string) (*model.Claim, error)
}

type itemRepo struct {
	db *gorm.DB
}

// NewItemRepository создаёт реализацию репозитория для Item.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepo{db: db}
}

func orderClaims(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

func (r *itemRepo) Create(ctx context.Context, it *model.Item) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(it).Error
}

func (r *itemRepo) GetByID(ctx context.Context, kind model.ItemKind, id string) (*model.Item, error) {
	var it model.Item
	err := r.db.WithContext(ctx).
		Preload("Claims", orderClaims).
		Where("id = ? AND kind = ?", id, kind).
		First(&it).Error
	if err != nil {
		return nil, err
	}
	items := []model.Item{it}
	if err := r.fillUsers(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (r *itemRepo) ListByKind(ctx context.Context, kind model.ItemKind) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Preload("Claims", orderClaims).
		Where("kind = ?", kind).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	if err := r.fillUsers(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepo) ListByKindAndCategory(ctx context.Context, kind model.ItemKind, category string) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Preload("Claims", orderClaims).
		Where("kind = ? AND category = ?", kind, category).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	if err := r.fillUsers(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepo) Update(ctx context.Context, kind model.ItemKind, id string, ownerID int64, updates map[string]any) error {
	if updates == nil {
		updates = map[string]any{}
	}
	updates["updated_at"] = time.Now().UTC()
	tx := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ? AND kind = ? AND user_id = ?", id, kind, ownerID).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *itemRepo) Delete(ctx context.Context, kind model.ItemKind, id string, ownerID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&model.Claim{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND kind = ? AND user_id = ?", id, kind, ownerID).Delete(&model.Item{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// откатываем удаление заявок
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *itemRepo) AddClaimIfAbsent(ctx context.Context, c *model.Claim) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Item{}).Where("id = ?", c.ItemID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}, {Name: "claimant_id"}},
			DoNothing: true,
		}).Create(c)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *itemRepo) ListClaims(ctx context.Context, itemID string) ([]model.Claim, error) {
	var claims []model.Claim
	if err := orderClaims(r.db.WithContext(ctx)).Where("item_id = ?", itemID).Find(&claims).Error; err != nil {
		return nil, err
	}
	if err := r.fillClaimants(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (r *itemRepo) UpdateClaimStatus(ctx context.Context, itemID, claimID, status string) (*model.Claim, error) {
	tx := r.db.WithContext(ctx).Model(&model.Claim{}).
		Where("id = ? AND item_id = ?", claimID, itemID).
		Update("status", status)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var c model.Claim
	if err := r.db.WithContext(ctx).Where("id = ?", claimID).First(&c).Error; err != nil {
		return nil, err
	}
	claims := []model.Claim{c}
	if err := r.fillClaimants(ctx, claims); err != nil {
		return nil, err
	}
	return &claims[0], nil
}

// fillUsers проставляет владельцев и заявителей и считает заявки.
func (r *itemRepo) fillUsers(ctx context.Context, items []model.Item) error {
	ids := make([]int64, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].UserID)
		for _, c := range items[i].Claims {
			ids = append(ids, c.ClaimantID)
		}
	}
	refs, err := loadUserRefs(ctx, r.db, ids)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].User = refs[items[i].UserID]
		items[i].ClaimCount = len(items[i].Claims)
		for j := range items[i].Claims {
			items[i].Claims[j].Claimant = refs[items[i].Claims[j].ClaimantID]
		}
	}
	return nil
}

func (r *itemRepo) fillClaimants(ctx context.Context, claims []model.Claim) error {
	ids := make([]int64, 0, len(claims))
	for _, c := range claims {
		ids = append(ids, c.ClaimantID)
	}
	refs, err := loadUserRefs(ctx, r.db, ids)
	if err != nil {
		return err
	}
	for i := range claims {
		claims[i].Claimant = refs[claims[i].ClaimantID]
	}
	return nil
}
