package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"LostFound/internal/model"
	"LostFound/internal/policy"
	"LostFound/internal/repo"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Matcher подбирает кандидатов из противоположной коллекции. Никогда не падает.
type Matcher interface {
	Match(ctx context.Context, item *model.Item) []model.Item
}

// ItemService инкапсулирует бизнес-логику объявлений и их заявок.
type ItemService struct {
	items   repo.ItemRepository
	users   repo.UserRepository
	matcher Matcher
	logger  *zap.SugaredLogger
}

func NewItemService(items repo.ItemRepository, users repo.UserRepository, matcher Matcher, logger *zap.SugaredLogger) *ItemService {
	return &ItemService{items: items, users: users, matcher: matcher, logger: logger}
}

// ItemWithMatches - сохранённое объявление и кандидаты сопоставления.
type ItemWithMatches struct {
	Item    *model.Item  `json:"item"`
	Matches []model.Item `json:"matches"`
}

// Create публикует объявление от верифицированного пользователя.
func (s *ItemService) Create(ctx context.Context, kind model.ItemKind, ownerID int64, f model.ItemFields) (*ItemWithMatches, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown item kind %q", ErrInvalidInput, kind)
	}
	owner, err := s.users.GetUserByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown user", ErrForbidden)
		}
		return nil, storageErr(err, "user")
	}
	if !owner.IsVerified() {
		return nil, fmt.Errorf("%w: account verification required to post items", ErrForbidden)
	}

	title := strings.TrimSpace(deref(f.Title))
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	status := model.ItemStatusPending
	if f.Status != nil {
		if !model.ValidItemStatus(*f.Status) {
			return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *f.Status)
		}
		status = *f.Status
	}
	date := time.Now().UTC()
	if f.Date != nil && !f.Date.IsZero() {
		date = f.Date.UTC()
	}

	it := &model.Item{
		ID:          uuid.NewString(),
		Kind:        kind,
		Title:       title,
		Description: deref(f.Description),
		Category:    strings.TrimSpace(deref(f.Category)),
		Location:    strings.TrimSpace(deref(f.Location)),
		Date:        date,
		Image:       deref(f.Image),
		Status:      status,
		UserID:      ownerID,
		User:        owner.Ref(),
		Claims:      []model.Claim{},
	}
	if err := s.items.Create(ctx, it); err != nil {
		return nil, storageErr(err, "item")
	}
	s.logger.Infow("item created", "kind", kind, "id", it.ID, "user_id", ownerID)

	return &ItemWithMatches{Item: it, Matches: s.matcher.Match(ctx, it)}, nil
}

// List - все объявления вида, старые первыми.
func (s *ItemService) List(ctx context.Context, kind model.ItemKind) ([]model.Item, error) {
	items, err := s.items.ListByKind(ctx, kind)
	if err != nil {
		return nil, storageErr(err, "items")
	}
	return items, nil
}

// Get возвращает объявление с заявками.
func (s *ItemService) Get(ctx context.Context, kind model.ItemKind, id string) (*model.Item, error) {
	it, err := s.items.GetByID(ctx, kind, id)
	if err != nil {
		return nil, storageErr(err, "item")
	}
	return it, nil
}

// Update меняет только переданные поля; только владелец.
func (s *ItemService) Update(ctx context.Context, kind model.ItemKind, id string, requesterID int64, f model.ItemFields) (*ItemWithMatches, error) {
	it, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if !policy.IsOwner(it, requesterID) {
		return nil, fmt.Errorf("%w: only the owner can update this item", ErrForbidden)
	}

	updates, err := updatesFromFields(f)
	if err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.items.Update(ctx, kind, id, requesterID, updates); err != nil {
			return nil, storageErr(err, "item")
		}
	}

	it, err = s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("item updated", "kind", kind, "id", id, "fields", len(updates))
	return &ItemWithMatches{Item: it, Matches: s.matcher.Match(ctx, it)}, nil
}

// Delete удаляет объявление вместе с заявками; только владелец.
func (s *ItemService) Delete(ctx context.Context, kind model.ItemKind, id string, requesterID int64) error {
	it, err := s.Get(ctx, kind, id)
	if err != nil {
		return err
	}
	if !policy.IsOwner(it, requesterID) {
		return fmt.Errorf("%w: only the owner can delete this item", ErrForbidden)
	}
	if err := s.items.Delete(ctx, kind, id, requesterID); err != nil {
		return storageErr(err, "item")
	}
	s.logger.Infow("item deleted", "kind", kind, "id", id)
	return nil
}

func updatesFromFields(f model.ItemFields) (map[string]any, error) {
	updates := map[string]any{}
	if f.Title != nil {
		t := strings.TrimSpace(*f.Title)
		if t == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		updates["title"] = t
	}
	if f.Description != nil {
		updates["description"] = *f.Description
	}
	if f.Category != nil {
		updates["category"] = strings.TrimSpace(*f.Category)
	}
	if f.Location != nil {
		updates["location"] = strings.TrimSpace(*f.Location)
	}
	if f.Date != nil && !f.Date.IsZero() {
		updates["date"] = f.Date.UTC()
	}
	if f.Image != nil {
		updates["image"] = *f.Image
	}
	if f.Status != nil {
		if !model.ValidItemStatus(*f.Status) {
			return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *f.Status)
		}
		updates["status"] = *f.Status
	}
	return updates, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
