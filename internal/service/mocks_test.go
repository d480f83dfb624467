package service

import (
	"context"

	"LostFound/internal/model"
	"LostFound/internal/repo"

	"github.com/stretchr/testify/mock"
)

// мок для repo.UserRepository
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
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

// мок для repo.ItemRepository
type mockItemRepo struct{ mock.Mock }

func (m *mockItemRepo) Create(ctx context.Context, it *model.Item) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *mockItemRepo) GetByID(ctx context.Context, kind model.ItemKind, id string) (*model.Item, error) {
	args := m.Called(ctx, kind, id)
	if it, ok := args.Get(0).(*model.Item); ok {
		return it, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) ListByKind(ctx context.Context, kind model.ItemKind) ([]model.Item, error) {
	args := m.Called(ctx, kind)
	if items, ok := args.Get(0).([]model.Item); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) ListByKindAndCategory(ctx context.Context, kind model.ItemKind, category string) ([]model.Item, error) {
	args := m.Called(ctx, kind, category)
	if items, ok := args.Get(0).([]model.Item); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) Update(ctx context.Context, kind model.ItemKind, id string, ownerID int64, updates map[string]any) error {
	args := m.Called(ctx, kind, id, ownerID, updates)
	return args.Error(0)
}

func (m *mockItemRepo) Delete(ctx context.Context, kind model.ItemKind, id string, ownerID int64) error {
	args := m.Called(ctx, kind, id, ownerID)
	return args.Error(0)
}

func (m *mockItemRepo) AddClaimIfAbsent(ctx context.Context, c *model.Claim) (bool, error) {
	args := m.Called(ctx, c)
	return args.Bool(0), args.Error(1)
}

func (m *mockItemRepo) ListClaims(ctx context.Context, itemID string) ([]model.Claim, error) {
	args := m.Called(ctx, itemID)
	if claims, ok := args.Get(0).([]model.Claim); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) UpdateClaimStatus(ctx context.Context, itemID, claimID, status string) (*model.Claim, error) {
	args := m.Called(ctx, itemID, claimID, status)
	if c, ok := args.Get(0).(*model.Claim); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.ItemRepository = (*mockItemRepo)(nil)

// мок для repo.ChatRepository
type mockChatRepo struct{ mock.Mock }

func (m *mockChatRepo) GetByItem(ctx context.Context, kind model.ItemKind, itemID string) (*model.Chat, error) {
	args := m.Called(ctx, kind, itemID)
	if c, ok := args.Get(0).(*model.Chat); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockChatRepo) GetOrCreate(ctx context.Context, kind model.ItemKind, itemID string, participants []int64) (*model.Chat, error) {
	args := m.Called(ctx, kind, itemID, participants)
	if c, ok := args.Get(0).(*model.Chat); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockChatRepo) AppendMessage(ctx context.Context, chatID string, msg *model.Message) error {
	args := m.Called(ctx, chatID, msg)
	return args.Error(0)
}

var _ repo.ChatRepository = (*mockChatRepo)(nil)

type mockMatcher struct{ mock.Mock }

func (m *mockMatcher) Match(ctx context.Context, item *model.Item) []model.Item {
	args := m.Called(ctx, item)
	if items, ok := args.Get(0).([]model.Item); ok {
		return items
	}
	return nil
}

var _ Matcher = (*mockMatcher)(nil)

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Broadcast(kind model.ItemKind, itemID string, msg *model.Message) {
	m.Called(kind, itemID, msg)
}

var _ Notifier = (*mockNotifier)(nil)
