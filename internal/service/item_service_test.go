package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"LostFound/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func strp(s string) *string { return &s }

func newItemSvc() (*ItemService, *mockItemRepo, *mockUserRepo, *mockMatcher) {
	items := new(mockItemRepo)
	users := new(mockUserRepo)
	matcher := new(mockMatcher)
	return NewItemService(items, users, matcher, zap.NewNop().Sugar()), items, users, matcher
}

func TestItemService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("unverified user forbidden", func(t *testing.T) {
		svc, items, users, _ := newItemSvc()
		users.On("GetUserByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, VerificationStatus: model.VerificationPending}, nil).Once()

		_, err := svc.Create(ctx, model.KindLost, 1, model.ItemFields{Title: strp("Keys")})
		assert.ErrorIs(t, err, ErrForbidden)
		items.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("title required", func(t *testing.T) {
		svc, _, users, _ := newItemSvc()
		users.On("GetUserByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, VerificationStatus: model.VerificationVerified}, nil).Once()

		_, err := svc.Create(ctx, model.KindLost, 1, model.ItemFields{Title: strp("  ")})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc, _, users, _ := newItemSvc()
		users.On("GetUserByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, VerificationStatus: model.VerificationVerified}, nil).Once()

		_, err := svc.Create(ctx, model.KindLost, 1, model.ItemFields{Title: strp("Keys"), Status: strp("lost")})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("ok returns matches", func(t *testing.T) {
		svc, items, users, matcher := newItemSvc()
		users.On("GetUserByID", mock.Anything, int64(2)).Return(&model.User{ID: 2, Name: "B", VerificationStatus: model.VerificationVerified}, nil).Once()
		items.On("Create", mock.Anything, mock.MatchedBy(func(it *model.Item) bool {
			return it.Kind == model.KindLost && it.Title == "Black Wallet" && it.Category == "Wallet" &&
				it.Location == "Gym Entrance" && it.Status == model.ItemStatusPending && it.UserID == 2 && it.ID != ""
		})).Return(nil).Once()
		found := model.Item{ID: "a1", Kind: model.KindFound, Title: "Black Wallet"}
		matcher.On("Match", mock.Anything, mock.Anything).Return([]model.Item{found}).Once()

		before := time.Now().UTC()
		res, err := svc.Create(ctx, model.KindLost, 2, model.ItemFields{
			Title: strp("Black Wallet"), Category: strp("Wallet"), Location: strp("Gym Entrance"),
		})
		require.NoError(t, err)
		assert.Equal(t, model.ItemStatusPending, res.Item.Status)
		assert.False(t, res.Item.Date.Before(before))
		if assert.Len(t, res.Matches, 1) {
			assert.Equal(t, "a1", res.Matches[0].ID)
		}
		items.AssertExpectations(t)
		matcher.AssertExpectations(t)
	})

	t.Run("storage error", func(t *testing.T) {
		svc, items, users, _ := newItemSvc()
		users.On("GetUserByID", mock.Anything, int64(2)).Return(&model.User{ID: 2, VerificationStatus: model.VerificationVerified}, nil).Once()
		items.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

		_, err := svc.Create(ctx, model.KindFound, 2, model.ItemFields{Title: strp("Keys")})
		assert.ErrorIs(t, err, ErrStorage)
	})
}

func TestItemService_Get_NotFound(t *testing.T) {
	svc, items, _, _ := newItemSvc()
	items.On("GetByID", mock.Anything, model.KindLost, "x").Return(nil, gorm.ErrRecordNotFound).Once()

	_, err := svc.Get(context.Background(), model.KindLost, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemService_Update(t *testing.T) {
	ctx := context.Background()
	owned := &model.Item{ID: "i1", Kind: model.KindLost, Title: "Old", Description: "keep", UserID: 1}

	t.Run("non owner forbidden", func(t *testing.T) {
		svc, items, _, _ := newItemSvc()
		items.On("GetByID", mock.Anything, model.KindLost, "i1").Return(owned, nil).Once()

		_, err := svc.Update(ctx, model.KindLost, "i1", 2, model.ItemFields{Title: strp("New")})
		assert.ErrorIs(t, err, ErrForbidden)
		items.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("only passed fields are written", func(t *testing.T) {
		svc, items, _, matcher := newItemSvc()
		items.On("GetByID", mock.Anything, model.KindLost, "i1").Return(owned, nil).Twice()
		items.On("Update", mock.Anything, model.KindLost, "i1", int64(1), mock.MatchedBy(func(u map[string]any) bool {
			_, hasDesc := u["description"]
			return len(u) == 2 && u["title"] == "New" && u["status"] == model.ItemStatusReturned && !hasDesc
		})).Return(nil).Once()
		matcher.On("Match", mock.Anything, owned).Return([]model.Item{}).Once()

		res, err := svc.Update(ctx, model.KindLost, "i1", 1, model.ItemFields{Title: strp("New"), Status: strp(model.ItemStatusReturned)})
		require.NoError(t, err)
		assert.NotNil(t, res.Matches)
		items.AssertExpectations(t)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		svc, items, _, _ := newItemSvc()
		items.On("GetByID", mock.Anything, model.KindLost, "i1").Return(owned, nil).Once()

		_, err := svc.Update(ctx, model.KindLost, "i1", 1, model.ItemFields{Title: strp("")})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		svc, items, _, _ := newItemSvc()
		items.On("GetByID", mock.Anything, model.KindLost, "i1").Return(owned, nil).Once()

		_, err := svc.Update(ctx, model.KindLost, "i1", 1, model.ItemFields{Status: strp("closed")})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestItemService_Delete(t *testing.T) {
	ctx := context.Background()
	owned := &model.Item{ID: "i1", Kind: model.KindFound, UserID: 1}

	t.Run("non owner forbidden", func(t *testing.T) {
		svc, items, _, _ := newItemSvc()
		items.On("GetByID", mock.Anything, model.KindFound, "i1").Return(owned, nil).Once()

		assert.ErrorIs(t, svc.Delete(ctx, model.KindFound, "i1", 3), ErrForbidden)
	})

	t.Run("ok", func(t *testing.T) {
		svc, items, _, _ := newItemSvc()
		items.On("GetByID", mock.Anything, model.KindFound, "i1").Return(owned, nil).Once()
		items.On("Delete", mock.Anything, model.KindFound, "i1", int64(1)).Return(nil).Once()

		assert.NoError(t, svc.Delete(ctx, model.KindFound, "i1", 1))
		items.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		svc, items, _, _ := newItemSvc()
		items.On("GetByID", mock.Anything, model.KindFound, "nope").Return(nil, gorm.ErrRecordNotFound).Once()

		assert.ErrorIs(t, svc.Delete(ctx, model.KindFound, "nope", 1), ErrNotFound)
	})
}
