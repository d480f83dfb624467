package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"LostFound/internal/metrics"
	"LostFound/internal/model"
	"LostFound/internal/policy"
	"LostFound/internal/repo"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notifier рассылает сохранённое сообщение подписчикам комнаты объявления.
type Notifier interface {
	Broadcast(kind model.ItemKind, itemID string, msg *model.Message)
}

// ChatService - доступ к переписке по объявлению. Право доступа проверяется
// заново при каждом чтении и отправке, по свежему состоянию объявления.
type ChatService struct {
	items  repo.ItemRepository
	chats  repo.ChatRepository
	users  repo.UserRepository
	logger *zap.SugaredLogger

	mu       sync.RWMutex
	notifier Notifier
}

func NewChatService(items repo.ItemRepository, chats repo.ChatRepository, users repo.UserRepository, logger *zap.SugaredLogger) *ChatService {
	return &ChatService{items: items, chats: chats, users: users, logger: logger}
}

// SetNotifier подключает realtime-рассылку. Без неё сообщения только сохраняются.
func (s *ChatService) SetNotifier(n Notifier) {
	s.mu.Lock()
	s.notifier = n
	s.mu.Unlock()
}

// Get открывает чат объявления, создавая его при первом обращении
// с участниками {владелец, запрашивающий}.
func (s *ChatService) Get(ctx context.Context, kind model.ItemKind, itemID string, uid int64) (*model.Chat, error) {
	it, chat, err := s.authorize(ctx, kind, itemID, uid)
	if err != nil {
		return nil, err
	}
	if chat != nil {
		return chat, nil
	}
	chat, err = s.chats.GetOrCreate(ctx, kind, it.ID, []int64{it.UserID, uid})
	if err != nil {
		return nil, storageErr(err, "chat")
	}
	s.logger.Infow("chat created", "kind", kind, "item_id", it.ID, "chat_id", chat.ID)
	return chat, nil
}

// Send сохраняет сообщение и рассылает его в комнату объявления.
// transport - метка метрики: http или ws.
func (s *ChatService) Send(ctx context.Context, kind model.ItemKind, itemID string, uid int64, text, transport string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message text is required", ErrInvalidInput)
	}
	chat, err := s.Get(ctx, kind, itemID, uid)
	if err != nil {
		return nil, err
	}
	sender, err := s.users.GetUserByID(ctx, uid)
	if err != nil {
		return nil, storageErr(err, "user")
	}

	msg := &model.Message{SenderID: uid, Text: text}
	if err := s.chats.AppendMessage(ctx, chat.ID, msg); err != nil {
		return nil, storageErr(err, "chat")
	}
	msg.Sender = sender.Ref()
	metrics.ChatMessages.WithLabelValues(transport).Inc()

	s.mu.RLock()
	n := s.notifier
	s.mu.RUnlock()
	if n != nil {
		n.Broadcast(kind, itemID, msg)
	}
	return msg, nil
}

// authorize загружает объявление и чат (если есть) и проверяет доступ.
func (s *ChatService) authorize(ctx context.Context, kind model.ItemKind, itemID string, uid int64) (*model.Item, *model.Chat, error) {
	if !kind.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown item type %q", ErrInvalidInput, kind)
	}
	it, err := s.items.GetByID(ctx, kind, itemID)
	if err != nil {
		return nil, nil, storageErr(err, "item")
	}
	chat, err := s.chats.GetByItem(ctx, kind, itemID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, storageErr(err, "chat")
	}
	if !policy.CanAccessChat(it, chat, uid) {
		s.logger.Warnw("chat access denied", "kind", kind, "item_id", itemID, "user_id", uid)
		return nil, nil, fmt.Errorf("%w: you are not allowed to access this chat", ErrForbidden)
	}
	return it, chat, nil
}
