package service

import (
	"context"
	"net/http"
	"net/url"

	"LostFound/internal/model"
)

// ChatService чат по объявлению через REST.
type ChatService interface {
	Chat(ctx context.Context, kind model.ItemKind, id string) (*model.Chat, error)
	Send(ctx context.Context, kind model.ItemKind, id, text string) (*model.Message, error)
}

func chatPath(kind model.ItemKind, id string) string {
	return "/api/chats/" + string(kind) + "/" + url.PathEscape(id)
}

func (s *Remote) Chat(ctx context.Context, kind model.ItemKind, id string) (*model.Chat, error) {
	c, err := s.authed()
	if err != nil {
		return nil, err
	}
	var chat model.Chat
	if err := c.Do(ctx, http.MethodGet, chatPath(kind, id), nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (s *Remote) Send(ctx context.Context, kind model.ItemKind, id, text string) (*model.Message, error) {
	c, err := s.authed()
	if err != nil {
		return nil, err
	}
	var msg model.Message
	if err := c.Do(ctx, http.MethodPost, chatPath(kind, id)+"/messages", map[string]string{"text": text}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
