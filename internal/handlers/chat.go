package handlers

import (
	"encoding/json"
	"net/http"

	"LostFound/internal/config"
	"LostFound/internal/middleware"
	"LostFound/internal/model"
	"LostFound/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ChatHandler - REST-доступ к переписке по объявлению.
type ChatHandler struct {
	ChatService *service.ChatService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewChatHandler(chatService *service.ChatService, logger *zap.SugaredLogger, cfg *config.Config) *ChatHandler {
	return &ChatHandler{ChatService: chatService, Logger: logger, Config: cfg}
}

// chatTarget разбирает вид и id объявления; при ошибке ответ уже записан.
func chatTarget(w http.ResponseWriter, r *http.Request) (model.ItemKind, string, bool) {
	kind, ok := model.ParseItemKind(chi.URLParam(r, "itemType"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown item type")
		return "", "", false
	}
	itemID, ok := itemIDParam(w, r, "itemId")
	return kind, itemID, ok
}

// Get чат объявления; создаётся при первом обращении
func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserIDFromContext(r.Context())
	kind, itemID, ok := chatTarget(w, r)
	if !ok {
		return
	}

	chat, err := h.ChatService.Get(r.Context(), kind, itemID, uid)
	if err != nil {
		writeServiceError(w, h.Logger, "GetChat", err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

// PostMessage новое сообщение; рассылается подписчикам комнаты
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserIDFromContext(r.Context())
	kind, itemID, ok := chatTarget(w, r)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	msg, err := h.ChatService.Send(r.Context(), kind, itemID, uid, req.Text, "http")
	if err != nil {
		writeServiceError(w, h.Logger, "PostMessage", err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
