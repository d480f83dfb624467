// Package realtime - websocket-доставка сообщений чата. Подписка на комнату
// (join) не проверяет права: любой сокет, включая анонимный, присоединившийся
// к комнате kind:itemId, получает все её рассылки. Проверка доступа стоит только
// на записи: sendMessage заново проходит гейт чата через ChatSender при каждом сообщении.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"LostFound/internal/metrics"
	"LostFound/internal/middleware"
	"LostFound/internal/model"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
	sendBuffer     = 32
	sendTimeout    = 5 * time.Second
)

// События клиента и сервера.
const (
	EventJoin        = "join"
	EventLeave       = "leave"
	EventSendMessage = "sendMessage"
	EventAck         = "ack"
	EventMessage     = "message"

	AckOK    = "ok"
	AckError = "error"
)

// ChatSender сохраняет сообщение с проверкой доступа. Реализуется service.ChatService.
type ChatSender interface {
	Send(ctx context.Context, kind model.ItemKind, itemID string, uid int64, text, transport string) (*model.Message, error)
}

// ReasonFunc превращает ошибку отправки в текст для ack.
type ReasonFunc func(err error) string

// ClientEvent - кадр от клиента.
type ClientEvent struct {
	Event    string `json:"event"`
	ItemType string `json:"itemType"`
	ItemID   string `json:"itemId"`
	Text     string `json:"text,omitempty"`
	AckID    string `json:"ackId,omitempty"`
}

// ServerEvent - кадр от сервера. Message - строка в ack и *model.Message в рассылке.
type ServerEvent struct {
	Event    string `json:"event"`
	AckID    string `json:"ackId,omitempty"`
	Status   string `json:"status,omitempty"`
	ItemType string `json:"itemType,omitempty"`
	ItemID   string `json:"itemId,omitempty"`
	Message  any    `json:"message,omitempty"`
}

// RoomName - имя комнаты объявления.
func RoomName(kind model.ItemKind, itemID string) string {
	return string(kind) + ":" + itemID
}

type client struct {
	conn  *websocket.Conn
	uid   int64
	send  chan []byte
	rooms map[string]struct{} // под Hub.mu
}

// Hub держит соединения и комнаты.
type Hub struct {
	chats   ChatSender
	reason  ReasonFunc
	limiter *middleware.Limiter
	logger  *zap.SugaredLogger

	upgrader websocket.Upgrader

	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
}

// NewHub создаёт хаб. limiter может быть nil.
func NewHub(chats ChatSender, reason ReasonFunc, limiter *middleware.Limiter, logger *zap.SugaredLogger) *Hub {
	if reason == nil {
		reason = func(err error) string { return err.Error() }
	}
	return &Hub{
		chats:   chats,
		reason:  reason,
		limiter: limiter,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		rooms: make(map[string]map[*client]struct{}),
	}
}

// ServeHTTP апгрейдит соединение. Пользователь берётся из контекста (middleware.WithAuth);
// анонимные соединения могут подписываться, но не отправлять.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}
	uid, _ := middleware.GetUserIDFromContext(r.Context())
	c := &client{conn: conn, uid: uid, send: make(chan []byte, sendBuffer), rooms: make(map[string]struct{})}

	metrics.RealtimeConnections.Inc()
	h.logger.Debugw("websocket connected", "user_id", uid)

	go h.writePump(c)
	h.readPump(c)
}

// Broadcast рассылает сообщение всем в комнате объявления.
func (h *Hub) Broadcast(kind model.ItemKind, itemID string, msg *model.Message) {
	data, err := json.Marshal(ServerEvent{
		Event:    EventMessage,
		ItemType: string(kind),
		ItemID:   itemID,
		Message:  msg,
	})
	if err != nil {
		h.logger.Errorw("failed to encode broadcast", "error", err)
		return
	}

	// отправка под RLock: unregister закрывает канал только под Lock
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[RoomName(kind, itemID)] {
		select {
		case c.send <- data:
		default:
			// медленный клиент: закрываем, чтобы не держать рассылку
			h.logger.Warnw("dropping slow websocket client", "user_id", c.uid)
			_ = c.conn.Close()
		}
	}
}

// RoomSize - число подписчиков комнаты.
func (h *Hub) RoomSize(kind model.ItemKind, itemID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[RoomName(kind, itemID)])
}

func (h *Hub) join(c *client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

func (h *Hub) leave(c *client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

func (h *Hub) leaveLocked(c *client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.rooms, room)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
	h.mu.Unlock()
	close(c.send)
	metrics.RealtimeConnections.Dec()
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
		h.logger.Debugw("websocket disconnected", "user_id", c.uid)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var ev ClientEvent
		if err := c.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warnw("websocket read error", "user_id", c.uid, "error", err)
			}
			return
		}
		h.handle(c, ev)
	}
}

func (h *Hub) handle(c *client, ev ClientEvent) {
	kind, ok := model.ParseItemKind(ev.ItemType)
	if !ok {
		h.ack(c, ev.AckID, AckError, "unknown item type")
		return
	}
	if _, err := uuid.Parse(ev.ItemID); err != nil {
		h.ack(c, ev.AckID, AckError, "item not found")
		return
	}
	room := RoomName(kind, ev.ItemID)

	switch ev.Event {
	case EventJoin:
		h.join(c, room)
		h.ack(c, ev.AckID, AckOK, "joined")
	case EventLeave:
		h.leave(c, room)
		h.ack(c, ev.AckID, AckOK, "left")
	case EventSendMessage:
		h.sendMessage(c, kind, ev)
	default:
		h.ack(c, ev.AckID, AckError, "unknown event")
	}
}

func (h *Hub) sendMessage(c *client, kind model.ItemKind, ev ClientEvent) {
	if c.uid == 0 {
		h.ack(c, ev.AckID, AckError, "authentication required")
		return
	}
	if h.limiter != nil && !h.limiter.Allow(middleware.UserKey(c.uid)) {
		metrics.RateLimited.WithLabelValues("ws").Inc()
		h.ack(c, ev.AckID, AckError, "rate limit exceeded")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if _, err := h.chats.Send(ctx, kind, ev.ItemID, c.uid, ev.Text, "ws"); err != nil {
		h.logger.Debugw("websocket send rejected", "user_id", c.uid, "item_id", ev.ItemID, "error", err)
		h.ack(c, ev.AckID, AckError, h.reason(err))
		return
	}
	h.ack(c, ev.AckID, AckOK, "sent")
}

func (h *Hub) ack(c *client, ackID, status, message string) {
	data, err := json.Marshal(ServerEvent{Event: EventAck, AckID: ackID, Status: status, Message: message})
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
		h.logger.Warnw("ack dropped, client buffer full", "user_id", c.uid)
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
