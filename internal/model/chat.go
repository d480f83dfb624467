package model

import "time"

// Chat - переписка по одному объявлению. Не более одного чата на (ItemKind, ItemID).
type Chat struct {
	ID       string   `gorm:"primaryKey;type:uuid" json:"id"`
	ItemKind ItemKind `gorm:"not null;uniqueIndex:idx_chats_item" json:"item_type"`
	ItemID   string   `gorm:"type:uuid;not null;uniqueIndex:idx_chats_item" json:"item_id"`

	Participants []ChatParticipant `gorm:"constraint:OnDelete:CASCADE" json:"participants"`
	Messages     []Message         `gorm:"constraint:OnDelete:CASCADE" json:"messages"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ChatParticipant - участник чата. Первичный ключ (ChatID, UserID).
type ChatParticipant struct {
	ChatID    string    `gorm:"primaryKey;type:uuid" json:"-"`
	UserID    int64     `gorm:"primaryKey" json:"user_id"`
	User      *UserRef  `gorm:"-" json:"user,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// Message - сообщение в чате. Порядок сообщений задаётся автоинкрементным ID.
type Message struct {
	ID       int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID   string   `gorm:"type:uuid;not null;index" json:"chat_id"`
	SenderID int64    `gorm:"not null" json:"sender_id"`
	Sender   *UserRef `gorm:"-" json:"sender,omitempty"`
	Text     string   `gorm:"not null" json:"text"`

	CreatedAt time.Time `json:"created_at"`
}

func (Message) TableName() string { return "chat_messages" }

// HasParticipant сообщает, числится ли пользователь среди участников.
func (c *Chat) HasParticipant(userID int64) bool {
	if c == nil {
		return false
	}
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
