package model

import (
	"strings"
	"time"
)

// ItemKind - вид объявления: потерянная или найденная вещь.
type ItemKind string

const (
	KindLost  ItemKind = "lost"
	KindFound ItemKind = "found"
)

// Opposite возвращает коллекцию, в которой ищутся совпадения.
func (k ItemKind) Opposite() ItemKind {
	if k == KindLost {
		return KindFound
	}
	return KindLost
}

// Valid сообщает, является ли значение известным видом.
func (k ItemKind) Valid() bool {
	return k == KindLost || k == KindFound
}

// ParseItemKind разбирает вид объявления из сегмента URL.
func ParseItemKind(s string) (ItemKind, bool) {
	k := ItemKind(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Valid()
}

// Статусы объявления.
const (
	ItemStatusPending  = "pending"
	ItemStatusMatched  = "matched"
	ItemStatusReturned = "returned"
)

// ValidItemStatus проверяет статус объявления.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusPending, ItemStatusMatched, ItemStatusReturned:
		return true
	}
	return false
}

// Item - объявление о потерянной или найденной вещи. Владелец неизменен после создания,
// заявки (Claims) принадлежат объявлению и удаляются вместе с ним.
type Item struct {
	ID   string   `gorm:"primaryKey;type:uuid" json:"id"`
	Kind ItemKind `gorm:"not null;index:idx_items_kind_category" json:"kind"`

	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Category    string    `gorm:"index:idx_items_kind_category" json:"category"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"` // дата потери или находки
	Image       string    `json:"image"`
	Status      string    `gorm:"not null;default:pending" json:"status"`

	UserID int64    `gorm:"not null;index" json:"user_id"` // ссылка на users.id
	User   *UserRef `gorm:"-" json:"user,omitempty"`

	Claims     []Claim `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ClaimCount int     `gorm:"-" json:"claim_count"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ItemFields - набор полей для создания или частичного обновления.
// nil означает "поле не передано" и при обновлении не трогается.
type ItemFields struct {
	Title       *string
	Description *string
	Category    *string
	Location    *string
	Date        *time.Time
	Image       *string
	Status      *string
}
