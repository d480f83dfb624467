package model

import "time"

// Статусы заявки. approved и denied - терминальные.
const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusDenied   = "denied"
)

// ValidDecision проверяет, что статус допустим как решение владельца.
func ValidDecision(s string) bool {
	return s == ClaimStatusApproved || s == ClaimStatusDenied
}

// Claim - заявка пользователя на объявление. Пара (ItemID, ClaimantID) уникальна.
type Claim struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	ItemID string `gorm:"type:uuid;not null;uniqueIndex:idx_claims_item_claimant" json:"item_id"`

	ClaimantID int64    `gorm:"not null;uniqueIndex:idx_claims_item_claimant" json:"claimant_id"`
	Claimant   *UserRef `gorm:"-" json:"claimant,omitempty"`

	Message string `json:"message"`
	Status  string `gorm:"not null;default:pending" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
