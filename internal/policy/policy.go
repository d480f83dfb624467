// Package policy содержит чистые предикаты авторизации над снимком объявления.
// Их вызывают и REST-обработчики, и realtime-слой, каждый раз по свежезагруженному
// состоянию: решения не кешируются на время жизни соединения.
package policy

import "LostFound/internal/model"

// IsOwner - пользователь создал объявление.
func IsOwner(item *model.Item, uid int64) bool {
	return item != nil && uid != 0 && item.UserID == uid
}

// IsClaimant - у пользователя есть заявка на объявление в любом статусе.
func IsClaimant(item *model.Item, uid int64) bool {
	if item == nil || uid == 0 {
		return false
	}
	for _, c := range item.Claims {
		if c.ClaimantID == uid {
			return true
		}
	}
	return false
}

// CanViewClaims - список заявок видит только владелец.
func CanViewClaims(item *model.Item, uid int64) bool {
	return IsOwner(item, uid)
}

// CanDecideClaim - решение по заявке принимает только владелец.
func CanDecideClaim(item *model.Item, uid int64) bool {
	return IsOwner(item, uid)
}

// CanSubmitClaim - не владелец и ещё не подавал заявку.
func CanSubmitClaim(item *model.Item, uid int64) bool {
	return uid != 0 && !IsOwner(item, uid) && !IsClaimant(item, uid)
}

// CanAccessChat - владелец, заявитель или уже участник чата. chat может быть nil,
// если переписка ещё не создана.
func CanAccessChat(item *model.Item, chat *model.Chat, uid int64) bool {
	if uid == 0 {
		return false
	}
	return IsOwner(item, uid) || IsClaimant(item, uid) || chat.HasParticipant(uid)
}
