package service

import (
	"context"
	"fmt"
	"strings"

	"LostFound/internal/metrics"
	"LostFound/internal/model"
	"LostFound/internal/policy"

	"github.com/google/uuid"
)

// SubmitClaim добавляет заявку не-владельца. Проверка дубликата и вставка
// выполняются одной атомарной операцией в репозитории.
func (s *ItemService) SubmitClaim(ctx context.Context, kind model.ItemKind, itemID string, claimantID int64, message string) (*model.Claim, error) {
	it, err := s.Get(ctx, kind, itemID)
	if err != nil {
		return nil, err
	}
	if policy.IsOwner(it, claimantID) {
		return nil, fmt.Errorf("%w: you cannot claim your own item", ErrInvalidOperation)
	}
	if !policy.CanSubmitClaim(it, claimantID) {
		return nil, fmt.Errorf("%w: you already claimed this item", ErrConflict)
	}

	c := &model.Claim{
		ID:         uuid.NewString(),
		ItemID:     it.ID,
		ClaimantID: claimantID,
		Message:    strings.TrimSpace(message),
		Status:     model.ClaimStatusPending,
	}
	created, err := s.items.AddClaimIfAbsent(ctx, c)
	if err != nil {
		return nil, storageErr(err, "item")
	}
	if !created {
		return nil, fmt.Errorf("%w: you already claimed this item", ErrConflict)
	}

	metrics.ClaimsSubmitted.WithLabelValues(string(kind)).Inc()
	s.logger.Infow("claim submitted", "kind", kind, "item_id", it.ID, "claim_id", c.ID, "claimant_id", claimantID)
	return c, nil
}

// ListClaims - заявки объявления, видны только владельцу.
func (s *ItemService) ListClaims(ctx context.Context, kind model.ItemKind, itemID string, requesterID int64) ([]model.Claim, error) {
	it, err := s.Get(ctx, kind, itemID)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewClaims(it, requesterID) {
		return nil, fmt.Errorf("%w: only the owner can view claims", ErrForbidden)
	}
	claims, err := s.items.ListClaims(ctx, it.ID)
	if err != nil {
		return nil, storageErr(err, "claims")
	}
	return claims, nil
}

// DecideClaim переводит заявку в approved или denied. Повторное решение по
// уже решённой заявке разрешено и просто перезаписывает статус.
func (s *ItemService) DecideClaim(ctx context.Context, kind model.ItemKind, itemID, claimID string, requesterID int64, status string) (*model.Claim, error) {
	it, err := s.Get(ctx, kind, itemID)
	if err != nil {
		return nil, err
	}
	if !policy.CanDecideClaim(it, requesterID) {
		return nil, fmt.Errorf("%w: only the owner can decide claims", ErrForbidden)
	}
	if !hasClaim(it, claimID) {
		return nil, fmt.Errorf("%w: claim not found", ErrNotFound)
	}
	if !model.ValidDecision(status) {
		return nil, fmt.Errorf("%w: status must be approved or denied", ErrInvalidInput)
	}

	c, err := s.items.UpdateClaimStatus(ctx, it.ID, claimID, status)
	if err != nil {
		return nil, storageErr(err, "claim")
	}
	metrics.ClaimDecisions.WithLabelValues(status).Inc()
	s.logger.Infow("claim decided", "kind", kind, "item_id", it.ID, "claim_id", claimID, "status", status)
	return c, nil
}

func hasClaim(it *model.Item, claimID string) bool {
	for _, c := range it.Claims {
		if c.ID == claimID {
			return true
		}
	}
	return false
}
