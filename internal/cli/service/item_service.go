package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"LostFound/internal/model"
)

// ItemService описывает работу с объявлениями и заявками для CLI.
type ItemService interface {
	List(ctx context.Context, kind model.ItemKind) ([]model.Item, error)
	Get(ctx context.Context, kind model.ItemKind, id string) (*model.Item, error)
	Add(ctx context.Context, kind model.ItemKind, in ItemInput) (*ItemWithMatches, error)
	Edit(ctx context.Context, kind model.ItemKind, id string, in ItemInput) (*ItemWithMatches, error)
	Delete(ctx context.Context, kind model.ItemKind, id string) error

	Claim(ctx context.Context, kind model.ItemKind, id, message string) (*model.Claim, error)
	Claims(ctx context.Context, kind model.ItemKind, id string) ([]model.Claim, error)
	Decide(ctx context.Context, kind model.ItemKind, id, claimID, status string) (*model.Claim, error)
}

// ItemInput - поля create/update. nil не отправляется.
type ItemInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Location    *string `json:"location,omitempty"`
	Date        *string `json:"date,omitempty"`
	Image       *string `json:"image,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// ItemWithMatches ответ create/update: объявление и кандидаты из противоположной коллекции.
type ItemWithMatches struct {
	Item    model.Item   `json:"item"`
	Matches []model.Item `json:"matches"`
}

type claimResponse struct {
	Message string      `json:"message"`
	Claim   model.Claim `json:"claim"`
}

func itemPath(kind model.ItemKind, id string) string {
	p := "/api/" + string(kind)
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

func (s *Remote) List(ctx context.Context, kind model.ItemKind) ([]model.Item, error) {
	var items []model.Item
	if err := s.client.Do(ctx, http.MethodGet, itemPath(kind, ""), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Remote) Get(ctx context.Context, kind model.ItemKind, id string) (*model.Item, error) {
	var it model.Item
	if err := s.client.Do(ctx, http.MethodGet, itemPath(kind, id), nil, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *Remote) Add(ctx context.Context, kind model.ItemKind, in ItemInput) (*ItemWithMatches, error) {
	return s.writeItem(ctx, http.MethodPost, itemPath(kind, ""), in)
}

func (s *Remote) Edit(ctx context.Context, kind model.ItemKind, id string, in ItemInput) (*ItemWithMatches, error) {
	return s.writeItem(ctx, http.MethodPut, itemPath(kind, id), in)
}

func (s *Remote) writeItem(ctx context.Context, method, path string, in ItemInput) (*ItemWithMatches, error) {
	c, err := s.authed()
	if err != nil {
		return nil, err
	}
	var res ItemWithMatches
	if err := c.Do(ctx, method, path, in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Remote) Delete(ctx context.Context, kind model.ItemKind, id string) error {
	c, err := s.authed()
	if err != nil {
		return err
	}
	return c.Do(ctx, http.MethodDelete, itemPath(kind, id), nil, nil)
}

func (s *Remote) Claim(ctx context.Context, kind model.ItemKind, id, message string) (*model.Claim, error) {
	c, err := s.authed()
	if err != nil {
		return nil, err
	}
	var res claimResponse
	if err := c.Do(ctx, http.MethodPost, itemPath(kind, id)+"/claim", map[string]string{"message": message}, &res); err != nil {
		return nil, err
	}
	return &res.Claim, nil
}

func (s *Remote) Claims(ctx context.Context, kind model.ItemKind, id string) ([]model.Claim, error) {
	c, err := s.authed()
	if err != nil {
		return nil, err
	}
	var claims []model.Claim
	if err := c.Do(ctx, http.MethodGet, itemPath(kind, id)+"/claims", nil, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Remote) Decide(ctx context.Context, kind model.ItemKind, id, claimID, status string) (*model.Claim, error) {
	if !model.ValidDecision(status) {
		return nil, fmt.Errorf("status must be %s or %s", model.ClaimStatusApproved, model.ClaimStatusDenied)
	}
	c, err := s.authed()
	if err != nil {
		return nil, err
	}
	var res claimResponse
	path := itemPath(kind, id) + "/claims/" + url.PathEscape(claimID)
	if err := c.Do(ctx, http.MethodPut, path, map[string]string{"status": status}, &res); err != nil {
		return nil, err
	}
	return &res.Claim, nil
}
