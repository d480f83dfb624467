package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"LostFound/internal/config"
	"LostFound/internal/middleware"
	"LostFound/internal/model"
	"LostFound/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ItemHandler обрабатывает объявления и заявки на них.
type ItemHandler struct {
	ItemService *service.ItemService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewItemHandler создаёт хендлер items
func NewItemHandler(itemService *service.ItemService, logger *zap.SugaredLogger, cfg *config.Config) *ItemHandler {
	return &ItemHandler{ItemService: itemService, Logger: logger, Config: cfg}
}

// ItemRequest - тело create/update. Отсутствующее поле не меняется.
type ItemRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Location    *string `json:"location,omitempty"`
	Date        *string `json:"date,omitempty"` // RFC3339 или YYYY-MM-DD
	Image       *string `json:"image,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func (req ItemRequest) fields() (model.ItemFields, error) {
	f := model.ItemFields{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Image:       req.Image,
		Status:      req.Status,
	}
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		d, err := parseDate(*req.Date)
		if err != nil {
			return f, err
		}
		f.Date = &d
	}
	return f, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func decodeItemRequest(r *http.Request) (model.ItemFields, error) {
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return model.ItemFields{}, fmt.Errorf("invalid request")
	}
	return req.fields()
}

// Create публикация объявления
func (h *ItemHandler) Create(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := middleware.GetUserIDFromContext(r.Context())
		f, err := decodeItemRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := h.ItemService.Create(r.Context(), kind, uid, f)
		if err != nil {
			writeServiceError(w, h.Logger, "Create", err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// List все объявления вида, старые первыми
func (h *ItemHandler) List(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.ItemService.List(r.Context(), kind)
		if err != nil {
			writeServiceError(w, h.Logger, "List", err)
			return
		}
		if items == nil {
			items = []model.Item{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// Get одно объявление
func (h *ItemHandler) Get(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := itemIDParam(w, r, "id")
		if !ok {
			return
		}
		it, err := h.ItemService.Get(r.Context(), kind, id)
		if err != nil {
			writeServiceError(w, h.Logger, "Get", err)
			return
		}
		writeJSON(w, http.StatusOK, it)
	}
}

// Update частичное обновление владельцем
func (h *ItemHandler) Update(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := itemIDParam(w, r, "id")
		if !ok {
			return
		}
		uid, _ := middleware.GetUserIDFromContext(r.Context())
		f, err := decodeItemRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := h.ItemService.Update(r.Context(), kind, id, uid, f)
		if err != nil {
			writeServiceError(w, h.Logger, "Update", err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// Delete удаление владельцем
func (h *ItemHandler) Delete(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := itemIDParam(w, r, "id")
		if !ok {
			return
		}
		uid, _ := middleware.GetUserIDFromContext(r.Context())
		if err := h.ItemService.Delete(r.Context(), kind, id, uid); err != nil {
			writeServiceError(w, h.Logger, "Delete", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": kindTitle(kind) + " item removed"})
	}
}

// SubmitClaim заявка не-владельца
func (h *ItemHandler) SubmitClaim(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := itemIDParam(w, r, "id")
		if !ok {
			return
		}
		uid, _ := middleware.GetUserIDFromContext(r.Context())
		var req struct {
			Message string `json:"message"`
		}
		// тело необязательно
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request")
				return
			}
		}

		c, err := h.ItemService.SubmitClaim(r.Context(), kind, id, uid, req.Message)
		if err != nil {
			writeServiceError(w, h.Logger, "SubmitClaim", err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"message": "Claim submitted", "claim": c})
	}
}

// ListClaims заявки, только владельцу
func (h *ItemHandler) ListClaims(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := itemIDParam(w, r, "id")
		if !ok {
			return
		}
		uid, _ := middleware.GetUserIDFromContext(r.Context())
		claims, err := h.ItemService.ListClaims(r.Context(), kind, id, uid)
		if err != nil {
			writeServiceError(w, h.Logger, "ListClaims", err)
			return
		}
		if claims == nil {
			claims = []model.Claim{}
		}
		writeJSON(w, http.StatusOK, claims)
	}
}

// DecideClaim approve/deny владельцем
func (h *ItemHandler) DecideClaim(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := itemIDParam(w, r, "id")
		if !ok {
			return
		}
		uid, _ := middleware.GetUserIDFromContext(r.Context())
		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		c, err := h.ItemService.DecideClaim(r.Context(), kind, id, chi.URLParam(r, "claimId"), uid, req.Status)
		if err != nil {
			writeServiceError(w, h.Logger, "DecideClaim", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Claim " + req.Status, "claim": c})
	}
}

// itemIDParam достаёт id объявления из URL. Не-UUID сразу 404: такой записи быть не может.
func itemIDParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "item not found")
		return "", false
	}
	return id, true
}

func kindTitle(kind model.ItemKind) string {
	if kind == model.KindLost {
		return "Lost"
	}
	return "Found"
}
