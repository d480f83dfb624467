package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"LostFound/internal/service"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

var errorKinds = []struct {
	err    error
	status int
}{
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrConflict, http.StatusConflict},
	{service.ErrLoginTaken, http.StatusConflict},
	{service.ErrInvalidInput, http.StatusBadRequest},
	{service.ErrInvalidOperation, http.StatusBadRequest},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
}

// StatusFor возвращает HTTP-статус для ошибки сервиса.
func StatusFor(err error) int {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

// Reason - текст ошибки без префикса вида: "you already claimed this item".
func Reason(err error) string {
	msg := err.Error()
	for _, k := range errorKinds {
		if p := k.err.Error() + ": "; strings.HasPrefix(msg, p) {
			return strings.TrimPrefix(msg, p)
		}
	}
	return msg
}

// writeServiceError отдаёт клиенту конкретную причину отказа. Внутренние ошибки
// только логируются.
func writeServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Errorw(op+": service error", "error", err)
		writeError(w, status, "internal error")
		return
	}
	logger.Debugw(op+": rejected", "status", status, "error", err)
	writeError(w, status, Reason(err))
}
