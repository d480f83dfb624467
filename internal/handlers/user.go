package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"LostFound/internal/config"
	"LostFound/internal/middleware"
	"LostFound/internal/model"
	"LostFound/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler - регистрация, вход и профиль.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger, Config: cfg}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	VerificationStatus string `json:"verification_status"`
	IsAdmin            bool   `json:"is_admin"`
	Token              string `json:"token,omitempty"`
}

func toAuthResponse(u *model.User, token string) authResponse {
	return authResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		VerificationStatus: u.VerificationStatus,
		IsAdmin:            u.IsAdmin,
		Token:              token,
	}
}

// Register регистрация пользователя
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.Logger, "Register", err)
		return
	}
	h.login(w, user)
	h.Logger.Infow("user registered", "user_id", user.ID)
}

// Login вход по email и паролю
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.Logger, "Login", err)
		return
	}
	h.login(w, user)
}

func (h *UserHandler) login(w http.ResponseWriter, user *model.User) {
	token, err := middleware.GenerateToken(user.ID, h.Config.AuthSecret)
	if err != nil {
		h.Logger.Errorw("failed to sign token", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	middleware.SetTokenCookie(w, token)
	writeJSON(w, http.StatusOK, toAuthResponse(user, token))
}

// Logout стирает cookie
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me текущий пользователь
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserIDFromContext(r.Context())
	user, err := h.UserService.Get(r.Context(), uid)
	if err != nil {
		writeServiceError(w, h.Logger, "Me", err)
		return
	}
	writeJSON(w, http.StatusOK, toAuthResponse(user, ""))
}

// SetVerification выставляет статус верификации пользователю (только админ)
func (h *UserHandler) SetVerification(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.GetUserIDFromContext(r.Context())
	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || targetID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.UserService.SetVerification(r.Context(), adminID, targetID, req.Status); err != nil {
		writeServiceError(w, h.Logger, "SetVerification", err)
		return
	}
	h.Logger.Infow("verification status changed", "admin_id", adminID, "user_id", targetID, "status", req.Status)
	writeJSON(w, http.StatusOK, map[string]any{"id": targetID, "verification_status": req.Status})
}
