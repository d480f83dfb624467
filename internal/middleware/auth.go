package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName - имя cookie с JWT сессии.
const CookieName = "auth_token"

// TokenTTL - срок жизни токена и cookie.
const TokenTTL = 24 * time.Hour

type ctxKey string

const userIDKey ctxKey = "user_id"

// Claims - полезная нагрузка токена.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// GenerateToken подписывает токен для пользователя.
func GenerateToken(userID int64, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken проверяет подпись и срок и возвращает id пользователя.
func ParseToken(tokenString, secret string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid || claims.UserID == 0 {
		return 0, errors.New("invalid token")
	}
	return claims.UserID, nil
}

// SetTokenCookie кладёт готовый токен в cookie.
func SetTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(TokenTTL),
	})
}

// SetLoginCookie генерирует токен и устанавливает cookie.
func SetLoginCookie(w http.ResponseWriter, userID int64, secret string) error {
	token, err := GenerateToken(userID, secret)
	if err != nil {
		return err
	}
	SetTokenCookie(w, token)
	return nil
}

// ClearLoginCookie стирает cookie сессии.
func ClearLoginCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

// tokenFromRequest: сначала Authorization: Bearer, затем cookie.
func tokenFromRequest(r *http.Request) []string {
	var tokens []string
	if h := r.Header.Get("Authorization"); h != "" {
		if parts := strings.SplitN(h, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if t := strings.TrimSpace(parts[1]); t != "" {
				tokens = append(tokens, t)
			}
		}
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		tokens = append(tokens, c.Value)
	}
	return tokens
}

// WithAuth извлекает пользователя из запроса и кладёт его id в контекст.
// Запрос без валидного токена проходит дальше анонимным.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, t := range tokenFromRequest(r) {
				uid, err := ParseToken(t, secret)
				if err != nil {
					continue
				}
				r = r.WithContext(WithUserID(r.Context(), uid))
				break
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser отвечает 401 анонимным запросам.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserIDFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"authentication required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUserID кладёт id пользователя в контекст.
func WithUserID(ctx context.Context, uid int64) context.Context {
	return context.WithValue(ctx, userIDKey, uid)
}

// GetUserIDFromContext возвращает id пользователя, если запрос авторизован.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	uid, ok := ctx.Value(userIDKey).(int64)
	return uid, ok && uid != 0
}
