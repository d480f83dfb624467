package handlers

import (
	"net/http"

	"LostFound/internal/config"
	"LostFound/internal/metrics"
	"LostFound/internal/middleware"
	"LostFound/internal/model"
	"LostFound/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров. realtime может быть nil - тогда /ws не регистрируется.
func NewHandler(
	userService *service.UserService,
	itemService *service.ItemService,
	chatService *service.ChatService,
	realtime http.Handler,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	limiter := middleware.NewLimiter(config.RateLimitRPS, config.RateLimitBurst)
	limited := middleware.WithRateLimit(limiter)

	// Handlers
	userHandler := NewUserHandler(userService, logger, config)
	itemHandler := NewItemHandler(itemService, logger, config)
	chatHandler := NewChatHandler(chatService, logger, config)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("LostFound API is running"))
	})
	r.Handle("/metrics", metrics.Handler())
	if realtime != nil {
		r.Handle("/ws", realtime)
	}

	// User routes
	r.With(limited).Post("/api/user/register", userHandler.Register)
	r.With(limited).Post("/api/user/login", userHandler.Login)
	r.Post("/api/user/logout", userHandler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Get("/api/user/me", userHandler.Me)
		r.Put("/api/admin/users/{id}/verification", userHandler.SetVerification)

		// Chat
		r.Get("/api/chats/{itemType}/{itemId}", chatHandler.Get)
		r.With(limited).Post("/api/chats/{itemType}/{itemId}/messages", chatHandler.PostMessage)
	})

	// Items: /api/lost и /api/found - два вида одной таблицы
	for _, kind := range []model.ItemKind{model.KindLost, model.KindFound} {
		r.Route("/api/"+string(kind), func(r chi.Router) {
			// чтение открыто и анонимам
			r.Get("/", itemHandler.List(kind))
			r.Get("/{id}", itemHandler.Get(kind))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)

				r.Post("/", itemHandler.Create(kind))
				r.Put("/{id}", itemHandler.Update(kind))
				r.Delete("/{id}", itemHandler.Delete(kind))

				r.With(limited).Post("/{id}/claim", itemHandler.SubmitClaim(kind))
				r.Get("/{id}/claims", itemHandler.ListClaims(kind))
				r.With(limited).Put("/{id}/claims/{claimId}", itemHandler.DecideClaim(kind))
			})
		})
	}

	return &Handler{Router: r}
}
