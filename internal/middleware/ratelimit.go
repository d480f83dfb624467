package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"

	"LostFound/internal/metrics"

	"golang.org/x/time/rate"
)

// Limiter - пул токен-бакетов по ключу (пользователь или адрес).
type Limiter struct {
	mu    sync.Mutex
	m     map[string]*rate.Limiter
	rps   float64
	burst int
}

// NewLimiter создаёт пул; неположительные значения заменяются на 5 rps / burst 10.
func NewLimiter(rps float64, burst int) *Limiter {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &Limiter{m: make(map[string]*rate.Limiter), rps: rps, burst: burst}
}

func (p *Limiter) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.m[key]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(p.rps), p.burst)
	p.m[key] = l
	return l
}

// Allow расходует один токен ключа.
func (p *Limiter) Allow(key string) bool {
	return p.get(key).Allow()
}

// UserKey - ключ лимита для авторизованного пользователя.
func UserKey(uid int64) string {
	return "user:" + strconv.FormatInt(uid, 10)
}

// WithRateLimit ограничивает частоту запросов: по пользователю, если он известен,
// иначе по адресу клиента.
func WithRateLimit(l *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ""
			if uid, ok := GetUserIDFromContext(r.Context()); ok {
				key = UserKey(uid)
			} else {
				host, _, err := net.SplitHostPort(r.RemoteAddr)
				if err != nil {
					host = r.RemoteAddr
				}
				key = "ip:" + host
			}
			if !l.Allow(key) {
				metrics.RateLimited.WithLabelValues("http").Inc()
				log.Warnw("rate limit exceeded", "key", key, "uri", r.RequestURI)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
