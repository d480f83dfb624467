package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

var log = zap.NewNop().Sugar()

// SetLogger задаёт логгер для мидлварей.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		log = l
	}
}

type responseData struct {
	status int
	size   int
}

type loggingResponseWriter struct {
	http.ResponseWriter
	data *responseData
}

func (w *loggingResponseWriter) Write(b []byte) (int, error) {
	if w.data.status == 0 {
		w.data.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.data.size += n
	return n, err
}

func (w *loggingResponseWriter) WriteHeader(code int) {
	w.data.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack нужен для websocket-апгрейда.
func (w *loggingResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	w.data.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// WithLogging пишет в лог метод, uri, статус, размер ответа и длительность.
func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		data := &responseData{}
		next.ServeHTTP(&loggingResponseWriter{ResponseWriter: w, data: data}, r)

		log.Infow("request",
			"method", r.Method,
			"uri", r.RequestURI,
			"status", data.status,
			"size", data.size,
			"duration", time.Since(start),
		)
	})
}
