// Package api - тонкий HTTP-клиент LostFound API для CLI.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

// DefaultTimeout таймаут одного запроса к серверу.
const DefaultTimeout = 15 * time.Second

// Error ответ сервера со статусом не 2xx.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server status %d", e.Status)
	}
	return fmt.Sprintf("server status %d: %s", e.Status, e.Message)
}

// StatusOf возвращает HTTP-статус из ошибки Error или 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client выполняет JSON-запросы. Token, если задан, уходит в Authorization: Bearer.
type Client struct {
	BaseURL string
	Token   string
	// Compress сжимает тела запросов gzip.
	Compress bool
	HTTP     *http.Client
}

// New создаёт клиента для сервера по адресу baseURL (со схемой).
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Compress: true,
		HTTP:     &http.Client{Timeout: DefaultTimeout},
	}
}

// WithToken возвращает копию клиента с токеном.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

// Do отправляет запрос method на path. payload (если не nil) кодируется в JSON,
// ответ 2xx декодируется в out (если не nil). На не-2xx возвращается *Error.
func (c *Client) Do(ctx context.Context, method, path string, payload, out any) error {
	body, err := c.encode(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		if c.Compress {
			req.Header.Set("Content-Encoding", "gzip")
		}
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) encode(payload any) (io.Reader, error) {
	if payload == nil {
		return nil, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	if !c.Compress {
		return bytes.NewReader(b), nil
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		return nil, fmt.Errorf("compress request: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress request: %w", err)
	}
	return &buf, nil
}

// errorMessage достаёт поле error из JSON-ответа, иначе отдаёт тело как есть.
func errorMessage(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(raw))
}
