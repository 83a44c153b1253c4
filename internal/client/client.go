// Package client talks to the todo HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/todo-service/internal/model"
)

// DefaultServer is used when no server URL is configured.
const DefaultServer = "http://127.0.0.1:8080"

// todosPath is appended to the server URL for every todo call.
const todosPath = "/api/todos"

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Client is a small typed wrapper over net/http.
type Client struct {
	base string
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New validates baseURL and returns a client for it.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultServer
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: server url %q must be http or https", baseURL)
	}
	c := &Client{
		base: strings.TrimRight(u.String(), "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized server URL.
func (c *Client) BaseURL() string { return c.base }

// List returns every item on the server.
func (c *Client) List(ctx context.Context) ([]model.TodoItem, error) {
	var items []model.TodoItem
	if err := c.do(ctx, http.MethodGet, todosPath, nil, &items); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return items, nil
}

// Get fetches one item.
func (c *Client) Get(ctx context.Context, id int64) (model.TodoItem, error) {
	var it model.TodoItem
	if err := c.do(ctx, http.MethodGet, itemPath(id), nil, &it); err != nil {
		return model.TodoItem{}, fmt.Errorf("get todo %d: %w", id, err)
	}
	return it, nil
}

// Create posts item; the server assigns the id.
func (c *Client) Create(ctx context.Context, item model.TodoItem) (model.TodoItem, error) {
	var it model.TodoItem
	if err := c.do(ctx, http.MethodPost, todosPath, toRequest(item), &it); err != nil {
		return model.TodoItem{}, fmt.Errorf("create todo: %w", err)
	}
	return it, nil
}

// Update replaces every field of item id.
func (c *Client) Update(ctx context.Context, id int64, item model.TodoItem) (model.TodoItem, error) {
	var it model.TodoItem
	if err := c.do(ctx, http.MethodPut, itemPath(id), toRequest(item), &it); err != nil {
		return model.TodoItem{}, fmt.Errorf("update todo %d: %w", id, err)
	}
	return it, nil
}

// Delete removes item id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, itemPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	return nil
}

// Health returns the server's health text.
func (c *Client) Health(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		return "", fmt.Errorf("health: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("health: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("health: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("health: %w", &StatusError{Code: resp.StatusCode})
	}
	return string(body), nil
}

// wireTodo is the request body; ids always come from the URL.
type wireTodo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func toRequest(it model.TodoItem) wireTodo {
	return wireTodo{Title: it.Title, Description: it.Description, Completed: it.Completed}
}

func itemPath(id int64) string {
	return todosPath + "/" + strconv.FormatInt(id, 10)
}

// do sends in as JSON (when non-nil) and decodes a 2xx body into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError pulls the message out of an APIError body when there is one.
func statusError(resp *http.Response) error {
	se := &StatusError{Code: resp.StatusCode}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	if len(b) > 0 && json.Unmarshal(b, &payload) == nil && payload.Error != "" {
		se.Message = payload.Error
		if len(payload.Details) > 0 {
			se.Message += " (" + strings.Join(payload.Details, "; ") + ")"
		}
	}
	return se
}
