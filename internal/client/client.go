// Package client is a Go client for the TaskFlow API. It keeps the signed-in
// identity, caches the task and user lists, and drops a cache after any
// mutation so the next read refetches.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/dto"
	"github.com/taskflow/taskflow-api/internal/schema"
)

// ErrUnauthenticated means there is no identity or the server rejected it.
// Callers should send the user back to login.
var ErrUnauthenticated = errors.New("client: not authenticated")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int                 `json:"-"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []schema.FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken starts the client with an existing bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
	user  *dto.UserDTO
	tasks *taskCache
	users []dto.UserDTO

	// bumped on every invalidation so an in-flight read does not refill a dropped cache
	tasksGen uint64
	usersGen uint64
}

type taskCache struct {
	query schema.TaskQuery
	tasks []dto.TaskDTO
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current bearer token, empty when signed out.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// User returns the signed-in user, if known.
func (c *Client) User() (dto.UserDTO, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return dto.UserDTO{}, false
	}
	return *c.user, true
}

func (c *Client) setIdentity(token string, user *dto.UserDTO) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.user = user
	c.tasks = nil
	c.users = nil
	c.tasksGen++
	c.usersGen++
}

func (c *Client) clearIdentity() {
	c.setIdentity("", nil)
}

func (c *Client) invalidateTasks() {
	c.mu.Lock()
	c.tasks = nil
	c.tasksGen++
	c.mu.Unlock()
}

func (c *Client) invalidateUsers() {
	c.mu.Lock()
	c.users = nil
	c.usersGen++
	c.mu.Unlock()
}

// do sends one request. out may be nil. A 401 clears the identity.
func (c *Client) do(ctx context.Context, method, path string, authenticated bool, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if authenticated {
		token := c.Token()
		if token == "" {
			return ErrUnauthenticated
		}
		req.Header.Set("Authorization", constants.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		c.clearIdentity()
		return ErrUnauthenticated
	}
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if raw, ok := out.(*[]byte); ok {
		*raw, err = io.ReadAll(resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}
