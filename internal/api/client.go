// Package api is the typed client for the item API. Every call fetches a
// bearer token from the session provider first, so an expired or missing
// session surfaces before the network round trip.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domain "github.com/Kokonaut/todo-app-demo/internal/domain/model"
	"github.com/Kokonaut/todo-app-demo/internal/http/httpx"
	"github.com/Kokonaut/todo-app-demo/internal/session"
)

// Error is a decoded API error response.
type Error struct {
	Status  int
	Kind    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.Status)
}

// IsNotFound reports whether err is a 404 API error.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Status == http.StatusNotFound
}

type Client struct {
	baseURL string
	session session.Session
	http    *http.Client
}

func NewClient(baseURL string, sess session.Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: sess,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) List(ctx context.Context) ([]*domain.Todo, error) {
	var todos []*domain.Todo
	if err := c.do(ctx, http.MethodGet, "/items", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *Client) Get(ctx context.Context, id string) (*domain.Todo, error) {
	var todo domain.Todo
	if err := c.do(ctx, http.MethodGet, "/items/"+id, nil, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) Create(ctx context.Context, title string) (*domain.Todo, error) {
	var todo domain.Todo
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, "/items", body, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// Update sends only the set fields; nil fields stay untouched server-side.
func (c *Client) Update(ctx context.Context, id string, title *string, completed *bool) (*domain.Todo, error) {
	body := map[string]any{}
	if title != nil {
		body["title"] = *title
	}
	if completed != nil {
		body["completed"] = *completed
	}

	var todo domain.Todo
	if err := c.do(ctx, http.MethodPatch, "/items/"+id, body, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/items/"+id, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.session.AccessToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode, Kind: httpx.KindInternal}
		var eb httpx.ErrorBody
		if json.NewDecoder(resp.Body).Decode(&eb) == nil && eb.Error != "" {
			apiErr.Kind = eb.Error
			apiErr.Message = eb.Message
		}
		return apiErr
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
