package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quicknotes/internal/domain"
	"quicknotes/internal/service"
)

const defaultTimeout = 10 * time.Second

// Client talks to a quicknotes server. It implements editor.NoteAPI. The
// timeout bounds every call so an in-flight mutation can never hang the
// caller indefinitely.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Token returns the session token held after a successful login.
func (c *Client) Token() string {
	return c.token
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("malformed response from server: %w", err)
	}

	if !env.Success {
		if resp.StatusCode == http.StatusNotFound {
			return service.ErrNotFound
		}
		if env.Error != "" {
			return fmt.Errorf("server: %s", env.Error)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if out != nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// Login authenticates with email and password and keeps the session token
// for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var tr domain.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth", map[string]string{
		"email":    email,
		"password": password,
	}, &tr)
	if err != nil {
		return err
	}

	c.token = tr.Token
	return nil
}

func (c *Client) Signup(ctx context.Context, name, email, password string) (*domain.SignupResponse, error) {
	var sr domain.SignupResponse
	err := c.do(ctx, http.MethodPost, "/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &sr)
	if err != nil {
		return nil, err
	}
	return &sr, nil
}

func (c *Client) List(ctx context.Context) ([]*domain.Note, error) {
	var notes []*domain.Note
	if err := c.do(ctx, http.MethodGet, "/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) Create(ctx context.Context, content string) (*domain.Note, error) {
	var note domain.Note
	if err := c.do(ctx, http.MethodPost, "/notes", domain.CreateNoteRequest{Content: content}, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Update mirrors the server's tagged outcome: empty content deletes and the
// server answers with a deletion marker instead of a note.
func (c *Client) Update(ctx context.Context, id int64, content string) (*service.UpdateResult, error) {
	var payload struct {
		domain.Note
		Deleted bool `json:"deleted"`
	}

	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/notes/%d", id), domain.UpdateNoteRequest{Content: content}, &payload)
	if err != nil {
		return nil, err
	}

	if payload.Deleted {
		return &service.UpdateResult{Outcome: service.OutcomeDeleted}, nil
	}

	note := payload.Note
	return &service.UpdateResult{Outcome: service.OutcomeUpdated, Note: &note}, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/notes/%d", id), nil, nil)
}
