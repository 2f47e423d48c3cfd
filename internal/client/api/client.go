// Package api is the HTTP client for the vault server. It mirrors the server
// routes one to one and keeps the bearer token for the session in memory.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// User mirrors the server's user representation.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Surname       string     `json:"surname"`
	CreateDate    time.Time  `json:"create_date"`
	LastLoginDate *time.Time `json:"last_login_date,omitempty"`
}

// Entry mirrors the server's password entry representation. Password holds
// plaintext on reads and ciphertext in create/update responses.
type Entry struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Location string `json:"location"`
	Username string `json:"username"`
	Password string `json:"password"`
	IconName string `json:"icon_name,omitempty"`
}

// EntryRequest is the body for create and update calls.
type EntryRequest struct {
	Location string `json:"location"`
	Username string `json:"username"`
	Password string `json:"password"`
	IconName string `json:"icon_name,omitempty"`
}

// PresignedUpload is the response of the icon presign route.
type PresignedUpload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// APIError carries the status code and server-provided detail of a failed call.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
}

// Client talks to the vault server. Not safe for concurrent use: the bearer
// token is plain session state.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// IsLoggedIn reports whether a login token is held for this session.
func (c *Client) IsLoggedIn() bool {
	return c.token != ""
}

// Logout drops the session token.
func (c *Client) Logout() {
	c.token = ""
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(raw, &detail)
		if detail.Detail == "" {
			detail.Detail = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: detail.Detail}
	}

	if out != nil && len(raw) > 0 {
		return json.Unmarshal(raw, out)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	return c.do(ctx, method, path, "application/json", body, out)
}

// Register creates an account on the server.
func (c *Client) Register(ctx context.Context, email, password, name, surname string) (*User, error) {
	in := map[string]string{"email": email, "password": password, "name": name, "surname": surname}
	var u User
	if err := c.doJSON(ctx, http.MethodPost, "/register", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for a bearer token and stores it for
// subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	form := url.Values{"username": {email}, "password": {password}}
	var tr tokenResponse
	err := c.do(ctx, http.MethodPost, "/token", "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()), &tr)
	if err != nil {
		return err
	}
	c.token = tr.AccessToken
	return nil
}

// Me returns the currently authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteAccount removes the account and everything it owns, then drops the
// session token.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/users/me", nil, nil); err != nil {
		return err
	}
	c.Logout()
	return nil
}

// ListEntries returns the user's entries with decrypted passwords.
func (c *Client) ListEntries(ctx context.Context, offset, limit int) ([]*Entry, error) {
	path := fmt.Sprintf("/passwords?offset=%d&limit=%d", offset, limit)
	var items []*Entry
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateEntry stores a new entry.
func (c *Client) CreateEntry(ctx context.Context, in *EntryRequest) (*Entry, error) {
	var e Entry
	if err := c.doJSON(ctx, http.MethodPost, "/passwords", in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetEntry returns a single entry with the password decrypted.
func (c *Client) GetEntry(ctx context.Context, id string) (*Entry, error) {
	var e Entry
	if err := c.doJSON(ctx, http.MethodGet, "/passwords/"+url.PathEscape(id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateEntry replaces an entry's fields.
func (c *Client) UpdateEntry(ctx context.Context, id string, in *EntryRequest) (*Entry, error) {
	var e Entry
	if err := c.doJSON(ctx, http.MethodPut, "/passwords/"+url.PathEscape(id), in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEntry removes a single entry and returns the deleted record.
func (c *Client) DeleteEntry(ctx context.Context, id string) (*Entry, error) {
	var e Entry
	if err := c.doJSON(ctx, http.MethodDelete, "/passwords/"+url.PathEscape(id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteAllEntries empties the vault.
func (c *Client) DeleteAllEntries(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/passwords", nil, nil)
}

// PresignIconUpload asks the server for a presigned PUT URL for an icon.
func (c *Client) PresignIconUpload(ctx context.Context) (*PresignedUpload, error) {
	var p PresignedUpload
	if err := c.doJSON(ctx, http.MethodPost, "/icons/presign", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
