// Package marketplace is the Go client for the marketplace API. Besides the
// raw endpoint calls on Client it provides the stateful boards used by the
// directory, booking, lead and vendor-listing screens.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNoCredentials = errors.New("marketplace: no bearer token available")

// Credentials supplies the bearer token for authenticated calls. It is asked
// on every request, so implementations may rotate tokens.
type Credentials interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed bearer token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if strings.TrimSpace(string(t)) == "" {
		return "", ErrNoCredentials
	}
	return string(t), nil
}

var defaultHTTPClient = &http.Client{Timeout: 20 * time.Second}

// Client calls the marketplace API. A nil HTTPClient uses a shared client with
// a 20s timeout.
type Client struct {
	BaseURL     string
	HTTPClient  *http.Client
	Credentials Credentials
}

// APIError is a non-2xx response. Code and Message come from the server's
// {"error": {...}} body when it has one.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("marketplace api error: status=%d", e.Status)
	}
	return fmt.Sprintf("marketplace api error: status=%d code=%s message=%s", e.Status, e.Code, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

type request struct {
	method string
	path   string
	query  url.Values
	auth   bool
	body   any
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return defaultHTTPClient
}

// do sends one request and returns the raw body of a 2xx response.
func (c Client) do(ctx context.Context, r request) ([]byte, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("marketplace: missing base url")
	}

	var token string
	if r.auth {
		if c.Credentials == nil {
			return nil, ErrNoCredentials
		}
		t, err := c.Credentials.Token(ctx)
		if err != nil {
			return nil, err
		}
		token = t
	}

	var buf bytes.Buffer
	if r.body != nil {
		if err := json.NewEncoder(&buf).Encode(r.body); err != nil {
			return nil, err
		}
	}

	u := strings.TrimRight(c.BaseURL, "/") + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("marketplace: %s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("marketplace: read %s %s: %w", r.method, r.path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		ae := &APIError{Status: resp.StatusCode}
		var env struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(b, &env) == nil {
			ae.Code, ae.Message = env.Error.Code, env.Error.Message
		}
		return nil, ae
	}
	return b, nil
}

// doData sends a request and decodes the payload into dst, accepting both the
// {"data": ...} envelope and a bare body.
func (c Client) doData(ctx context.Context, r request, dst any) error {
	b, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	if dst == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := decodeData(b, dst); err != nil {
		return fmt.Errorf("marketplace: decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

// decodeData is the one place response shapes are normalised.
func decodeData(b []byte, dst any) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(b, &env); err == nil {
			if d, ok := env["data"]; ok {
				return json.Unmarshal(d, dst)
			}
		}
	}
	return json.Unmarshal(b, dst)
}

// decodePagination reads the optional top-level pagination block.
func decodePagination(b []byte) *Pagination {
	var env struct {
		Pagination *Pagination `json:"pagination"`
	}
	if json.Unmarshal(bytes.TrimSpace(b), &env) != nil {
		return nil
	}
	return env.Pagination
}
