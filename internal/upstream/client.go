// Package upstream is the HTTP client for the backend that produces the
// leads export and owns user sessions. The dashboard never interprets the
// session itself: cookies from the browser are forwarded as-is and any
// Set-Cookie headers the backend returns are handed back to the caller.
package upstream

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

// Backend paths.
const (
	DefaultCSVPath = "/most_recent_leads_with_hyperlinks.csv"
	GeneratePath   = "/generate-leads"
	LoginPath      = "/auth/login"
	MePath         = "/auth/me"
	LogoutPath     = "/auth/logout"
)

// maxJSONBody bounds JSON responses read from the backend.
const maxJSONBody = 1 << 20

const userAgent = "leadboard/1.0"

// Client calls the upstream backend.
type Client struct {
	base    *url.URL
	csvPath string
	hc      *http.Client
}

// New creates a client for baseURL. An empty csvPath uses DefaultCSVPath.
func New(baseURL, csvPath string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("upstream url %q: scheme must be http or https", baseURL)
	}
	if csvPath == "" {
		csvPath = DefaultCSVPath
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base:    u,
		csvPath: csvPath,
		hc:      &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the configured backend URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// CSV is an open leads export. The caller must close Body.
type CSV struct {
	Body io.ReadCloser
	Size int64 // -1 when unknown
}

// FetchCSV downloads the most recent leads export.
func (c *Client) FetchCSV(ctx context.Context, cookies []*http.Cookie) (*CSV, error) {
	resp, err := c.do(ctx, http.MethodGet, c.csvPath, nil, cookies)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &CSV{Body: resp.Body, Size: resp.ContentLength}, nil
}

// Generate triggers lead generation and returns the backend's message
// verbatim. A missing message is returned as "".
func (c *Client) Generate(ctx context.Context, cookies []*http.Cookie) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, GeneratePath, nil, cookies)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(resp.Body, &body); err != nil {
		return "", c.transportErr(resp.Request, 0, fmt.Errorf("decode generate response: %w", err))
	}
	return body.Message, nil
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the backend's view of the current user.
type Session struct {
	Authenticated bool            `json:"authenticated"`
	User          json.RawMessage `json:"user,omitempty"`

	// SetCookies are raw Set-Cookie header values to relay to the browser.
	SetCookies []string `json:"-"`
}

// Login authenticates with the backend. Rejected credentials yield
// *AuthError; unreachable backends yield *TransportError.
func (c *Client) Login(ctx context.Context, creds Credentials, cookies []*http.Cookie) (*Session, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("encode credentials: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, LoginPath, payload, cookies)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden ||
		resp.StatusCode == http.StatusBadRequest {
		return nil, readAuthError(resp)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var body struct {
		User json.RawMessage `json:"user"`
	}
	if err := decodeJSON(resp.Body, &body); err != nil {
		return nil, c.transportErr(resp.Request, 0, fmt.Errorf("decode login response: %w", err))
	}
	return &Session{
		Authenticated: true,
		User:          body.User,
		SetCookies:    resp.Header.Values("Set-Cookie"),
	}, nil
}

// Me reports the current session. A 401 or 403 from the backend is an
// unauthenticated session, not an error.
func (c *Client) Me(ctx context.Context, cookies []*http.Cookie) (*Session, error) {
	resp, err := c.do(ctx, http.MethodGet, MePath, nil, cookies)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &Session{SetCookies: resp.Header.Values("Set-Cookie")}, nil
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var s Session
	if err := decodeJSON(resp.Body, &s); err != nil {
		return nil, c.transportErr(resp.Request, 0, fmt.Errorf("decode session: %w", err))
	}
	s.SetCookies = resp.Header.Values("Set-Cookie")
	return &s, nil
}

// Logout ends the backend session and returns the Set-Cookie values that
// clear it.
func (c *Client) Logout(ctx context.Context, cookies []*http.Cookie) ([]string, error) {
	resp, err := c.do(ctx, http.MethodPost, LogoutPath, nil, cookies)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxJSONBody))
	return resp.Header.Values("Set-Cookie"), nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, cookies []*http.Cookie) (*http.Response, error) {
	target := c.base.JoinPath(path).String()

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}
	return resp, nil
}

func (c *Client) transportErr(req *http.Request, status int, err error) *TransportError {
	return &TransportError{Method: req.Method, URL: req.URL.String(), Status: status, Err: err}
}

// checkStatus closes the body and returns *TransportError on non-2xx.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxJSONBody))
	resp.Body.Close()
	return &TransportError{
		Method: resp.Request.Method,
		URL:    resp.Request.URL.String(),
		Status: resp.StatusCode,
	}
}

func readAuthError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = decodeJSON(resp.Body, &body)
	return &AuthError{Status: resp.StatusCode, Message: body.Error}
}

// decodeJSON decodes a bounded JSON body. An empty body leaves v untouched.
func decodeJSON(r io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(r, maxJSONBody))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
