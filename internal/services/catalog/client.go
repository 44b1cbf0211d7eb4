package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vidpub/internal/config"
	"vidpub/internal/logging"
	"vidpub/internal/services"
	"vidpub/internal/services/credentials"
)

const (
	// DefaultPageSize is used when List is called with a non-positive size.
	DefaultPageSize = 10
	// MaxPageSize is the largest page the catalog serves.
	MaxPageSize = 50
	// DefaultMaxPages bounds how many continuation cursors a listing follows.
	DefaultMaxPages = 1000

	maxErrorBody = 2048
)

// HTTPDoer describes the HTTP client used by the catalog client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Session carries everything one command needs to talk to the catalog.
type Session struct {
	APIBase    string
	UploadBase string
	Auth       credentials.Authorizer
	HTTP       HTTPDoer
	Logger     *slog.Logger
	MaxPages   int
}

// NewSessionFromConfig builds a session from configuration.
func NewSessionFromConfig(cfg *config.Config, auth credentials.Authorizer, logger *slog.Logger) Session {
	httpClient := &http.Client{}
	if cfg.Catalog.RequestTimeout > 0 {
		httpClient.Timeout = time.Duration(cfg.Catalog.RequestTimeout) * time.Second
	}
	return Session{
		APIBase:    cfg.Catalog.APIBaseURL,
		UploadBase: cfg.Catalog.UploadBaseURL,
		Auth:       auth,
		HTTP:       httpClient,
		Logger:     logger,
		MaxPages:   cfg.Catalog.MaxPages,
	}
}

// Client issues catalog operations for a single session.
type Client struct {
	apiBase    string
	uploadBase string
	auth       credentials.Authorizer
	http       HTTPDoer
	logger     *slog.Logger
	maxPages   int
}

// NewClient validates the session and returns a client bound to it.
func NewClient(s Session) (*Client, error) {
	apiBase := strings.TrimRight(strings.TrimSpace(s.APIBase), "/")
	uploadBase := strings.TrimRight(strings.TrimSpace(s.UploadBase), "/")
	if apiBase == "" {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "session", "API base URL is empty", nil)
	}
	if uploadBase == "" {
		uploadBase = apiBase
	}
	if s.Auth == nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "session", "no authorizer configured", nil)
	}
	doer := s.HTTP
	if doer == nil {
		doer = http.DefaultClient
	}
	maxPages := s.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Client{
		apiBase:    apiBase,
		uploadBase: uploadBase,
		auth:       s.Auth,
		http:       doer,
		logger:     logging.NewComponentLogger(s.Logger, "catalog"),
		maxPages:   maxPages,
	}, nil
}

func (c *Client) apiURL(path string, query url.Values) string {
	return c.apiBase + "/" + path + "?" + query.Encode()
}

func (c *Client) uploadURL(path string, query url.Values) string {
	return c.uploadBase + "/" + path + "?" + query.Encode()
}

// newRequest builds an authorized request. A non-nil payload is encoded as JSON.
func (c *Client) newRequest(ctx context.Context, method, target string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", method, err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	req.Header.Set("Accept", "application/json")
	if id, ok := services.RequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-Id", id)
	}
	if err := c.auth.Authorize(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// send executes req and returns the response when the status is 2xx. The
// caller owns the response body.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	started := time.Now()
	target := displayURL(req.URL)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: target, Err: err}
	}
	logging.WithContext(req.Context(), c.logger).Debug("catalog request",
		logging.String("method", req.Method),
		logging.String("url", target),
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(started)),
	)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &TransportError{
			Method:     req.Method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}
	return resp, nil
}

// doJSON sends req and decodes a JSON response into out when out is non-nil.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return &TransportError{Method: req.Method, URL: displayURL(req.URL), Err: errors.New("empty response body")}
		}
		return &TransportError{Method: req.Method, URL: displayURL(req.URL), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// displayURL strips user info; credentials travel in headers, never the query.
func displayURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	clean := *u
	clean.User = nil
	return clean.String()
}
