// Package remote implements the HTTP client for the satchel context
// service. Connection-level failures degrade to types.ErrOffline so sync
// can distinguish "remote said no" from "remote not there"; HTTP-level
// failures stay real errors. There is no retry loop: retry is an operator
// decision, and sync is resumable by re-invoking it.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// DefaultTimeout bounds each remote call when the config does not set one.
const DefaultTimeout = 10 * time.Second

var _ types.RemoteTransport = (*Client)(nil)

// Client talks to a satchel context service over HTTP.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a transport for the given remote configuration.
func NewClient(cfg types.RemoteConfig, logger *slog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("remote URL not configured")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid remote URL: %w", err)
	}

	timeout := DefaultTimeout
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid remote timeout: %w", err)
		}
		timeout = d
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: cfg.URL,
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// CreateWorkspace registers a workspace remotely and returns the remote
// workspace ID.
func (c *Client) CreateWorkspace(ctx context.Context, name, description, projectID string) (string, error) {
	body := map[string]string{
		"name":        name,
		"description": description,
		"project_id":  projectID,
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/workspaces", nil, body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("remote returned no workspace ID")
	}
	return resp.ID, nil
}

// SyncPush batch-upserts items into the remote workspace.
func (c *Client) SyncPush(ctx context.Context, remoteWorkspaceID string, items []types.RemoteItem) ([]types.PushReceipt, error) {
	body := map[string]any{"items": items}
	var resp struct {
		Items []types.PushReceipt `json:"items"`
	}
	path := "/api/workspaces/" + url.PathEscape(remoteWorkspaceID) + "/context/push"
	if err := c.do(ctx, http.MethodPost, path, nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// SyncPull returns the remote items modified strictly after since, or all
// items when since is nil.
func (c *Client) SyncPull(ctx context.Context, remoteWorkspaceID string, since *time.Time) ([]types.RemoteItem, error) {
	query := url.Values{}
	if since != nil {
		query.Set("since", since.UTC().Format(time.RFC3339Nano))
	}
	var resp struct {
		Items []types.RemoteItem `json:"items"`
	}
	path := "/api/workspaces/" + url.PathEscape(remoteWorkspaceID) + "/context/pull"
	if err := c.do(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// LinkContext records a directed, typed edge between two remote items.
func (c *Client) LinkContext(ctx context.Context, remoteWorkspaceID, fromID, toID, relation string) error {
	body := map[string]string{
		"from":     fromID,
		"to":       toID,
		"relation": relation,
	}
	path := "/api/workspaces/" + url.PathEscape(remoteWorkspaceID) + "/links"
	return c.do(ctx, http.MethodPost, path, nil, body, nil)
}

// GetRelated returns items linked to the given remote item within depth hops.
func (c *Client) GetRelated(ctx context.Context, remoteWorkspaceID, itemID string, depth int) ([]types.RemoteItem, error) {
	query := url.Values{}
	query.Set("depth", strconv.Itoa(depth))
	var resp struct {
		Items []types.RemoteItem `json:"items"`
	}
	path := "/api/workspaces/" + url.PathEscape(remoteWorkspaceID) + "/context/" + url.PathEscape(itemID) + "/related"
	if err := c.do(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// do performs one JSON round-trip. A transport-level failure (connection
// refused, timeout, DNS) wraps types.ErrOffline; a non-2xx status is a
// real error carrying the response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	u.Path = path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "satchel-client/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("remote unreachable", "method", method, "url", u.String(), "error", err)
		return fmt.Errorf("%w: %v", types.ErrOffline, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("remote returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
