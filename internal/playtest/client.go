package playtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// client wraps http.Client with JSON helpers.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{http: &http.Client{Timeout: timeout}, baseURL: baseURL}
}

// do sends body as JSON (when non-nil) and decodes a 2xx response into out.
func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (c *client) health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *client) startRound(ctx context.Context, player string) (Round, error) {
	var r Round
	err := c.do(ctx, http.MethodPost, "/rounds", map[string]string{"player": player}, &r)
	return r, err
}

func (c *client) choose(ctx context.Context, id, label string) (Round, error) {
	var r Round
	err := c.do(ctx, http.MethodPost, "/rounds/"+url.PathEscape(id)+"/choice", map[string]string{"choice": label}, &r)
	return r, err
}

func (c *client) submit(ctx context.Context, id string) (Round, error) {
	var r Round
	err := c.do(ctx, http.MethodPost, "/rounds/"+url.PathEscape(id)+"/submit", nil, &r)
	return r, err
}

func (c *client) leaderboard(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := c.do(ctx, http.MethodGet, "/leaderboard", nil, &entries)
	return entries, err
}

func (c *client) rank(ctx context.Context, player string) (Entry, error) {
	var e Entry
	err := c.do(ctx, http.MethodGet, "/rank/"+url.PathEscape(player), nil, &e)
	return e, err
}
