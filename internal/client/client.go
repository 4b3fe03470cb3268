// Package client talks to the signage server on behalf of a display.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/zaqqye/signage_backend/internal/playlist"
	"github.com/zaqqye/signage_backend/internal/ws"
)

const (
	defaultTimeout   = 15 * time.Second
	maxReconnectWait = time.Minute
)

type Client struct {
	base   *url.URL
	http   *http.Client
	dialer *websocket.Dialer
	logger zerolog.Logger
}

func New(baseURL string, logger zerolog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url must be http or https, got %q", baseURL)
	}
	return &Client{
		base:   u,
		http:   &http.Client{Timeout: defaultTimeout},
		dialer: &websocket.Dialer{HandshakeTimeout: defaultTimeout},
		logger: logger,
	}, nil
}

func (c *Client) endpoint(path string) string {
	return c.base.String() + path
}

// Display fetches the resolved playlist. A 404 still carries a valid
// not_found state.
func (c *Client) Display(ctx context.Context, deviceID string) (playlist.DisplayState, error) {
	var state playlist.DisplayState
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/display/"+url.PathEscape(deviceID)), nil)
	if err != nil {
		return state, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return state, fmt.Errorf("fetch display: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return state, statusError("fetch display", resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return state, fmt.Errorf("decode display: %w", err)
	}
	return state, nil
}

func (c *Client) Exposure(ctx context.Context, mediaID string) error {
	return c.post(ctx, "/api/exposure", map[string]string{"mediaId": mediaID})
}

func (c *Client) Analytics(ctx context.Context) error {
	return c.post(ctx, "/api/analytics", nil)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	var payload io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError("post "+path, resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
}

// Subscribe listens on the display websocket and calls onReload for every
// reload notice. It reconnects with backoff until ctx is done.
func (c *Client) Subscribe(ctx context.Context, deviceID string, onReload func()) error {
	wsURL := *c.base
	wsURL.Scheme = "ws"
	if c.base.Scheme == "https" {
		wsURL.Scheme = "wss"
	}
	wsURL.Path = strings.TrimRight(wsURL.Path, "/") + "/ws/display/" + url.PathEscape(deviceID)

	wait := time.Second
	for {
		connected, err := c.listen(ctx, wsURL.String(), onReload)
		if ctx.Err() != nil {
			return nil
		}
		if connected {
			wait = time.Second
			// Anything may have changed while disconnected.
			onReload()
		}
		c.logger.Warn().Err(err).Dur("retry_in", wait).Msg("display subscription lost")

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
		if wait *= 2; wait > maxReconnectWait {
			wait = maxReconnectWait
		}
	}
}

func (c *Client) listen(ctx context.Context, target string, onReload func()) (bool, error) {
	conn, _, err := c.dialer.DialContext(ctx, target, nil)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}
		var msg ws.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Debug().Err(err).Msg("ignoring malformed display message")
			continue
		}
		if msg.Type == ws.MessageReload {
			onReload()
		}
	}
}
