package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"summy.bot/shared"
)

// conversationsResponse is the envelope the Graph API wraps listings in.
type conversationsResponse struct {
	Data []shared.Conversation `json:"data"`
}

type sendRequest struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

// HTTPStatusError captures non-2xx upstream responses.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("platform: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// Client wraps the three Graph API calls the bot needs: resolve a user,
// list conversations, send a message. Identity and conversation lookups
// swallow errors and fall back so the pipeline always reaches its
// logging step, even under a partial platform outage.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *slog.Logger
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(accessToken string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:     "https://graph.instagram.com/v19.0",
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger.With(slog.String("component", "PlatformClient")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetUserInfo resolves a user's identity. On any error it returns a
// synthesized fallback identity instead of propagating.
func (c *Client) GetUserInfo(ctx context.Context, userID string) shared.UserInfo {
	q := url.Values{}
	q.Set("access_token", c.accessToken)
	q.Set("fields", "id,username")

	raw, err := c.getJSON(ctx, c.baseURL+"/"+userID+"?"+q.Encode())
	if err != nil {
		c.logger.Error("get user info failed", slog.String("user_id", userID), slog.Any("err", err))
		return shared.UserInfo{ID: userID, Username: "User_" + userID}
	}

	var info shared.UserInfo
	if err := json.Unmarshal(raw, &info); err != nil || info.Username == "" {
		c.logger.Error("decode user info failed", slog.String("user_id", userID), slog.Any("err", err))
		return shared.UserInfo{ID: userID, Username: "User_" + userID}
	}
	return info
}

// GetConversations lists the account's conversations with participants.
// On any error it returns an empty slice instead of propagating.
func (c *Client) GetConversations(ctx context.Context) []shared.Conversation {
	q := url.Values{}
	q.Set("access_token", c.accessToken)
	q.Set("fields", "id,participants,updated_time")

	raw, err := c.getJSON(ctx, c.baseURL+"/me/conversations?"+q.Encode())
	if err != nil {
		c.logger.Error("get conversations failed", slog.Any("err", err))
		return nil
	}

	var payload conversationsResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Error("decode conversations failed", slog.Any("err", err))
		return nil
	}
	return payload.Data
}

// SendMessage posts a reply into a conversation. Unlike the lookups it
// reports failure to the caller, who decides what to log.
func (c *Client) SendMessage(ctx context.Context, conversationID, text string) error {
	body, err := json.Marshal(sendRequest{Message: text, AccessToken: c.accessToken})
	if err != nil {
		return fmt.Errorf("platform: marshal send request: %w", err)
	}

	sendURL := c.baseURL + "/" + conversationID + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("platform: create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if _, err := c.doJSONRequest(req, sendURL); err != nil {
		c.logger.Error("send message failed", slog.String("conversation_id", conversationID), slog.Any("err", err))
		return fmt.Errorf("platform: send message: %w", err)
	}
	c.logger.Info("message sent", slog.String("conversation_id", conversationID))
	return nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return c.doJSONRequest(req, rawURL)
}

func (c *Client) doJSONRequest(req *http.Request, rawURL string) ([]byte, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{StatusCode: res.StatusCode, URL: rawURL, Body: string(buf)}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf, nil
}
