package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	coreconfig "github.com/m3rciful/kondate/core/config"
)

const (
	defaultDialTimeout       = 5 * time.Second
	defaultTLSHandshake      = 5 * time.Second
	defaultIdleConnTimeout   = 30 * time.Second
	defaultResponseTimeout   = 5 * time.Second
	defaultClientTimeout     = 30 * time.Second
	defaultKeepAliveInterval = 30 * time.Second
	defaultRetryAttempts     = 3
	defaultRetryBackoff      = 2 * time.Second
)

// ErrMissingBotToken is returned when an outbound call is attempted
// without a configured bot token.
var ErrMissingBotToken = errors.New("slack: bot token is not configured")

// APIError is a non-ok response from the Slack Web API.
type APIError struct {
	Method string
	Reason string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack: %s failed: %s", e.Method, e.Reason)
}

// Code exposes the API reason for error-code derivation in logs.
func (e *APIError) Code() string { return e.Reason }

// Client posts messages to the Slack Web API.
type Client struct {
	httpc   *http.Client
	baseURL string
	token   string
}

// NewClient builds a Web API client from configuration.
func NewClient(cfg coreconfig.SlackConfig) *Client {
	return &Client{
		httpc:   BuildHTTPClient(),
		baseURL: cfg.APIBaseURL,
		token:   cfg.BotToken,
	}
}

type postMessageRequest struct {
	Channel string `json:"channel"`
	Message
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// PostMessage delivers msg into the given channel via chat.postMessage.
func (c *Client) PostMessage(ctx context.Context, channel string, msg Message) error {
	if c.token == "" {
		return ErrMissingBotToken
	}
	if channel == "" {
		return errors.New("slack: empty channel")
	}

	body, err := json.Marshal(postMessageRequest{Channel: channel, Message: msg})
	if err != nil {
		return fmt.Errorf("slack: encode chat.postMessage: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &APIError{Method: "chat.postMessage", Reason: fmt.Sprintf("http_%d", resp.StatusCode)}
	}

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return fmt.Errorf("slack: decode chat.postMessage response: %w", err)
	}
	if !api.OK {
		reason := api.Error
		if reason == "" {
			reason = "unknown_error"
		}
		return &APIError{Method: "chat.postMessage", Reason: reason}
	}
	return nil
}

// BuildHTTPClient returns an HTTP client tuned for Slack Web API calls.
func BuildHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAliveInterval}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshake,
		ResponseHeaderTimeout: defaultResponseTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	retry := &retryTransport{
		base:       transport,
		maxRetries: defaultRetryAttempts,
		backoff:    defaultRetryBackoff,
	}

	return &http.Client{
		Timeout:   defaultClientTimeout,
		Transport: retry,
	}
}
