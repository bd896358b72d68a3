package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

// Client calls the Messenger Send API for a single page identity. The page
// access token is attached as a query parameter on every call, never in the
// body.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
	log         *slog.Logger
}

// SendResponse is the platform's acknowledgment of one send call.
type SendResponse struct {
	RecipientID string `json:"recipient_id"`
	MessageID   string `json:"message_id"`
}

// NewClient creates a Send API client. baseURL is the Graph API prefix
// (e.g. "https://graph.facebook.com/v2.6"); sendsPerSecond caps the outbound
// call rate.
func NewClient(baseURL, accessToken string, sendsPerSecond float64, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  http.DefaultClient,
		limiter:     rate.NewLimiter(rate.Limit(sendsPerSecond), 1),
		log:         log.With("component", "messenger"),
	}
}

// Send delivers one built payload to the send endpoint and returns the
// recipient/message identifier pair on success.
func (c *Client) Send(ctx context.Context, req SendRequest) (*SendResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("send rate wait: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal send request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/me/messages?access_token=%s", c.baseURL, url.QueryEscape(c.accessToken))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create send request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call send API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read send response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("send API error (status %d): %s", resp.StatusCode, respBody)
	}

	var result SendResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal send response: %w", err)
	}

	c.log.Info("message sent",
		"recipient_id", result.RecipientID,
		"message_id", result.MessageID)
	return &result, nil
}

// LinkedRecipient resolves an account linking token to the page-scoped
// recipient ID of the user who initiated the linking flow.
func (c *Client) LinkedRecipient(ctx context.Context, accountLinkingToken string) (string, error) {
	endpoint := fmt.Sprintf("%s/me?access_token=%s&fields=recipient&account_linking_token=%s",
		c.baseURL, url.QueryEscape(c.accessToken), url.QueryEscape(accountLinkingToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create lookup request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call account linking lookup: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read lookup response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("account linking lookup error (status %d): %s", resp.StatusCode, respBody)
	}

	var result struct {
		Recipient string `json:"recipient"`
		ID        string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("unmarshal lookup response: %w", err)
	}

	if result.Recipient == "" {
		return "", fmt.Errorf("account linking lookup returned no recipient")
	}
	return result.Recipient, nil
}
