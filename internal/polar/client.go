package polar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client creates checkout sessions against the Polar API. That is the only
// payment operation the workflow performs; payment status is never read
// back — the client-side return URL carries the success indicator.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// APIError is a non-success response from Polar, with the raw body kept as
// diagnostic detail for the user-facing error.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("polar api error: status %d, body: %s", e.StatusCode, e.Body)
}

// CheckoutSession is the ephemeral session record Polar returns. It is read
// once and never persisted.
type CheckoutSession struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  &http.Client{},
	}
}

type createCheckoutRequest struct {
	Products   []string `json:"products"`
	SuccessURL string   `json:"success_url"`
}

// CreateCheckout creates a checkout session for one product. The caller
// hands the returned URL to the browser for a full navigation; nothing else
// is awaited from the session.
func (c *Client) CreateCheckout(ctx context.Context, productID, successURL string) (*CheckoutSession, error) {
	reqBody := createCheckoutRequest{
		Products:   []string{productID},
		SuccessURL: successURL,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/checkouts/"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	if session.URL == "" {
		return nil, fmt.Errorf("checkout url is empty in response, body: %s", string(body))
	}

	return &session, nil
}
