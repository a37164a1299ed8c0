package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"angella-backend/internal/models"
	"angella-backend/internal/stylist"
	"angella-backend/internal/submission"
)

// Client calls the ANGELLA backend API. The terminal client uses it both
// for the checkout handoff and as the analyzer the resume controller
// triggers after a successful payment return.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Analyze posts the submission to /api/analyze and returns the merged
// analysis result.
func (c *Client) Analyze(ctx context.Context, sub submission.Submission) (*stylist.AnalysisResult, error) {
	reqBody := models.AnalyzeRequest{
		Photo:           sub.Photo,
		HeightCm:        sub.HeightCm,
		WeightKg:        sub.WeightKg,
		Style:           sub.Style,
		ColorPreference: sub.ColorPreference,
		Occasions:       sub.Occasions,
	}

	var resp models.AnalyzeResponse
	if err := c.post(ctx, "/api/analyze", reqBody, &resp); err != nil {
		return nil, err
	}

	return &stylist.AnalysisResult{
		Report:         resp.Report,
		HairstyleImage: resp.HairstyleImage,
	}, nil
}

// CreateCheckout asks the backend for a checkout session. The returned URL
// is handed to the browser; nothing more is awaited from the session.
func (c *Client) CreateCheckout(ctx context.Context, productID, successURL string) (*models.CheckoutResponse, error) {
	reqBody := models.CheckoutRequest{
		ProductID:  productID,
		SuccessURL: successURL,
	}

	var resp models.CheckoutResponse
	if err := c.post(ctx, "/api/checkout", reqBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, reqBody, out any) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			if errResp.Details != "" {
				return fmt.Errorf("%s (%s)", errResp.Error, errResp.Details)
			}
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}
	return nil
}
