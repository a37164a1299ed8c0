package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// Client talks to the OpenAI API over plain HTTP. It covers exactly the two
// calls the report workflow needs: a multimodal Responses call for the text
// report and an image edit call for the hairstyle grid.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	imageModel string
	httpClient *http.Client
}

// APIError is a non-success response from the API. The raw body is kept so
// handlers can attach the provider's diagnostic text to their own error
// responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai api error: status %d, body: %s", e.StatusCode, e.Body)
}

func NewClient(baseURL, apiKey, model, imageModel string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		imageModel: imageModel,
		// No client-side timeout: generation calls are awaited until the
		// provider answers. Deadlines belong to the deployment layer.
		httpClient: &http.Client{},
	}
}

type contentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type inputItem struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type responsesRequest struct {
	Model string      `json:"model"`
	Input []inputItem `json:"input"`
	Text  struct {
		Format struct {
			Type string `json:"type"`
		} `json:"format"`
	} `json:"text"`
	Reasoning       struct{}   `json:"reasoning"`
	Tools           []struct{} `json:"tools"`
	Temperature     float64    `json:"temperature"`
	MaxOutputTokens int        `json:"max_output_tokens"`
	TopP            float64    `json:"top_p"`
	Store           bool       `json:"store"`
}

type responsesPayload struct {
	Output []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// GenerateReport runs the Responses call with the system prompt, the user's
// photo and the rendered user text as multimodal input. It returns the text
// of the first output_text content entry; an empty string with a nil error
// means the response held no such entry and the caller should fall back to
// its placeholder.
func (c *Client) GenerateReport(ctx context.Context, systemPrompt, userText, photoDataURI string) (string, error) {
	reqBody := responsesRequest{
		Model: c.model,
		Input: []inputItem{
			{
				Role: "system",
				Content: []contentPart{
					{Type: "input_text", Text: systemPrompt},
				},
			},
			{
				Role: "user",
				Content: []contentPart{
					{Type: "input_image", ImageURL: photoDataURI},
					{Type: "input_text", Text: userText},
				},
			},
		},
		Tools:           []struct{}{},
		Temperature:     1,
		MaxOutputTokens: 2048,
		TopP:            1,
		Store:           true,
	}
	reqBody.Text.Format.Type = "text"

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/responses"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload responsesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	// The output mixes item kinds (reasoning, message, ...); take the first
	// entry that is actually output text.
	for _, item := range payload.Output {
		for _, part := range item.Content {
			if part.Type == "output_text" && part.Text != "" {
				return part.Text, nil
			}
		}
	}

	return "", nil
}

type imageEditPayload struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// EditImage sends the raw photo bytes to the image-edit endpoint with the
// given prompt and returns the first generated image as base64. It returns
// an error when the provider fails or produces no image; callers treat any
// error here as a soft failure.
func (c *Client) EditImage(ctx context.Context, prompt string, imageData []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", "photo.png")
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return "", fmt.Errorf("failed to write image data: %w", err)
	}
	_ = writer.WriteField("model", c.imageModel)
	_ = writer.WriteField("prompt", prompt)
	_ = writer.WriteField("n", "1")
	_ = writer.WriteField("size", "1024x1024")
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	url := c.baseURL + "/images/edits"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload imageEditPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	if len(payload.Data) == 0 || payload.Data[0].B64JSON == "" {
		return "", fmt.Errorf("no image in response")
	}

	return payload.Data[0].B64JSON, nil
}
