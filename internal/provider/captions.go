package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPCaptionGenerator calls a generative captioning API. Every method is
// best-effort; callers ignore failures.
type HTTPCaptionGenerator struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPCaptionGenerator creates a generator. When no URL is configured it
// returns a nil CaptionGenerator, not a typed-nil pointer, so a plain
// interface nil check tells callers the feature is off.
func NewHTTPCaptionGenerator(baseURL, apiKey string, timeout time.Duration) CaptionGenerator {
	if baseURL == "" {
		return nil
	}
	return &HTTPCaptionGenerator{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Describe asks the API for a caption of the image.
func (g *HTTPCaptionGenerator) Describe(ctx context.Context, imageURL string) (string, error) {
	var out struct {
		Caption string `json:"caption"`
	}
	if err := g.post(ctx, "/describe", map[string]string{"image_url": imageURL}, &out); err != nil {
		return "", err
	}
	return out.Caption, nil
}

// Hashtags asks the API for hashtag suggestions for a caption.
func (g *HTTPCaptionGenerator) Hashtags(ctx context.Context, text string) ([]string, error) {
	var out struct {
		Hashtags []string `json:"hashtags"`
	}
	if err := g.post(ctx, "/hashtags", map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return out.Hashtags, nil
}

func (g *HTTPCaptionGenerator) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("captions api status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
