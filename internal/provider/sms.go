package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MobizonSender sends verification SMS through the Mobizon gateway.
type MobizonSender struct {
	apiKey  string
	baseURL string
	debug   bool
	client  *http.Client
}

// NewMobizonSender creates a sender. With debug enabled, codes are logged
// instead of sent; useful for local runs without gateway credentials.
func NewMobizonSender(apiKey, baseURL string, debug bool, timeout time.Duration) *MobizonSender {
	return &MobizonSender{
		apiKey:  apiKey,
		baseURL: baseURL,
		debug:   debug,
		client:  &http.Client{Timeout: timeout},
	}
}

type mobizonResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send delivers the code, retrying transient failures.
func (s *MobizonSender) Send(ctx context.Context, phone, code string) error {
	if s.debug {
		log.Printf("sms debug: code for %s is %s", phone, code)
		return nil
	}

	form := url.Values{}
	form.Set("apiKey", s.apiKey)
	// Mobizon wants the recipient without the leading plus.
	form.Set("recipient", strings.TrimPrefix(phone, "+"))
	form.Set("text", fmt.Sprintf("Ваш код подтверждения: %s. Не сообщайте его никому.", code))

	return withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("sms gateway status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		var parsed mobizonResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return fmt.Errorf("sms gateway response: %w", err)
		}
		if parsed.Code != 0 {
			return fmt.Errorf("sms gateway error code %d", parsed.Code)
		}
		return nil
	})
}
