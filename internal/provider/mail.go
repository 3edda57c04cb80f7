package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// RelayMailSender sends verification emails through an HTTP mail relay.
type RelayMailSender struct {
	baseURL string
	apiKey  string
	from    string
	client  *http.Client
}

// NewRelayMailSender creates a sender. An empty baseURL degrades to logging
// the code, which keeps local setups working without a relay.
func NewRelayMailSender(baseURL, apiKey, from string, timeout time.Duration) *RelayMailSender {
	return &RelayMailSender{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		client:  &http.Client{Timeout: timeout},
	}
}

type mailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Send delivers the code, retrying transient failures.
func (s *RelayMailSender) Send(ctx context.Context, email, code string) error {
	if s.baseURL == "" {
		log.Printf("mail debug: code for %s is %s", email, code)
		return nil
	}

	payload, err := json.Marshal(mailMessage{
		From:    s.from,
		To:      email,
		Subject: "Код подтверждения",
		Text:    fmt.Sprintf("Ваш код подтверждения: %s. Не сообщайте его никому.", code),
	})
	if err != nil {
		return err
	}

	return withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		if s.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+s.apiKey)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return fmt.Errorf("mail relay status %d", resp.StatusCode)
		}
		return nil
	})
}
