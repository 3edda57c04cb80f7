// Package provider wraps the external collaborators (SMS gateway, mail
// relay, OAuth, media storage, captioning) behind small capability
// interfaces. Implementations apply a bounded timeout and a short
// exponential-backoff retry; callers see a generic failure, never provider
// internals.
package provider

import (
	"context"
	"time"
)

const (
	maxAttempts      = 3
	baseRetryBackoff = 500 * time.Millisecond
)

// SmsSender delivers a verification code to an E.164 phone number.
type SmsSender interface {
	Send(ctx context.Context, phone, code string) error
}

// MailSender delivers a verification code to an email address.
type MailSender interface {
	Send(ctx context.Context, email, code string) error
}

// MediaStore holds uploaded object bytes outside the database.
type MediaStore interface {
	Upload(ctx context.Context, data []byte, filename, mimeType string) (key, url string, err error)
	Delete(ctx context.Context, key string) error
}

// CaptionGenerator produces best-effort captions and hashtag suggestions.
// Callers must tolerate any error; the feature is optional.
type CaptionGenerator interface {
	Describe(ctx context.Context, imageURL string) (string, error)
	Hashtags(ctx context.Context, text string) ([]string, error)
}

// withRetry runs fn up to maxAttempts times with exponential backoff,
// stopping early on success or context cancellation.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	backoff := baseRetryBackoff
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
