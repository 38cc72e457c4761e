// Package notify delivers SMS notifications. Delivery is fire-and-forget:
// the contest never depends on a message arriving.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Messenger sends a message to a phone number. No delivery confirmation is
// expected by callers.
type Messenger interface {
	Send(ctx context.Context, toAddress, body string) error
}

// NopMessenger drops every message. Used when no SMS provider is configured.
type NopMessenger struct{}

func (NopMessenger) Send(_ context.Context, toAddress, _ string) error {
	log.Debug().Str("to", toAddress).Msg("SMS provider not configured, message dropped")
	return nil
}

// TwilioMessenger sends SMS through the Twilio Messages REST API.
type TwilioMessenger struct {
	baseURL    string
	accountSID string
	authToken  string
	fromNumber string
	httpClient *http.Client
}

// NewTwilioMessenger creates a Twilio-backed messenger.
func NewTwilioMessenger(baseURL, accountSID, authToken, fromNumber string, timeout time.Duration) *TwilioMessenger {
	return &TwilioMessenger{
		baseURL:    baseURL,
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send posts one message. A non-2xx response is returned as an error for the
// caller to log; it is never retried here.
func (m *TwilioMessenger) Send(ctx context.Context, toAddress, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", m.baseURL, m.accountSID)

	form := url.Values{}
	form.Set("To", toAddress)
	form.Set("From", m.fromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(m.accountSID, m.authToken)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sms provider returned status %d: %s", resp.StatusCode, string(payload))
	}

	log.Debug().
		Str("to", toAddress).
		Int("status", resp.StatusCode).
		Msg("SMS accepted by provider")

	return nil
}
