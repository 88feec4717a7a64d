package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/lumapanel/lumapanel/internal/pkg/env"
)

// SMSSender delivers a text message to a phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// NewSMSSender builds the configured sender. Without a gateway URL the
// log sender is used, which only records the message.
func NewSMSSender() SMSSender {
	gatewayURL := env.GetEnv("SMS_GATEWAY_URL", "")
	if gatewayURL == "" {
		return &logSMSSender{}
	}
	return &gatewaySMSSender{
		url:    gatewayURL,
		apiKey: env.GetEnv("SMS_GATEWAY_API_KEY", ""),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// gatewaySMSSender posts messages to an external SMS gateway.
type gatewaySMSSender struct {
	url    string
	apiKey string
	client *http.Client
}

func (s *gatewaySMSSender) SendSMS(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(map[string]string{
		"to":      phone,
		"message": message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// logSMSSender is the fallback used in development and tests.
type logSMSSender struct{}

func (s *logSMSSender) SendSMS(ctx context.Context, phone, message string) error {
	_ = ctx
	log.Printf("SMS to %s: %s", phone, message)
	return nil
}
