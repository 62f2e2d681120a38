package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// PushMessage is the envelope accepted by the push gateway
type PushMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Sound string            `json:"sound"`
	Data  map[string]string `json:"data,omitempty"`
}

// NewPushMessage builds a message with the default notification sound
func NewPushMessage(token, title, body string, data map[string]string) PushMessage {
	return PushMessage{
		To:    token,
		Title: title,
		Body:  body,
		Sound: "default",
		Data:  data,
	}
}

// PushService delivers a push message to a single device
type PushService interface {
	Send(ctx context.Context, msg PushMessage) error
}

// ExpoPushService implements PushService against an Expo-compatible push gateway
type ExpoPushService struct {
	url        string
	httpClient *http.Client
}

// NewExpoPushService creates a push service posting to url
func NewExpoPushService(url string, timeout time.Duration) *ExpoPushService {
	return &ExpoPushService{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send posts msg to the gateway. A message without a recipient token is dropped.
func (s *ExpoPushService) Send(ctx context.Context, msg PushMessage) error {
	if msg.To == "" {
		return nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "failed to encode push message")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to call push gateway")
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("failed to close push gateway response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Errorf("push gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
