package push

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"fleet-dispatch/internal/shared/logger"
)

// Client posts Expo-style push messages. Delivery is fire-and-forget:
// failures are logged and swallowed, never surfaced to the dispatcher.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *logger.Logger
}

type message struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

func NewClient(endpoint string, log *logger.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
		logger:   log,
	}
}

func (c *Client) Notify(ctx context.Context, token, title, body string, data map[string]string) {
	instance := "push.Notify"

	if token == "" {
		c.logger.Warn(instance, "no push token, notification skipped")
		return
	}

	payload, err := json.Marshal(message{
		To:    token,
		Sound: "default",
		Title: title,
		Body:  body,
		Data:  data,
	})
	if err != nil {
		c.logger.Error(instance, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		c.logger.Error(instance, err)
		return
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error(instance, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.logger.Warn(instance, "push endpoint returned "+resp.Status)
	}
}
