// Package evolution sends WhatsApp messages through an Evolution API instance.
package evolution

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when the URL, token or instance is missing.
var ErrNotConfigured = errors.New("evolution: client not configured")

type Config struct {
	BaseURL  string
	Token    string
	Instance string
	// Delay is the typing delay in milliseconds the gateway shows before sending.
	Delay   int
	Timeout time.Duration
}

// Sender is what the engine needs for delivery.
type Sender interface {
	SendText(ctx context.Context, to, text string) error
	SendMedia(ctx context.Context, to, imageURL, caption string) error
}

type Client struct {
	cfg    Config
	client *http.Client
}

var _ Sender = &Client{}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

func (c *Client) Configured() bool {
	return c.cfg.BaseURL != "" && c.cfg.Token != "" && c.cfg.Instance != ""
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
	Delay  int    `json:"delay"`
}

type sendMediaRequest struct {
	Number    string `json:"number"`
	MediaType string `json:"mediatype"`
	Media     string `json:"media"`
	Caption   string `json:"caption"`
	Delay     int    `json:"delay"`
}

func (c *Client) SendText(ctx context.Context, to, text string) error {
	return c.post(ctx, "sendText", sendTextRequest{Number: to, Text: text, Delay: c.cfg.Delay})
}

func (c *Client) SendMedia(ctx context.Context, to, imageURL, caption string) error {
	return c.post(ctx, "sendMedia", sendMediaRequest{
		Number:    to,
		MediaType: "image",
		Media:     imageURL,
		Caption:   caption,
		Delay:     c.cfg.Delay,
	})
}

func (c *Client) post(ctx context.Context, action string, payload interface{}) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("evolution: marshal %s: %w", action, err)
	}

	url := fmt.Sprintf("%s/message/%s/%s", c.cfg.BaseURL, action, c.cfg.Instance)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("evolution: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.cfg.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("evolution: %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("evolution: %s returned status %d: %s", action, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
