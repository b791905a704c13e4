package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"golang.org/x/oauth2/clientcredentials"
)

// WhatsAppTransport delivers messages through a WhatsApp business messaging API. The API
// is called with a bearer token obtained by the OAuth2 client-credentials flow; the
// token is cached and refreshed by the oauth2 client.
type WhatsAppTransport struct {
	apiURL string
	client *http.Client
}

// WhatsAppConfig holds the provider endpoint and OAuth2 client credentials.
type WhatsAppConfig struct {
	APIURL       string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// NewWhatsAppTransport creates a transport. ctx bounds token fetches only.
func NewWhatsAppTransport(ctx context.Context, cfg WhatsAppConfig) *WhatsAppTransport {
	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	client := creds.Client(ctx)
	if cfg.Timeout > 0 {
		client.Timeout = cfg.Timeout
	}
	return &WhatsAppTransport{apiURL: cfg.APIURL, client: client}
}

var _ portssvc.NotificationTransport = (*WhatsAppTransport)(nil)

type whatsAppMessage struct {
	MessagingProduct string          `json:"messaging_product"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Text             whatsAppTextBox `json:"text"`
}

type whatsAppTextBox struct {
	Body string `json:"body"`
}

// Send posts one text message. Any non-2xx response is an error.
func (t *WhatsAppTransport) Send(ctx context.Context, address, message string) error {
	payload, err := json.Marshal(whatsAppMessage{
		MessagingProduct: "whatsapp",
		To:               address,
		Type:             "text",
		Text:             whatsAppTextBox{Body: message},
	})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp API returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
