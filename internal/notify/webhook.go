package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookSender posts events as JSON to a chat webhook URL.
type WebhookSender struct {
	URL    string
	Client *http.Client
}

func NewWebhookSender(url string) *WebhookSender {
	return &WebhookSender{
		URL:    url,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

// webhookPayload follows the common incoming-webhook shape: a text line
// plus the structured fields so richer clients can format their own card.
type webhookPayload struct {
	Text  string `json:"text"`
	Event Event  `json:"event"`
}

func (w *WebhookSender) Send(e Event) error {
	body, err := json.Marshal(webhookPayload{
		Text:  FormatText(e),
		Event: e,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := w.Client.Post(w.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
