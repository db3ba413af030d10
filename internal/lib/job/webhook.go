package job

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// WebhookClient posts notices to a single webhook URL.
type WebhookClient struct {
	url  string
	http *http.Client
}

// NewWebhookClient returns a client for url. An empty url yields a client
// whose Send does nothing.
func NewWebhookClient(url string, timeout time.Duration) *WebhookClient {
	return &WebhookClient{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a webhook URL is configured.
func (c *WebhookClient) Enabled() bool {
	return c != nil && c.url != ""
}

// Send posts content as a JSON notice. Any non-2xx status is an error.
func (c *WebhookClient) Send(ctx context.Context, content string) error {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(NoticePayload{Content: content})
	if err != nil {
		return errors.Wrap(err, "failed to encode webhook notice")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to post webhook notice")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.WithStack(fmt.Errorf("webhook responded with status %d", resp.StatusCode))
	}
	return nil
}
