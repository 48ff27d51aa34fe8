package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts captured addresses to a remote newsletter endpoint.
type Client struct {
	url    string
	client HTTPClient
	log    zerolog.Logger
}

func NewClient(url string, httpClient HTTPClient, logger zerolog.Logger) *Client {
	return &Client{
		url:    url,
		client: httpClient,
		log:    logger.With().Str("component", "CaptureClient").Logger(),
	}
}

func (c *Client) Capture(ctx context.Context, email string) error {
	payload, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn().Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("capture endpoint error: status %s", resp.Status)
	}
	return nil
}
