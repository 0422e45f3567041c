// Package subdevhttp implements subdev.Control over HTTP for subdevices
// whose control surface is exposed by a remote bridge daemon. A 501
// response maps to the "not implemented" soft outcome; everything else
// non-2xx is a hard command error.
package subdevhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mediactl/mediagraph/internal/subdev"
)

// Client issues power, frame-interval and stream commands as JSON POSTs
// against a subdevice control endpoint.
type Client struct {
	base string
	http *http.Client
}

// New returns a client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: timeout},
	}
}

// Power implements subdev.Control.
func (c *Client) Power(ctx context.Context, on bool) error {
	return c.post(ctx, "power", map[string]any{"on": on})
}

// SetFrameInterval implements subdev.Control.
func (c *Client) SetFrameInterval(ctx context.Context, ival subdev.FrameInterval) error {
	return c.post(ctx, "frame-interval", map[string]any{
		"numerator":   ival.Numerator,
		"denominator": ival.Denominator,
	})
}

// Stream implements subdev.Control.
func (c *Client) Stream(ctx context.Context, on bool) error {
	return c.post(ctx, "stream", map[string]any{"on": on})
}

func (c *Client) post(ctx context.Context, command string, body map[string]any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("subdevhttp: encoding %s request: %w", command, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+command, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("subdevhttp: building %s request: %w", command, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("subdevhttp: %s request failed: %w", command, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotImplemented:
		return subdev.ErrNotImplemented
	default:
		return fmt.Errorf("subdevhttp: %s returned status %d", command, resp.StatusCode)
	}
}
