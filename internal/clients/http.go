// Package clients holds the composite service's outbound HTTP clients, one
// capability-scoped client per entity service.
package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	app "github.com/reybrally/product-composite-service/internal/app/catalog"
	"github.com/reybrally/product-composite-service/internal/logging"
)

// errorEnvelope mirrors the error body the entity services produce.
type errorEnvelope struct {
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Message   string `json:"message"`
}

type httpClient struct {
	baseURL string
	hc      *http.Client
	timeout time.Duration
}

func newHTTPClient(baseURL string, timeout time.Duration) httpClient {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return httpClient{
		baseURL: baseURL,
		hc:      &http.Client{},
		timeout: timeout,
	}
}

// getJSON performs one GET with a bounded deadline and classifies the
// response: 404 and 422 map to the local error kinds, anything else
// unexpected is escalated verbatim. No retries at this layer.
func (c httpClient) getJSON(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return fmt.Errorf("%w: calling %s", app.ErrTimeout, url)
		}
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return json.Unmarshal(body, out)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", app.ErrNotFound, errorMessage(body, resp.Status))
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", app.ErrInvalidInput, errorMessage(body, resp.Status))
	default:
		logging.LogWarn("unexpected HTTP status from downstream", logrus.Fields{
			"url": url, "status": resp.StatusCode,
		})
		return fmt.Errorf("unexpected HTTP status %d calling %s: %s", resp.StatusCode, url, errorMessage(body, resp.Status))
	}
}

// health probes the downstream liveness endpoint. Any error means down.
func (c httpClient) health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health probe returned %d", resp.StatusCode)
	}
	return nil
}

func errorMessage(body []byte, fallback string) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return fallback
}
