// Package sumup is a thin client for the SumUp merchant API. Responses
// pass through untouched so the caller sees exactly what SumUp returned.
package sumup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/config"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("sumup_not_configured")
	ErrUpstream      = errors.New("sumup_upstream_error")
)

type Client struct {
	log     *zap.Logger
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		log:     log.Named("sumup.client"),
		baseURL: cfg.SumUpBaseURL,
		apiKey:  cfg.SumUpAPIKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Me fetches the merchant profile of the configured API key.
func (c *Client) Me(ctx context.Context) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v0.1/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("sumup request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("sumup returned non-200", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	return json.RawMessage(body), nil
}
