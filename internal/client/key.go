package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// SetAPIKey submits the model-provider API key, which the backend persists
// in its environment file.
func (c *Client) SetAPIKey(ctx context.Context, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.New("client: API key must not be empty")
	}

	body, err := json.Marshal(map[string]string{"api_key": apiKey})
	if err != nil {
		return fmt.Errorf("client: marshal key request: %w", err)
	}

	ctx, cancel := c.boundedContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/input/key", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("client: create key request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.do(req)
	if err != nil {
		return fmt.Errorf("client: key request failed: %w", err)
	}
	_ = res.Body.Close()
	return nil
}
