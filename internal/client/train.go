package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// TrainingStatus is one status report from the training pipeline.
type TrainingStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Terminal reports whether the training run has finished in some way.
func (s TrainingStatus) Terminal() bool {
	switch s.Status {
	case "completed", "error", "empty":
		return true
	}
	return false
}

// StartTraining asks the backend to index all uploaded documents. The
// backend rejects the request while a run is already in progress.
func (c *Client) StartTraining(ctx context.Context) error {
	ctx, cancel := c.boundedContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/train", nil)
	if err != nil {
		return fmt.Errorf("client: create train request: %w", err)
	}

	res, err := c.do(req)
	if err != nil {
		return fmt.Errorf("client: train request failed: %w", err)
	}
	_ = res.Body.Close()
	return nil
}

// GetTrainingStatus polls the current training state.
func (c *Client) GetTrainingStatus(ctx context.Context) (TrainingStatus, error) {
	ctx, cancel := c.boundedContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/train/status", nil)
	if err != nil {
		return TrainingStatus{}, fmt.Errorf("client: create status request: %w", err)
	}

	res, err := c.do(req)
	if err != nil {
		return TrainingStatus{}, fmt.Errorf("client: status request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	var status TrainingStatus
	if err := json.NewDecoder(res.Body).Decode(&status); err != nil {
		return TrainingStatus{}, fmt.Errorf("client: decode status response: %w", err)
	}
	return status, nil
}

// WatchTraining subscribes to the live training status feed. Updates are
// delivered on the returned channel until a terminal status arrives, the
// feed breaks, or ctx is canceled; the channel is closed in every case.
// This is a one-way push feed, so no response assembly happens here.
func (c *Client) WatchTraining(ctx context.Context) (<-chan TrainingStatus, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.trainFeedURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("client: dial training feed: %w", err)
	}

	updates := make(chan TrainingStatus, 8)

	// Unblock the read loop when the caller gives up.
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		_ = conn.Close()
	}()

	go func() {
		defer close(updates)
		defer close(stop)

		for {
			var status TrainingStatus
			if err := conn.ReadJSON(&status); err != nil {
				return
			}

			select {
			case updates <- status:
			case <-ctx.Done():
				return
			}

			if status.Terminal() {
				return
			}
		}
	}()

	return updates, nil
}

// trainFeedURL rewrites the HTTP base URL onto the websocket scheme.
func (c *Client) trainFeedURL() string {
	base := c.baseURL
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/api/train/ws"
}
