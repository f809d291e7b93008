package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"docchat/internal/model/conversation"
)

// FetchChartData retrieves the chart payload computed for the session's
// latest query. Callers decide whether a fetch is warranted at all; see the
// trigger package.
func (c *Client) FetchChartData(ctx context.Context, sessionID string) (*conversation.ChartData, error) {
	ctx, cancel := c.boundedContext(ctx)
	defer cancel()

	endpoint := fmt.Sprintf("%s/api/csv/chart-data/%s", c.baseURL, url.PathEscape(sessionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("client: create chart request: %w", err)
	}

	res, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("client: chart request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	var payload conversation.ChartData
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("client: decode chart payload: %w", err)
	}
	return &payload, nil
}
