package rcon

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/frontline/internal/domain/model"
)

// HistoricalLogs fetches events of one category newer than the watermark.
// The returned batch order is whatever the API produced; callers are
// responsible for ordering.
func (c *Client) HistoricalLogs(ctx context.Context, category model.Category, after time.Time, limit int) ([]model.Event, error) {
	request := struct {
		Action string `json:"action"`
		Limit  int    `json:"limit"`
		After  string `json:"after"`
	}{
		Action: string(category),
		Limit:  limit,
		After:  after.UTC().Format(time.RFC3339),
	}

	var response struct {
		Result []model.Event `json:"result"`
	}
	if err := c.post(ctx, "/api/get_historical_logs", request, &response); err != nil {
		return nil, fmt.Errorf("historical logs for %s: %w", category, err)
	}
	return response.Result, nil
}
