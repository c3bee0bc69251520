package rcon

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/frontline/internal/domain/model"
)

// LiveScoreboard fetches the current match scoreboard.
//
// The response must be exactly {"result": {"stats": [...]}}. Any other shape
// is a malformed payload; there is no fallback probing across alternative
// layouts.
func (c *Client) LiveScoreboard(ctx context.Context) ([]model.PlayerStat, error) {
	var response struct {
		Result *struct {
			Stats json.RawMessage `json:"stats"`
		} `json:"result"`
	}
	if err := c.get(ctx, "/api/get_live_scoreboard", &response); err != nil {
		return nil, fmt.Errorf("live scoreboard: %w", err)
	}
	if response.Result == nil || response.Result.Stats == nil {
		return nil, fmt.Errorf("%w: live scoreboard missing result.stats", ErrMalformed)
	}

	var stats []model.PlayerStat
	if err := json.Unmarshal(response.Result.Stats, &stats); err != nil {
		return nil, fmt.Errorf("%w: live scoreboard stats: %v", ErrMalformed, err)
	}
	return stats, nil
}
