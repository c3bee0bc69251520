package rcon

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/frontline/internal/domain/model"
)

// permanentYear marks the ledger's "never expires" sentinel
// (3000-01-01T00:00:00+00:00). Permanent VIPs are not part of the
// time-limited reward scheme and are excluded from snapshots.
const permanentYear = 3000

// VIPList returns a snapshot of the ledger: player id -> expiration.
// Permanent grants and entries with unparsable expirations are excluded.
func (c *Client) VIPList(ctx context.Context) (map[string]time.Time, error) {
	var response struct {
		Result []struct {
			PlayerID      string `json:"player_id"`
			VIPExpiration string `json:"vip_expiration"`
		} `json:"result"`
	}
	if err := c.get(ctx, "/api/get_vip_ids", &response); err != nil {
		return nil, fmt.Errorf("vip list: %w", err)
	}

	vips := make(map[string]time.Time, len(response.Result))
	for _, entry := range response.Result {
		if entry.PlayerID == "" || entry.VIPExpiration == "" {
			continue
		}
		expires, err := model.ParseTimestamp(entry.VIPExpiration)
		if err != nil {
			continue
		}
		if expires.Year() >= permanentYear {
			continue
		}
		vips[entry.PlayerID] = expires
	}
	return vips, nil
}

// AddVIP grants or extends a time-limited VIP entry in the ledger. The
// expiration is always sent as an absolute canonical instant.
func (c *Client) AddVIP(ctx context.Context, playerID, description string, expiration time.Time, platform string) error {
	request := struct {
		PlayerID    string `json:"player_id"`
		Description string `json:"description"`
		Expiration  string `json:"expiration"`
		Platform    string `json:"platform,omitempty"`
	}{
		PlayerID:    playerID,
		Description: description,
		Expiration:  expiration.UTC().Format("2006-01-02T15:04:05.000Z"),
		Platform:    platform,
	}
	if err := c.post(ctx, "/api/add_vip", request, nil); err != nil {
		return fmt.Errorf("add vip %s: %w", playerID, err)
	}
	return nil
}
