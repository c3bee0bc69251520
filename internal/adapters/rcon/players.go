package rcon

import (
	"context"
	"fmt"

	"github.com/okian/frontline/internal/domain/model"
)

// PlayerIDs lists every player currently connected to the server.
// Entries that do not carry both a name and an id are dropped.
func (c *Client) PlayerIDs(ctx context.Context) ([]model.PlayerRef, error) {
	var response struct {
		Result [][]string `json:"result"`
	}
	if err := c.get(ctx, "/api/get_playerids", &response); err != nil {
		return nil, fmt.Errorf("player ids: %w", err)
	}

	refs := make([]model.PlayerRef, 0, len(response.Result))
	for _, pair := range response.Result {
		if len(pair) < 2 || pair[1] == "" {
			continue
		}
		refs = append(refs, model.PlayerRef{Name: pair[0], ID: pair[1]})
	}
	return refs, nil
}

// MessagePlayer sends an in-game message to one player. The platform hint is
// optional and never blocks delivery.
func (c *Client) MessagePlayer(ctx context.Context, playerID, message, platform string) error {
	request := struct {
		PlayerID    string `json:"player_id"`
		Message     string `json:"message"`
		By          string `json:"by"`
		SaveMessage bool   `json:"save_message"`
		Platform    string `json:"platform,omitempty"`
	}{
		PlayerID:    playerID,
		Message:     message,
		By:          c.sender,
		SaveMessage: true,
		Platform:    platform,
	}
	if err := c.post(ctx, "/api/message_player", request, nil); err != nil {
		return fmt.Errorf("message player %s: %w", playerID, err)
	}
	return nil
}
