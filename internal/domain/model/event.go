// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Category identifies the log stream an event belongs to.
// Values match the administrative API's action names verbatim,
// including the space in "MATCH ENDED".
type Category string

// Known event categories.
const (
	CategoryKill       Category = "KILL"
	CategoryMatchEnded Category = "MATCH ENDED"
)

// Wire timestamp layouts. The administrative API emits either RFC3339 or a
// zone-less variant that is implicitly UTC; everything leaving this process
// uses the canonical millisecond form.
const (
	naiveLayout = "2006-01-02T15:04:05"
	emitLayout  = "2006-01-02T15:04:05.000Z"
)

// Timestamp is a UTC instant with lenient decoding and canonical encoding.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t as a UTC Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// MarshalJSON emits the canonical millisecond-precision form.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(emitLayout))
}

// UnmarshalJSON accepts RFC3339 as well as the source API's zone-less layout.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a JSON string: %w", err)
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ParseTimestamp parses a wire timestamp into a UTC instant.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.UTC(), nil
	}
	parsed, err := time.Parse(naiveLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q: %w", raw, err)
	}
	return parsed.UTC(), nil
}

// Event is a single immutable log record observed from the administrative API.
// IDs are opaque and unique per category within the dedup window; EventTime is
// source-assigned, not time-of-receipt. Unknown wire fields are ignored so bus
// consumers stay tolerant of schema growth.
type Event struct {
	ID        string    `json:"id"`
	Type      Category  `json:"type"`
	EventTime Timestamp `json:"event_time"`
	Server    string    `json:"server,omitempty"`

	// Kill payload. Player1 is always the killer, player2 the victim;
	// these are the canonical identifier fields for the whole system.
	KillerName string `json:"player1_name,omitempty"`
	KillerID   string `json:"player1_id,omitempty"`
	VictimName string `json:"player2_name,omitempty"`
	VictimID   string `json:"player2_id,omitempty"`
	Weapon     string `json:"weapon,omitempty"`
}

// PlayerStat is one live-scoreboard row.
type PlayerStat struct {
	Name     string `json:"player"`
	PlayerID string `json:"player_id"`
	Kills    int    `json:"kills"`
}

// PlayerRef is a name/id pair from the connected-players listing.
type PlayerRef struct {
	Name string
	ID   string
}
