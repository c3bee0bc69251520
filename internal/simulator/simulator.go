// Package simulator is a fake administrative API for local runs and manual
// testing. It serves the same six endpoints the real server exposes, feeds
// them from synthetic match activity, and records every grant and message it
// receives so a run can be inspected afterwards.
package simulator

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/okian/frontline/internal/domain/model"
)

// maxLogRetention caps the in-memory log buffer.
const maxLogRetention = 2048

// Grant is one recorded add_vip call.
type Grant struct {
	PlayerID    string `json:"player_id"`
	Description string `json:"description"`
	Expiration  string `json:"expiration"`
	Platform    string `json:"platform,omitempty"`
}

// Message is one recorded message_player call.
type Message struct {
	PlayerID string `json:"player_id"`
	Message  string `json:"message"`
	By       string `json:"by"`
}

// Simulator holds the fake server's mutable world state.
type Simulator struct {
	mu       sync.Mutex
	logs     []model.Event
	kills    map[string]int // player id -> kills this match
	players  []model.PlayerRef
	vips     map[string]string // player id -> expiration
	grants   []Grant
	messages []Message
}

// New creates a Simulator with the given player roster.
func New(players []model.PlayerRef) *Simulator {
	return &Simulator{
		kills:   make(map[string]int),
		players: players,
		vips:    make(map[string]string),
	}
}

// Register mounts all administrative API routes on mux.
func (s *Simulator) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/get_historical_logs", s.handleHistoricalLogs)
	mux.HandleFunc("/api/get_live_scoreboard", s.handleScoreboard)
	mux.HandleFunc("/api/get_playerids", s.handlePlayerIDs)
	mux.HandleFunc("/api/get_vip_ids", s.handleVIPIDs)
	mux.HandleFunc("/api/add_vip", s.handleAddVIP)
	mux.HandleFunc("/api/message_player", s.handleMessagePlayer)
}

// AppendLog records a synthetic event, trimming the oldest past retention.
func (s *Simulator) AppendLog(ev model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = append(s.logs, ev)
	if len(s.logs) > maxLogRetention {
		s.logs = s.logs[len(s.logs)-maxLogRetention:]
	}
	if ev.Type == model.CategoryKill && ev.KillerID != "" {
		s.kills[ev.KillerID]++
	}
	if ev.Type == model.CategoryMatchEnded {
		s.kills = make(map[string]int)
	}
}

// Grants returns a copy of all recorded grants.
func (s *Simulator) Grants() []Grant {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Grant, len(s.grants))
	copy(out, s.grants)
	return out
}

// Messages returns a copy of all recorded messages.
func (s *Simulator) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Simulator) handleHistoricalLogs(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Action string `json:"action"`
		Limit  int    `json:"limit"`
		After  string `json:"after"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	after, err := model.ParseTimestamp(request.After)
	if err != nil {
		after = time.Time{}
	}

	s.mu.Lock()
	matched := make([]model.Event, 0, request.Limit)
	for _, ev := range s.logs {
		if string(ev.Type) != request.Action {
			continue
		}
		// Boundary events are re-delivered on purpose: the real API's pages
		// overlap, and the collector's dedup has to cope with it.
		if ev.EventTime.Before(after) {
			continue
		}
		matched = append(matched, ev)
	}
	s.mu.Unlock()

	if request.Limit > 0 && len(matched) > request.Limit {
		matched = matched[:request.Limit]
	}
	writeResult(w, matched)
}

func (s *Simulator) handleScoreboard(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	stats := make([]model.PlayerStat, 0, len(s.players))
	for _, p := range s.players {
		stats = append(stats, model.PlayerStat{
			Name:     p.Name,
			PlayerID: p.ID,
			Kills:    s.kills[p.ID],
		})
	}
	s.mu.Unlock()

	writeResult(w, map[string]interface{}{"stats": stats})
}

func (s *Simulator) handlePlayerIDs(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	pairs := make([][]string, 0, len(s.players))
	for _, p := range s.players {
		pairs = append(pairs, []string{p.Name, p.ID})
	}
	s.mu.Unlock()

	writeResult(w, pairs)
}

func (s *Simulator) handleVIPIDs(w http.ResponseWriter, _ *http.Request) {
	type vipEntry struct {
		PlayerID      string `json:"player_id"`
		VIPExpiration string `json:"vip_expiration"`
	}

	s.mu.Lock()
	entries := make([]vipEntry, 0, len(s.vips))
	for id, exp := range s.vips {
		entries = append(entries, vipEntry{PlayerID: id, VIPExpiration: exp})
	}
	s.mu.Unlock()

	writeResult(w, entries)
}

func (s *Simulator) handleAddVIP(w http.ResponseWriter, r *http.Request) {
	var grant Grant
	if err := json.NewDecoder(r.Body).Decode(&grant); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.grants = append(s.grants, grant)
	s.vips[grant.PlayerID] = grant.Expiration
	s.mu.Unlock()

	writeResult(w, "SUCCESS")
}

func (s *Simulator) handleMessagePlayer(w http.ResponseWriter, r *http.Request) {
	var msg Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	writeResult(w, "SUCCESS")
}

func writeResult(w http.ResponseWriter, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"result": result})
}
