package ws

import (
	"encoding/json"
	"strings"

	"xyzzy-server/config"
)

// InboundEnvelope is the generic envelope for all client-to-server
// messages. The Type field is used for routing; Raw holds the full JSON
// payload.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture the raw payload.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// --- Client-to-Server message payloads ---

// SetIdentityMsg declares a stable player id and display name. AdminKey
// is either the shared passphrase or an admin JWT, depending on server
// configuration.
type SetIdentityMsg struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	AdminKey string `json:"adminKey"`
}

// ChatSendMsg posts a chat message.
type ChatSendMsg struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SubmitCardMsg plays a response card from the sender's hand.
type SubmitCardMsg struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// JudgePickMsg selects the round winner; judge only.
type JudgePickMsg struct {
	Type     string `json:"type"`
	WinnerID string `json:"winnerId"`
}

// SetSettingsMsg updates the game settings; admin only. Values are
// clamped by the session.
type SetSettingsMsg struct {
	Type string `json:"type"`
	config.Settings
}

// SetBotsMsg configures synthetic players; admin only.
type SetBotsMsg struct {
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
	Count   int    `json:"count"`
}

// KickMsg removes a player; admin only.
type KickMsg struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}

// ErrorMsg is sent when a client message cannot be routed.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// sanitizeText trims, collapses internal whitespace, and truncates to max
// runes.
func sanitizeText(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > max {
		s = string(r[:max])
	}
	return s
}
