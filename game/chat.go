package game

import (
	"time"

	"github.com/google/uuid"
)

// chatMax caps the retained chat history.
const chatMax = 200

// ChatEntry is one line of the shared chat log. Kind is "chat" for player
// messages and "system" for lifecycle notices.
type ChatEntry struct {
	ID   string `json:"id"`
	Kind string `json:"type"`
	Name string `json:"name,omitempty"`
	Text string `json:"text"`
	TS   int64  `json:"ts"`
}

// ChatLog is a ring-capped chat history.
type ChatLog struct {
	entries []ChatEntry
}

// NewChatLog creates an empty chat log.
func NewChatLog() *ChatLog {
	return &ChatLog{}
}

// Append adds an entry, dropping the oldest beyond the cap.
func (l *ChatLog) Append(e ChatEntry) {
	l.entries = append(l.entries, e)
	if over := len(l.entries) - chatMax; over > 0 {
		l.entries = append(l.entries[:0:0], l.entries[over:]...)
	}
}

// All returns a copy of the log, oldest first.
func (l *ChatLog) All() []ChatEntry {
	out := make([]ChatEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear empties the log.
func (l *ChatLog) Clear() {
	l.entries = nil
}

func systemEntry(now time.Time, text string) ChatEntry {
	return ChatEntry{ID: uuid.NewString(), Kind: "system", Text: text, TS: now.UnixMilli()}
}

func playerEntry(now time.Time, name, text string) ChatEntry {
	return ChatEntry{ID: uuid.NewString(), Kind: "chat", Name: name, Text: text, TS: now.UnixMilli()}
}
