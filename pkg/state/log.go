package state

import "github.com/google/uuid"

// LogKind styles a journal line: story lines are narration, action lines
// are mechanical feedback.
type LogKind string

const (
	LogStory  LogKind = "story"
	LogAction LogKind = "action"
	LogCombat LogKind = "combat"
)

// LogEntry is one line of the session journal shown to the player.
type LogEntry struct {
	ID   string  `json:"id"`
	Kind LogKind `json:"kind"`
	Text string  `json:"text"`
}

// NewLogEntry assigns the entry a fresh id.
func NewLogEntry(kind LogKind, text string) LogEntry {
	return LogEntry{ID: uuid.NewString(), Kind: kind, Text: text}
}
