package store

import (
	"errors"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	OutputText  = "text"
	OutputVoice = "voice"
)

// ErrUnavailable reports that the backing store could not be reached.
var ErrUnavailable = errors.New("store unavailable")

// Message is one recorded conversation turn. Immutable once appended;
// Timestamp is assigned by the store and orders the conversation.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Preferences is the single per-user settings record.
type Preferences struct {
	UserID     string `json:"userId"`
	OutputMode string `json:"outputMode"`
}

// DefaultPreferences is what a user without a stored record gets. It is
// synthesized on read, never persisted.
func DefaultPreferences(userID string) Preferences {
	return Preferences{UserID: userID, OutputMode: OutputText}
}

// ValidOutputMode reports whether mode is one of the accepted output modes.
func ValidOutputMode(mode string) bool {
	return mode == OutputText || mode == OutputVoice
}

// Store is the persistence surface for conversation turns and preferences.
type Store interface {
	// AppendMessage records one turn and returns it with the
	// store-assigned ID and timestamp.
	AppendMessage(userID, role, content string) (Message, error)
	// RecentMessages returns up to limit turns for the user, most
	// recent first.
	RecentMessages(userID string, limit int) ([]Message, error)
	// GetPreferences returns the stored record, or the synthesized
	// default when none exists.
	GetPreferences(userID string) (Preferences, error)
	// UpsertPreferences updates the user's record in place, inserting
	// it on first write.
	UpsertPreferences(userID, outputMode string) error
}
