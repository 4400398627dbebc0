// Package sse implements Server-Sent Events for pushing note, candidate,
// and notification updates to connected clients.
package sse

import (
	"time"

	"github.com/talenttrackapp/talenttrack-server/internal/domain"
)

// EventType represents the type of SSE event.
type EventType string

const (
	// EventCandidateCreated represents a candidate creation event.
	EventCandidateCreated EventType = "candidate.created"

	// EventNoteCreated represents a new note on a candidate thread.
	EventNoteCreated EventType = "note.created"

	// EventNotificationCreated represents a new mention notification.
	// Delivered only to the recipient user.
	EventNotificationCreated EventType = "notification.created"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// UserID targets the event at a single user; empty means broadcast to all.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
	UserID    string    `json:"-"`
}

// NewCandidateCreatedEvent creates a candidate.created event.
func NewCandidateCreatedEvent(candidate *domain.Candidate) Event {
	return Event{
		Type:      EventCandidateCreated,
		Timestamp: time.Now(),
		Data:      candidate,
	}
}

// NewNoteCreatedEvent creates a note.created event.
func NewNoteCreatedEvent(note *domain.Note) Event {
	return Event{
		Type:      EventNoteCreated,
		Timestamp: time.Now(),
		Data:      note,
	}
}

// NewNotificationCreatedEvent creates a notification.created event
// targeted at the notification's recipient.
func NewNotificationCreatedEvent(notification *domain.Notification) Event {
	return Event{
		Type:      EventNotificationCreated,
		Timestamp: time.Now(),
		Data:      notification,
		UserID:    notification.RecipientUserID,
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Timestamp: time.Now(),
	}
}
