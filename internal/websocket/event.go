package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownEntity is returned when a subscription names an entity no event is about
var ErrUnknownEntity = errors.New("unknown event entity")

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
	EventTypePosted  EventType = "posted"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeAccount      EntityType = "account"
	EntityTypeJournalEntry EntityType = "journal_entry"
)

// ParseEntityTypes parses a comma-separated subscription like
// "account,journal_entry". An empty string means every entity.
func ParseEntityTypes(s string) ([]EntityType, error) {
	var entities []EntityType
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		switch e := EntityType(name); e {
		case EntityTypeAccount, EntityTypeJournalEntry:
			entities = append(entities, e)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, part)
		}
	}
	return entities, nil
}

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "journal_entry.posted"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "account"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// AccountCreated creates an account.created event
func AccountCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeAccount, payload)
}

// AccountUpdated creates an account.updated event
func AccountUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeAccount, payload)
}

// AccountDeleted creates an account.deleted event
func AccountDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeAccount, payload)
}

// JournalEntryPosted creates a journal_entry.posted event
func JournalEntryPosted(payload interface{}) Event {
	return NewEvent(EventTypePosted, EntityTypeJournalEntry, payload)
}
