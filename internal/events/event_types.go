package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered     EventType = "user_registered"
	EventConfirmationResent EventType = "confirmation_resent"
	EventItemPosted         EventType = "item_posted"
	EventItemClaimed        EventType = "item_claimed"
	EventMessageReceived    EventType = "message_received"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, subjectID string, actor *domain.User, payload interface{}) Event {
	ev := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if actor != nil {
		id := actor.ID
		ev.ActorID = &id
	}
	return ev
}

// ConfirmationPayload carries the token for sign-up and resend mails.
type ConfirmationPayload struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Token string `json:"token"`
}

// ItemPostedPayload payload.
type ItemPostedPayload struct {
	Title    string             `json:"title"`
	Status   domain.ItemStatus  `json:"status"`
	Category domain.CategoryRef `json:"category"`
}

// ItemClaimedPayload payload.
type ItemClaimedPayload struct {
	Title     string            `json:"title"`
	OldStatus domain.ItemStatus `json:"old_status"`
	NewStatus domain.ItemStatus `json:"new_status"`
}

// MessageReceivedPayload payload.
type MessageReceivedPayload struct {
	From     string `json:"from"`
	Subject  string `json:"subject"`
	Feedback bool   `json:"feedback"`
}
