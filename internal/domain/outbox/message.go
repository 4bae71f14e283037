package outbox

import (
	"encoding/json"
	"time"

	"github.com/bank-accounts-service/internal/domain/event"
	"github.com/google/uuid"
)

// Status defines message publishing states
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusPublished       Status = "PUBLISHED"
	StatusFailedToPublish Status = "FAILED_TO_PUBLISH"
)

// Message is an account event waiting to be published, stored in the same transaction as
// the account change that produced it.
type Message struct {
	ID            int64           `json:"id"`
	EventID       uuid.UUID       `json:"event_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	EventType     event.Type      `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	Status        Status          `json:"status"`
	Attempts      int             `json:"attempts"`
	CreatedAt     time.Time       `json:"created_at"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
}

func NewMessage(evt *event.AccountEvent) (*Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:   evt.ID,
		AccountID: evt.AccountID,
		EventType: evt.Type,
		Payload:   payload,
		Status:    StatusPending,
		CreatedAt: evt.OccurredAt,
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsPublished() {
	m.Status = StatusPublished
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = StatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// Event decodes the payload.
func (m *Message) Event() (*event.AccountEvent, error) {
	var evt event.AccountEvent
	if err := json.Unmarshal(m.Payload, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}
