package domain

import "time"

// FormStatus is the position of a conversation in the booking form.
type FormStatus string

const (
	StatusIdle                FormStatus = "idle"
	StatusAwaitingSource      FormStatus = "awaiting_source"
	StatusAwaitingDestination FormStatus = "awaiting_destination"
	StatusReadyToConfirm      FormStatus = "ready_to_confirm"
	StatusCompleted           FormStatus = "completed"
	StatusCancelled           FormStatus = "cancelled"
)

// Active reports whether the form is collecting or confirming slots in this status.
func (s FormStatus) Active() bool {
	switch s {
	case StatusAwaitingSource, StatusAwaitingDestination, StatusReadyToConfirm:
		return true
	default:
		return false
	}
}

// DeriveStatus computes the form position from the transport's view of the
// conversation: whether the form is active and which slots are filled.
func DeriveStatus(active bool, slots SlotState) FormStatus {
	switch {
	case !active:
		return StatusIdle
	case slots.Source.IsZero():
		return StatusAwaitingSource
	case slots.Destination.IsZero():
		return StatusAwaitingDestination
	default:
		return StatusReadyToConfirm
	}
}

// Conversation is the persisted state of one booking conversation.
// It is owned by exactly one session; stores hand out copies.
type Conversation struct {
	ID        string     `json:"id"`
	Status    FormStatus `json:"status"`
	Slots     SlotState  `json:"slots"`
	Turns     int        `json:"turns"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Sealed holds an encrypted copy of the conversation when a store
	// middleware replaces the clear fields with an envelope.
	Sealed string `json:"sealed,omitempty"`
}

// NewConversation creates an idle conversation with empty slots.
func NewConversation(id string) *Conversation {
	return &Conversation{
		ID:        id,
		Status:    StatusIdle,
		UpdatedAt: time.Now().UTC(),
	}
}

// FormActive reports whether the conversation's form is active.
func (c *Conversation) FormActive() bool {
	return c.Status.Active()
}

// Apply folds a turn's outcome into the conversation.
func (c *Conversation) Apply(out TurnOutput) {
	c.Slots = out.Updates.Apply(c.Slots)
	if out.Reset {
		c.Slots = SlotState{}
	}
	c.Status = out.Status
	c.Turns++
	c.UpdatedAt = time.Now().UTC()
}
