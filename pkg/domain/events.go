package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition    EventType = "transition"
	EventSlotRejected  EventType = "slot_rejected"
	EventFormCompleted EventType = "form_completed"
)

// RejectionReason classifies why a slot value was refused.
type RejectionReason string

const (
	ReasonUnknownCity RejectionReason = "unknown_city"
	ReasonSameCity    RejectionReason = "same_city"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp      time.Time `json:"timestamp"`
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id,omitempty"`
}

// TransitionEvent records a form status change.
type TransitionEvent struct {
	EventBase
	From FormStatus `json:"from"`
	To   FormStatus `json:"to"`
}

// RejectionEvent records a refused slot value.
type RejectionEvent struct {
	EventBase
	Slot   Slot            `json:"slot"`
	Value  string          `json:"value"`
	Reason RejectionReason `json:"reason"`
}

// CompletionEvent records the end of a form instance.
type CompletionEvent struct {
	EventBase
	Outcome FormStatus `json:"outcome"`
	Slots   SlotState  `json:"slots"`
}

// LifecycleHooks defines callbacks for form observability. Any hook may be nil.
type LifecycleHooks struct {
	OnTransition    func(context.Context, *TransitionEvent)
	OnSlotRejected  func(context.Context, *RejectionEvent)
	OnFormCompleted func(context.Context, *CompletionEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition:    chain(h.OnTransition, other.OnTransition),
		OnSlotRejected:  chain(h.OnSlotRejected, other.OnSlotRejected),
		OnFormCompleted: chain(h.OnFormCompleted, other.OnFormCompleted),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
