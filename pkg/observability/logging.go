package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/wayfare/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that log every event.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.InfoContext(ctx, "form_transition",
				"conversation_id", e.ConversationID,
				"from", e.From,
				"to", e.To,
			)
		},
		OnSlotRejected: func(ctx context.Context, e *domain.RejectionEvent) {
			logger.InfoContext(ctx, "slot_rejected",
				"conversation_id", e.ConversationID,
				"slot", e.Slot,
				"value", e.Value,
				"reason", e.Reason,
			)
		},
		OnFormCompleted: func(ctx context.Context, e *domain.CompletionEvent) {
			logger.InfoContext(ctx, "form_completed",
				"conversation_id", e.ConversationID,
				"outcome", e.Outcome,
				"source", e.Slots.Source,
				"destination", e.Slots.Destination,
			)
		},
	}
}
