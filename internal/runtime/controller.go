// Package runtime implements the booking form controller: the state machine that
// decides, turn by turn, which slot to ask for, when to run the slot validators,
// and when to confirm, cancel, or reset.
//
// Decisions are pure functions of the turn input. Persisting slots and sending
// messages is left to the caller.
package runtime

import (
	"context"
	"strings"
	"time"

	"github.com/aretw0/wayfare/pkg/domain"
	"github.com/aretw0/wayfare/pkg/prompts"
	"github.com/aretw0/wayfare/pkg/resolve"
	"github.com/aretw0/wayfare/pkg/slots"
)

// Controller runs the booking form over a fixed vocabulary.
type Controller struct {
	vocab      domain.Vocabulary
	inferencer *resolve.Inferencer
	validator  *slots.Validator
	hooks      domain.LifecycleHooks
}

// Option configures the Controller.
type Option func(*Controller)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// NewController creates a controller bound to the vocabulary.
func NewController(vocab domain.Vocabulary, opts ...Option) *Controller {
	c := &Controller{
		vocab:      vocab,
		inferencer: resolve.NewInferencer(vocab),
		validator:  slots.NewValidator(vocab),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Vocabulary returns the cities the controller accepts.
func (c *Controller) Vocabulary() domain.Vocabulary {
	return c.vocab
}

// Inferencer returns the role inferencer used for pre-seeding and fallbacks.
func (c *Controller) Inferencer() *resolve.Inferencer {
	return c.inferencer
}

// Decide computes the outcome of one turn. The form position is derived from
// the input's form_active flag and current slots.
func (c *Controller) Decide(ctx context.Context, conversationID string, in domain.TurnInput) domain.TurnOutput {
	from := domain.DeriveStatus(in.FormActive, in.Slots)

	var (
		out      domain.TurnOutput
		rejected *slots.Rejection
	)
	switch {
	case in.Reset:
		out = terminal(domain.StatusIdle)
	case from == domain.StatusAwaitingSource:
		out, rejected = c.collect(domain.SlotSource, in)
	case from == domain.StatusAwaitingDestination:
		out, rejected = c.collect(domain.SlotDestination, in)
	case from == domain.StatusReadyToConfirm:
		out = c.submit(in)
	default:
		out = c.start(in)
	}

	c.emit(ctx, conversationID, from, in.Slots, out, rejected)
	return out
}

// start opens a new form, pre-seeding whatever the triggering utterance
// already says about the route.
func (c *Controller) start(in domain.TurnInput) domain.TurnOutput {
	var updates domain.SlotUpdates
	if !in.Slots.Empty() {
		updates = domain.ClearAll()
	}

	inferred := c.inferencer.Infer(resolve.Normalize(in.Utterance), domain.SlotState{})
	var seeded domain.SlotState
	if source, ok := c.vocab.Lookup(string(inferred.Source)); ok {
		seeded.Source = source
		updates.Source = domain.Set(source)
	}
	if dest, ok := c.vocab.Lookup(string(inferred.Destination)); ok && !dest.Equal(seeded.Source) {
		seeded.Destination = dest
		updates.Destination = domain.Set(dest)
	}

	status, prompt := c.next(seeded)
	return domain.TurnOutput{
		Updates:    updates,
		Messages:   []string{prompt},
		FormActive: true,
		Status:     status,
	}
}

// collect validates the answer for the requested slot and asks for whatever is
// still missing, re-asking the same slot after a rejection.
func (c *Controller) collect(slot domain.Slot, in domain.TurnInput) (domain.TurnOutput, *slots.Rejection) {
	stated := in.Entities.Get(slot)
	if strings.TrimSpace(stated) == "" {
		stated = in.Utterance
	}

	var v slots.Validation
	if slot == domain.SlotSource {
		v = c.validator.ValidateSource(stated, in.Utterance, in.Slots)
	} else {
		v = c.validator.ValidateDestination(stated, in.Utterance, in.Slots)
	}

	status, prompt := c.next(v.Updates.Apply(in.Slots))
	messages := make([]string, 0, len(v.Messages)+1)
	messages = append(messages, v.Messages...)
	messages = append(messages, prompt)

	return domain.TurnOutput{
		Updates:    v.Updates,
		Messages:   messages,
		FormActive: true,
		Status:     status,
	}, v.Rejection
}

// submit re-checks the filled slots and acts on the confirmation intent.
func (c *Controller) submit(in domain.TurnInput) domain.TurnOutput {
	source, srcOK := c.vocab.Lookup(string(in.Slots.Source))
	dest, destOK := c.vocab.Lookup(string(in.Slots.Destination))
	if !srcOK || !destOK || source.Equal(dest) {
		out := terminal(domain.StatusIdle)
		out.Messages = []string{prompts.InvalidState}
		return out
	}
	route := domain.SlotState{Source: source, Destination: dest}

	switch domain.ParseIntent(string(in.Intent)) {
	case domain.IntentAffirm:
		out := terminal(domain.StatusCompleted)
		out.Messages = []string{prompts.Booked(route)}
		return out
	case domain.IntentDeny:
		out := terminal(domain.StatusCancelled)
		out.Messages = []string{prompts.Cancelled}
		return out
	default:
		return domain.TurnOutput{
			Messages:   []string{prompts.Confirm(route)},
			FormActive: true,
			Status:     domain.StatusReadyToConfirm,
		}
	}
}

// next returns the status for the given slots and the prompt that goes with it.
func (c *Controller) next(s domain.SlotState) (domain.FormStatus, string) {
	switch status := domain.DeriveStatus(true, s); status {
	case domain.StatusAwaitingSource:
		return status, prompts.AskSource(c.vocab)
	case domain.StatusAwaitingDestination:
		return status, prompts.AskDestination(c.vocab, s.Source)
	default:
		return status, prompts.Confirm(s)
	}
}

// terminal clears both slots and deactivates the form.
func terminal(status domain.FormStatus) domain.TurnOutput {
	return domain.TurnOutput{
		Updates: domain.ClearAll(),
		Reset:   true,
		Status:  status,
	}
}

func (c *Controller) emit(ctx context.Context, id string, from domain.FormStatus, before domain.SlotState, out domain.TurnOutput, rejected *slots.Rejection) {
	now := time.Now()
	base := func(t domain.EventType) domain.EventBase {
		return domain.EventBase{Timestamp: now, Type: t, ConversationID: id}
	}

	if rejected != nil && c.hooks.OnSlotRejected != nil {
		c.hooks.OnSlotRejected(ctx, &domain.RejectionEvent{
			EventBase: base(domain.EventSlotRejected),
			Slot:      rejected.Slot,
			Value:     rejected.Value,
			Reason:    rejected.Reason,
		})
	}
	if from != out.Status && c.hooks.OnTransition != nil {
		c.hooks.OnTransition(ctx, &domain.TransitionEvent{
			EventBase: base(domain.EventTransition),
			From:      from,
			To:        out.Status,
		})
	}
	if (out.Status == domain.StatusCompleted || out.Status == domain.StatusCancelled) && c.hooks.OnFormCompleted != nil {
		c.hooks.OnFormCompleted(ctx, &domain.CompletionEvent{
			EventBase: base(domain.EventFormCompleted),
			Outcome:   out.Status,
			Slots:     before,
		})
	}
}
