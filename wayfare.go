package wayfare

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/wayfare/internal/logging"
	"github.com/aretw0/wayfare/internal/runtime"
	"github.com/aretw0/wayfare/pkg/adapters/memory"
	"github.com/aretw0/wayfare/pkg/domain"
	"github.com/aretw0/wayfare/pkg/intent"
	"github.com/aretw0/wayfare/pkg/observability"
	"github.com/aretw0/wayfare/pkg/ports"
	"github.com/aretw0/wayfare/pkg/resolve"
	"github.com/aretw0/wayfare/pkg/session"
	"github.com/google/uuid"
)

// Engine is the high-level entry point for the booking form.
// It wraps the form controller and the session manager.
type Engine struct {
	controller *runtime.Controller
	sessions   *session.Manager

	vocab   domain.Vocabulary
	store   ports.ConversationStore
	locker  ports.DistributedLocker
	lockTTL time.Duration
	hooks   domain.LifecycleHooks
	metrics *observability.Metrics
	logger  *slog.Logger

	err error
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithVocabulary replaces the default city list. A zero Vocabulary keeps the default.
func WithVocabulary(vocab domain.Vocabulary) Option {
	return func(e *Engine) {
		e.vocab = vocab
	}
}

// WithCities builds the vocabulary from city names, in display order.
func WithCities(names ...string) Option {
	return func(e *Engine) {
		vocab, err := domain.NewVocabulary(names...)
		if err != nil {
			e.err = fmt.Errorf("invalid vocabulary: %w", err)
			return
		}
		e.vocab = vocab
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithMetrics records turns and lifecycle events in Prometheus collectors.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStore sets where conversations are persisted (default: in memory).
func WithStore(store ports.ConversationStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker serializes turns across replicas sharing a store.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = locker
		e.lockTTL = ttl
	}
}

// Message is one user turn in a stateful conversation.
type Message struct {
	Utterance string            `json:"utterance"`
	Intent    string            `json:"intent,omitempty"`
	Entities  domain.SlotValues `json:"entities,omitempty"`
}

// New initializes a new Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.err != nil {
		return nil, eng.err
	}

	if eng.vocab.Len() == 0 {
		eng.vocab = domain.DefaultVocabulary()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	hooks := eng.hooks.Merge(eng.metrics.Hooks())
	eng.controller = runtime.NewController(eng.vocab, runtime.WithLifecycleHooks(hooks))

	sessionOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker), session.WithLockTTL(eng.lockTTL))
	}
	eng.sessions = session.NewManager(eng.store, sessionOpts...)

	return eng, nil
}

// Vocabulary returns the cities the engine accepts.
func (e *Engine) Vocabulary() domain.Vocabulary {
	return e.vocab
}

// Decide computes one turn without touching the store. The transport owns
// the conversation state and echoes it back in the input.
func (e *Engine) Decide(ctx context.Context, in domain.TurnInput) domain.TurnOutput {
	return e.decide(ctx, "", in)
}

func (e *Engine) decide(ctx context.Context, conversationID string, in domain.TurnInput) domain.TurnOutput {
	started := time.Now()
	out := e.controller.Decide(ctx, conversationID, in)
	e.metrics.ObserveTurn(out.Status, time.Since(started))
	e.logger.DebugContext(ctx, "turn decided",
		"conversation_id", conversationID,
		"status", out.Status,
		"form_active", out.FormActive,
		"messages", len(out.Messages),
	)
	return out
}

// Infer reports which cities the message mentions and the roles they would
// take given the known slots.
func (e *Engine) Infer(message string, known domain.SlotState) resolve.Report {
	return e.controller.Inferencer().Report(message, known)
}

// Open returns the conversation, creating an idle one if needed.
// An empty id mints a new random one.
func (e *Engine) Open(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	return e.sessions.LoadOrStart(ctx, conversationID)
}

// Send decides one turn of a stored conversation and persists the outcome.
// A missing intent tag is classified from the utterance.
func (e *Engine) Send(ctx context.Context, conversationID string, msg Message) (domain.TurnOutput, error) {
	return e.update(ctx, conversationID, func(conv *domain.Conversation) domain.TurnInput {
		return domain.TurnInput{
			Utterance:  msg.Utterance,
			Intent:     intent.Resolve(msg.Intent, msg.Utterance),
			Slots:      conv.Slots,
			FormActive: conv.FormActive(),
			Entities:   msg.Entities,
		}
	})
}

// Reset forces the conversation back to idle with empty slots.
func (e *Engine) Reset(ctx context.Context, conversationID string) (domain.TurnOutput, error) {
	return e.update(ctx, conversationID, func(conv *domain.Conversation) domain.TurnInput {
		return domain.TurnInput{
			Slots:      conv.Slots,
			FormActive: conv.FormActive(),
			Reset:      true,
		}
	})
}

func (e *Engine) update(ctx context.Context, conversationID string, input func(*domain.Conversation) domain.TurnInput) (domain.TurnOutput, error) {
	var out domain.TurnOutput
	_, err := e.sessions.Update(ctx, conversationID, func(ctx context.Context, conv *domain.Conversation) error {
		out = e.decide(ctx, conversationID, input(conv))
		conv.Apply(out)
		return nil
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "turn failed", "conversation_id", conversationID, "error", err)
		return domain.TurnOutput{}, fmt.Errorf("conversation %s: %w", conversationID, err)
	}
	return out, nil
}

// Conversation returns the stored conversation.
func (e *Engine) Conversation(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	return e.sessions.Load(ctx, conversationID)
}

// Conversations lists the IDs of stored conversations.
func (e *Engine) Conversations(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// Delete removes the conversation from the store.
func (e *Engine) Delete(ctx context.Context, conversationID string) error {
	return e.sessions.Delete(ctx, conversationID)
}
