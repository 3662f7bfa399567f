package rasa

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/wayfare/internal/logging"
	"github.com/aretw0/wayfare/pkg/domain"
	"github.com/aretw0/wayfare/pkg/intent"
	"github.com/aretw0/wayfare/pkg/prompts"
	"github.com/aretw0/wayfare/pkg/slots"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mitchellh/mapstructure"
)

// Engine is what the action server needs from the booking engine.
type Engine interface {
	Vocabulary() domain.Vocabulary
	Decide(ctx context.Context, in domain.TurnInput) domain.TurnOutput
}

// Server dispatches Rasa custom actions.
type Server struct {
	engine    Engine
	vocab     domain.Vocabulary
	validator *slots.Validator
	logger    *slog.Logger
	actions   map[string]func(context.Context, *ActionCall) ActionResult
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger for incoming calls and failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates an action server bound to the engine's vocabulary.
func NewServer(engine Engine, opts ...Option) *Server {
	vocab := engine.Vocabulary()
	s := &Server{
		engine:    engine,
		vocab:     vocab,
		validator: slots.NewValidator(vocab),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.actions = map[string]func(context.Context, *ActionCall) ActionResult{
		ActionAskSource:       s.askSource,
		ActionAskDestination:  s.askDestination,
		ActionValidateForm:    s.validateForm,
		ActionSubmitFlight:    s.submitFlight,
		ActionCheckFormStart:  s.checkFormStart,
		ActionResetFlightForm: s.resetForm,
		ActionSessionStart:    s.sessionStart,
	}
	return s
}

// Handler returns the HTTP routes of the action server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/webhook", s.Webhook)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

// Actions lists the registered action names.
func (s *Server) Actions() []string {
	names := make([]string, 0, len(s.actions))
	for name := range s.actions {
		names = append(names, name)
	}
	return names
}

// Webhook handles POST /webhook.
func (s *Server) Webhook(w http.ResponseWriter, r *http.Request) {
	var call ActionCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		s.logger.Warn("Invalid action call", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	s.logger.Debug("Incoming action call",
		"action", call.NextAction,
		"sender_id", call.SenderID,
		"text", call.Tracker.LatestMessage.Text,
	)

	run, ok := s.actions[call.NextAction]
	if !ok {
		writeJSON(w, http.StatusNotFound, ActionError{
			Error:      fmt.Sprintf("No registered action found for name '%s'.", call.NextAction),
			ActionName: call.NextAction,
		})
		return
	}

	result := run(r.Context(), &call)
	if result.Events == nil {
		result.Events = []Event{}
	}
	if result.Responses == nil {
		result.Responses = []Response{}
	}
	s.logger.Debug("Action response", "action", call.NextAction, "events", len(result.Events), "responses", len(result.Responses))
	writeJSON(w, http.StatusOK, result)
}

// formSlots is the part of the tracker's slot map the form reads.
type formSlots struct {
	Source        string         `mapstructure:"source"`
	Destination   string         `mapstructure:"destination"`
	RequestedSlot string         `mapstructure:"requested_slot"`
	Metadata      map[string]any `mapstructure:"session_started_metadata"`
}

func (s *Server) decodeSlots(call *ActionCall) formSlots {
	var fs formSlots
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &fs,
	})
	if err == nil {
		err = dec.Decode(call.Tracker.Slots)
	}
	if err != nil {
		s.logger.Warn("Failed to decode tracker slots", "sender_id", call.SenderID, "error", err)
	}
	return fs
}

// city canonicalizes a tracker value, keeping unknown names as they are so
// the validators can reject them.
func (s *Server) city(value string) domain.City {
	if c, ok := s.vocab.Lookup(value); ok {
		return c
	}
	return domain.City(strings.TrimSpace(value))
}

func (s *Server) state(fs formSlots) domain.SlotState {
	return domain.SlotState{Source: s.city(fs.Source), Destination: s.city(fs.Destination)}
}

func entities(msg LatestMessage) domain.SlotValues {
	var v domain.SlotValues
	for _, e := range msg.Entities {
		if e.Value == nil {
			continue
		}
		switch domain.Slot(e.Entity) {
		case domain.SlotSource:
			v.Source = fmt.Sprint(e.Value)
		case domain.SlotDestination:
			v.Destination = fmt.Sprint(e.Value)
		}
	}
	return v
}

func (s *Server) askSource(_ context.Context, _ *ActionCall) ActionResult {
	return ActionResult{Responses: texts(prompts.AskSource(s.vocab))}
}

func (s *Server) askDestination(_ context.Context, call *ActionCall) ActionResult {
	fs := s.decodeSlots(call)
	return ActionResult{Responses: texts(prompts.AskDestination(s.vocab, s.city(fs.Source)))}
}

// validateForm validates the slot the form requested. The tracker already
// holds the candidate value, so it is taken out of the known slots before the
// fallback inference runs.
func (s *Server) validateForm(_ context.Context, call *ActionCall) ActionResult {
	fs := s.decodeSlots(call)
	current := s.state(fs)
	text := call.Tracker.LatestMessage.Text

	slot := domain.Slot(fs.RequestedSlot)
	if slot != domain.SlotSource && slot != domain.SlotDestination {
		switch domain.DeriveStatus(true, current) {
		case domain.StatusAwaitingSource:
			slot = domain.SlotSource
		case domain.StatusAwaitingDestination:
			slot = domain.SlotDestination
		default:
			return ActionResult{}
		}
	}

	stated := string(current.Get(slot))
	if strings.TrimSpace(stated) == "" {
		stated = entities(call.Tracker.LatestMessage).Get(slot)
	}
	if strings.TrimSpace(stated) == "" {
		stated = text
	}

	var v slots.Validation
	if slot == domain.SlotSource {
		current.Source = ""
		v = s.validator.ValidateSource(stated, text, current)
	} else {
		current.Destination = ""
		v = s.validator.ValidateDestination(stated, text, current)
	}
	return ActionResult{Events: updateEvents(v.Updates), Responses: texts(v.Messages...)}
}

func (s *Server) submitFlight(ctx context.Context, call *ActionCall) ActionResult {
	fs := s.decodeSlots(call)
	current := s.state(fs)
	if !current.Complete() {
		return ActionResult{Events: resetEvents(), Responses: texts(prompts.InvalidState)}
	}

	msg := call.Tracker.LatestMessage
	out := s.engine.Decide(ctx, domain.TurnInput{
		Utterance:  msg.Text,
		Intent:     intent.Resolve(msg.Intent.Name, msg.Text),
		Slots:      current,
		FormActive: true,
	})
	result := ActionResult{Responses: texts(out.Messages...)}
	if out.Reset {
		result.Events = resetEvents()
	}
	return result
}

// checkFormStart pre-fills whatever the triggering message says about the
// route and activates the form. The form asks for the rest itself.
func (s *Server) checkFormStart(ctx context.Context, call *ActionCall) ActionResult {
	fs := s.decodeSlots(call)
	out := s.engine.Decide(ctx, domain.TurnInput{
		Utterance: call.Tracker.LatestMessage.Text,
		Slots:     s.state(fs),
	})
	events := updateEvents(out.Updates)
	events = append(events, activeLoop(FormName))
	return ActionResult{Events: events}
}

func (s *Server) resetForm(ctx context.Context, call *ActionCall) ActionResult {
	fs := s.decodeSlots(call)
	s.engine.Decide(ctx, domain.TurnInput{
		Slots:      s.state(fs),
		FormActive: call.Tracker.ActiveLoop.Name != "",
		Reset:      true,
	})
	return ActionResult{Events: resetEvents()}
}

func (s *Server) sessionStart(_ context.Context, call *ActionCall) ActionResult {
	if fs := s.decodeSlots(call); fs.Metadata != nil {
		s.logger.Info("Session started", "sender_id", call.SenderID, "metadata", fs.Metadata)
	}
	return ActionResult{
		Events: []Event{
			{Event: "session_started"},
			{Event: "action", Name: "action_listen"},
		},
		Responses: texts(prompts.SessionStarted),
	}
}

// -- Helpers --

func updateEvents(u domain.SlotUpdates) []Event {
	var events []Event
	for _, slot := range []domain.Slot{domain.SlotSource, domain.SlotDestination} {
		upd := u.Source
		if slot == domain.SlotDestination {
			upd = u.Destination
		}
		switch upd.Kind {
		case domain.UpdateSet:
			value := string(upd.Value)
			events = append(events, slotEvent(string(slot), &value))
		case domain.UpdateClear:
			events = append(events, slotEvent(string(slot), nil))
		}
	}
	return events
}

func resetEvents() []Event {
	return []Event{{Event: "reset_slots"}, activeLoop("")}
}

func texts(msgs ...string) []Response {
	out := make([]Response, len(msgs))
	for i, m := range msgs {
		out[i] = Response{Text: m}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
