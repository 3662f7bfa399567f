package rasa

import "encoding/json"

// Action names served by this package.
const (
	ActionAskSource       = "action_ask_source"
	ActionAskDestination  = "action_ask_destination"
	ActionValidateForm    = "validate_flight_booking_form"
	ActionSubmitFlight    = "action_submit_flight"
	ActionCheckFormStart  = "action_check_flight_form_start"
	ActionResetFlightForm = "action_reset_flight_form"
	ActionSessionStart    = "action_session_start"
)

// FormName is the active loop started by ActionCheckFormStart.
const FormName = "flight_booking_form"

// ActionCall is the body Rasa posts to the action server.
type ActionCall struct {
	NextAction string         `json:"next_action"`
	SenderID   string         `json:"sender_id"`
	Tracker    Tracker        `json:"tracker"`
	Domain     map[string]any `json:"domain,omitempty"`
	Version    string         `json:"version,omitempty"`
}

// Tracker is the subset of the Rasa tracker the form reads.
type Tracker struct {
	SenderID      string         `json:"sender_id"`
	Slots         map[string]any `json:"slots"`
	LatestMessage LatestMessage  `json:"latest_message"`
	ActiveLoop    ActiveLoop     `json:"active_loop"`
}

// LatestMessage is the last user message with its NLU parse.
type LatestMessage struct {
	Text     string   `json:"text"`
	Intent   Intent   `json:"intent"`
	Entities []Entity `json:"entities,omitempty"`
}

type Intent struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence,omitempty"`
}

type Entity struct {
	Entity string `json:"entity"`
	Value  any    `json:"value"`
}

type ActiveLoop struct {
	Name string `json:"name,omitempty"`
}

// Event is a tracker event returned to Rasa.
type Event struct {
	Event string
	// Name is the slot, loop or action name. An empty loop name deactivates the form.
	Name string
	// Value is the slot value; nil resets the slot.
	Value *string
}

// MarshalJSON writes the Rasa event shape for the event kind.
func (e Event) MarshalJSON() ([]byte, error) {
	out := map[string]any{"event": e.Event}
	switch e.Event {
	case "slot":
		out["name"] = e.Name
		if e.Value != nil {
			out["value"] = *e.Value
		} else {
			out["value"] = nil
		}
	case "active_loop":
		if e.Name != "" {
			out["name"] = e.Name
		} else {
			out["name"] = nil
		}
	case "action":
		out["name"] = e.Name
	}
	return json.Marshal(out)
}

// Response is one bot message.
type Response struct {
	Text string `json:"text"`
}

// ActionResult is the body returned to Rasa.
type ActionResult struct {
	Events    []Event    `json:"events"`
	Responses []Response `json:"responses"`
}

// ActionError is returned with 404 for unknown actions.
type ActionError struct {
	Error      string `json:"error"`
	ActionName string `json:"action_name"`
}

func slotEvent(name string, value *string) Event {
	return Event{Event: "slot", Name: name, Value: value}
}

func activeLoop(name string) Event {
	return Event{Event: "active_loop", Name: name}
}
