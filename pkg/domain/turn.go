package domain

// SlotValues carries raw slot values as stated by the user or an NLU extractor.
type SlotValues struct {
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`
}

// Get returns the stated value for the named slot.
func (v SlotValues) Get(slot Slot) string {
	if slot == SlotDestination {
		return v.Destination
	}
	return v.Source
}

// TurnInput is everything the form needs to decide one turn.
type TurnInput struct {
	Utterance string    `json:"utterance"`
	Intent    Intent    `json:"intent,omitempty"`
	Slots     SlotState `json:"current_slots"`

	// FormActive echoes the form_active flag of the previous output.
	FormActive bool `json:"form_active"`

	// Reset forces the conversation back to idle.
	Reset bool `json:"reset,omitempty"`

	// Entities holds slot values extracted upstream. When the requested slot has
	// no entity, the utterance itself is treated as the stated value.
	Entities SlotValues `json:"entities,omitempty"`
}

// TurnOutput is the decision for one turn. Messages are ordered and must be
// emitted in that order by the caller.
type TurnOutput struct {
	Updates    SlotUpdates `json:"slot_updates"`
	Messages   []string    `json:"messages"`
	FormActive bool        `json:"form_active"`
	Reset      bool        `json:"reset"`
	Status     FormStatus  `json:"status"`
}
