package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Slot names a piece of conversation state the booking form collects.
type Slot string

const (
	SlotSource      Slot = "source"
	SlotDestination Slot = "destination"
)

// SlotState holds the two booking slots of one conversation.
// An empty City means the slot is unset.
type SlotState struct {
	Source      City `json:"source,omitempty"`
	Destination City `json:"destination,omitempty"`
}

// Complete reports whether both slots are set.
func (s SlotState) Complete() bool {
	return !s.Source.IsZero() && !s.Destination.IsZero()
}

// Empty reports whether neither slot is set.
func (s SlotState) Empty() bool {
	return s.Source.IsZero() && s.Destination.IsZero()
}

// Get returns the value of the named slot.
func (s SlotState) Get(slot Slot) City {
	if slot == SlotDestination {
		return s.Destination
	}
	return s.Source
}

// UpdateKind tags what a SlotUpdate does to its slot.
type UpdateKind int

const (
	UpdateNone  UpdateKind = iota // leave the slot untouched
	UpdateSet                     // assign Value
	UpdateClear                   // unset the slot
)

// SlotUpdate is a single-slot change. The zero value means "no change".
type SlotUpdate struct {
	Kind  UpdateKind
	Value City
}

// Set returns an update assigning the city.
func Set(c City) SlotUpdate {
	return SlotUpdate{Kind: UpdateSet, Value: c}
}

// Clear returns an update unsetting the slot.
func Clear() SlotUpdate {
	return SlotUpdate{Kind: UpdateClear}
}

// Apply returns the slot value after the update.
func (u SlotUpdate) Apply(current City) City {
	switch u.Kind {
	case UpdateSet:
		return u.Value
	case UpdateClear:
		return ""
	default:
		return current
	}
}

// SlotUpdates carries per-slot changes produced by one turn.
//
// On the wire an absent key means no change, null clears, and a string sets.
type SlotUpdates struct {
	Source      SlotUpdate
	Destination SlotUpdate
}

// ClearAll returns updates that unset both slots.
func ClearAll() SlotUpdates {
	return SlotUpdates{Source: Clear(), Destination: Clear()}
}

// IsZero reports whether no slot changes.
func (u SlotUpdates) IsZero() bool {
	return u.Source.Kind == UpdateNone && u.Destination.Kind == UpdateNone
}

// Apply returns the state after the updates.
func (u SlotUpdates) Apply(s SlotState) SlotState {
	return SlotState{
		Source:      u.Source.Apply(s.Source),
		Destination: u.Destination.Apply(s.Destination),
	}
}

func (u SlotUpdates) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, f := range []struct {
		slot   Slot
		update SlotUpdate
	}{{SlotSource, u.Source}, {SlotDestination, u.Destination}} {
		if f.update.Kind == UpdateNone {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		fmt.Fprintf(&buf, "%q:", f.slot)
		if f.update.Kind == UpdateClear {
			buf.WriteString("null")
			continue
		}
		val, err := json.Marshal(string(f.update.Value))
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (u *SlotUpdates) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = SlotUpdates{}
	for key, val := range raw {
		var update SlotUpdate
		if bytes.Equal(bytes.TrimSpace(val), []byte("null")) {
			update = Clear()
		} else {
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return fmt.Errorf("slot %q: %w", key, err)
			}
			update = Set(City(s))
		}
		switch Slot(key) {
		case SlotSource:
			u.Source = update
		case SlotDestination:
			u.Destination = update
		}
	}
	return nil
}

// Mention is a vocabulary city found in one message, at its first byte offset
// in the lowercased message.
type Mention struct {
	City   City `json:"city"`
	Offset int  `json:"offset"`
}

// Inference is a proposed role assignment, not yet validated.
// Either field may be unset.
type Inference struct {
	Source      City `json:"source,omitempty"`
	Destination City `json:"destination,omitempty"`
}
