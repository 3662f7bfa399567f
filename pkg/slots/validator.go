// Package slots validates the source and destination slots of the booking form.
//
// A stated value is accepted when it names a vocabulary city. Otherwise the
// latest utterance is run through role inference as a fallback, and if that
// fails too the slot is cleared and the user is told which cities are valid.
// Rejections are values, never errors.
package slots

import (
	"strings"

	"github.com/aretw0/wayfare/pkg/domain"
	"github.com/aretw0/wayfare/pkg/prompts"
	"github.com/aretw0/wayfare/pkg/resolve"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rejection describes a refused slot value.
type Rejection struct {
	Slot   domain.Slot
	Value  string
	Reason domain.RejectionReason
}

// Validation is the outcome of validating one slot.
type Validation struct {
	Updates   domain.SlotUpdates
	Messages  []string
	Rejection *Rejection
}

// Accepted reports whether the slot was filled.
func (v Validation) Accepted() bool {
	return v.Rejection == nil
}

// Validator applies the slot rules against a vocabulary.
type Validator struct {
	vocab      domain.Vocabulary
	inferencer *resolve.Inferencer
}

// NewValidator creates a validator over the vocabulary.
func NewValidator(vocab domain.Vocabulary) *Validator {
	return &Validator{
		vocab:      vocab,
		inferencer: resolve.NewInferencer(vocab),
	}
}

// Canonicalize trims a stated value and title-cases it the way cities are displayed.
func Canonicalize(stated string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(stated))
}

// ValidateSource checks the stated source, falling back to inference over the
// utterance. A source equal to the destination already chosen is rejected.
func (v *Validator) ValidateSource(stated, utterance string, current domain.SlotState) Validation {
	value := Canonicalize(stated)
	dest := current.Destination
	if city, ok := v.vocab.Lookup(value); ok {
		if !dest.IsZero() && city.Equal(dest) {
			return Validation{
				Updates:   domain.SlotUpdates{Source: domain.Clear()},
				Messages:  []string{prompts.SameCitySource},
				Rejection: &Rejection{Slot: domain.SlotSource, Value: value, Reason: domain.ReasonSameCity},
			}
		}
		return Validation{Updates: domain.SlotUpdates{Source: domain.Set(city)}}
	}

	inferred := v.inferencer.Infer(resolve.Normalize(utterance), current)
	if source, ok := v.vocab.Lookup(string(inferred.Source)); ok && (dest.IsZero() || !source.Equal(dest)) {
		updates := domain.SlotUpdates{Source: domain.Set(source)}
		if to, ok := v.vocab.Lookup(string(inferred.Destination)); ok && !to.Equal(source) {
			updates.Destination = domain.Set(to)
		}
		return Validation{Updates: updates}
	}

	return Validation{
		Updates: domain.SlotUpdates{Source: domain.Clear()},
		Messages: []string{
			prompts.InvalidSource(value, v.vocab),
			prompts.SelectSource,
		},
		Rejection: &Rejection{Slot: domain.SlotSource, Value: value, Reason: domain.ReasonUnknownCity},
	}
}

// ValidateDestination checks the stated destination against the vocabulary
// minus the current source, falling back to inference over the utterance.
func (v *Validator) ValidateDestination(stated, utterance string, current domain.SlotState) Validation {
	value := Canonicalize(stated)
	source := current.Source

	if city, ok := v.vocab.Lookup(value); ok {
		if !source.IsZero() && city.Equal(source) {
			return Validation{
				Updates:   domain.SlotUpdates{Destination: domain.Clear()},
				Messages:  []string{prompts.SameCity},
				Rejection: &Rejection{Slot: domain.SlotDestination, Value: value, Reason: domain.ReasonSameCity},
			}
		}
		return Validation{Updates: domain.SlotUpdates{Destination: domain.Set(city)}}
	}

	inferred := v.inferencer.Infer(resolve.Normalize(utterance), current)
	switch {
	case !source.IsZero() && current.Destination.IsZero():
		if dest, ok := v.vocab.Lookup(string(inferred.Destination)); ok && !dest.Equal(source) {
			return Validation{Updates: domain.SlotUpdates{Destination: domain.Set(dest)}}
		}
	case current.Empty():
		src, srcOK := v.vocab.Lookup(string(inferred.Source))
		dest, destOK := v.vocab.Lookup(string(inferred.Destination))
		if srcOK && destOK && !src.Equal(dest) {
			return Validation{Updates: domain.SlotUpdates{Source: domain.Set(src), Destination: domain.Set(dest)}}
		}
	}

	return Validation{
		Updates: domain.SlotUpdates{Destination: domain.Clear()},
		Messages: []string{
			prompts.InvalidDestination(value, v.vocab.Without(source)),
			prompts.SelectDestination,
		},
		Rejection: &Rejection{Slot: domain.SlotDestination, Value: value, Reason: domain.ReasonUnknownCity},
	}
}
