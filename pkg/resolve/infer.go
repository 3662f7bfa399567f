package resolve

import (
	"strings"

	"github.com/aretw0/wayfare/pkg/domain"
)

const (
	anchorFrom = "from "
	anchorTo   = "to "
)

// Inferencer assigns source and destination roles to the cities of a message.
type Inferencer struct {
	extractor *Extractor
}

// NewInferencer creates an inferencer over the vocabulary.
func NewInferencer(vocab domain.Vocabulary) *Inferencer {
	return &Inferencer{extractor: NewExtractor(vocab)}
}

// Infer proposes roles for the cities in message given the slots already known.
//
// With only the destination missing, the known source is echoed back and the
// destination is picked among the other mentions; symmetrically for a missing
// source. With both missing, "from "/"to " anchors decide, falling back to
// mention order. With both known there is nothing to infer.
func (in *Inferencer) Infer(message string, known domain.SlotState) domain.Inference {
	lower := strings.ToLower(Normalize(message))
	mentions := in.extractor.mentionsLower(lower)
	if len(mentions) == 0 {
		return domain.Inference{}
	}

	switch {
	case known.Complete():
		return domain.Inference{}
	case !known.Source.IsZero():
		return domain.Inference{
			Source:      known.Source,
			Destination: pickOther(mentions, known.Source, strings.Index(lower, anchorTo)),
		}
	case !known.Destination.IsZero():
		return domain.Inference{
			Source:      pickOther(mentions, known.Destination, strings.Index(lower, anchorFrom)),
			Destination: known.Destination,
		}
	}
	return inferBoth(mentions, strings.Index(lower, anchorFrom), strings.Index(lower, anchorTo))
}

// pickOther selects one mention that is not the excluded city. A single
// candidate wins outright; among several, the first one after the anchor wins,
// else the first one.
func pickOther(mentions []domain.Mention, exclude domain.City, anchor int) domain.City {
	candidates := make([]domain.Mention, 0, len(mentions))
	for _, m := range mentions {
		if !m.City.Equal(exclude) {
			candidates = append(candidates, m)
		}
	}
	switch len(candidates) {
	case 0:
		return ""
	case 1:
		return candidates[0].City
	}
	if anchor >= 0 {
		for _, m := range candidates {
			if m.Offset > anchor {
				return m.City
			}
		}
	}
	return candidates[0].City
}

func inferBoth(mentions []domain.Mention, from, to int) domain.Inference {
	if from >= 0 && to >= 0 {
		source := firstAfter(mentions, from)
		dest := firstAfter(mentions, to)
		if !source.IsZero() && !dest.IsZero() && !source.Equal(dest) {
			return domain.Inference{Source: source, Destination: dest}
		}
	}
	switch {
	case len(mentions) >= 2:
		return domain.Inference{Source: mentions[0].City, Destination: mentions[1].City}
	case len(mentions) == 1:
		return domain.Inference{Source: mentions[0].City}
	}
	return domain.Inference{}
}

// firstAfter returns the earliest mention strictly after the anchor offset.
// Mentions are sorted by offset, so the first match is the minimal one.
func firstAfter(mentions []domain.Mention, anchor int) domain.City {
	for _, m := range mentions {
		if m.Offset > anchor {
			return m.City
		}
	}
	return ""
}

// Report explains an inference: the normalized message, every mention found
// and the roles assigned.
type Report struct {
	Normalized string           `json:"normalized"`
	Mentions   []domain.Mention `json:"mentions"`
	Inference  domain.Inference `json:"inference"`
}

// Report runs Infer and returns the intermediate steps alongside the result.
func (in *Inferencer) Report(message string, known domain.SlotState) Report {
	normalized := Normalize(message)
	mentions := in.extractor.mentionsLower(strings.ToLower(normalized))
	if mentions == nil {
		mentions = []domain.Mention{}
	}
	return Report{
		Normalized: normalized,
		Mentions:   mentions,
		Inference:  in.Infer(message, known),
	}
}
