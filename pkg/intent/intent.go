// Package intent provides a keyword classifier for confirmation turns, used
// when the transport does not supply an intent tag of its own.
package intent

import (
	"strings"

	"github.com/aretw0/wayfare/pkg/domain"
)

var (
	affirmative = []string{"yes", "y", "yeah", "yep", "sure", "ok", "okay", "confirm", "book it", "proceed"}
	negative    = []string{"no", "n", "nope", "cancel", "stop", "don't", "do not"}
)

// Classify maps an utterance to affirm, deny, or other. Matching is on whole
// normalized words or phrases, negatives first so "no, don't book it" denies.
func Classify(utterance string) domain.Intent {
	text := " " + normalize(utterance) + " "
	if text == "  " {
		return domain.IntentOther
	}
	if containsPhrase(text, negative) {
		return domain.IntentDeny
	}
	if containsPhrase(text, affirmative) {
		return domain.IntentAffirm
	}
	return domain.IntentOther
}

// Resolve returns the explicit tag when present, otherwise classifies the utterance.
func Resolve(tag, utterance string) domain.Intent {
	if strings.TrimSpace(tag) != "" {
		return domain.ParseIntent(tag)
	}
	return Classify(utterance)
}

func containsPhrase(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, " "+p+" ") {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?', ';', ':':
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
