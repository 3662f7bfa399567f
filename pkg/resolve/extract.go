package resolve

import (
	"sort"
	"strings"

	"github.com/aretw0/wayfare/pkg/domain"
)

// Extractor scans messages for vocabulary cities.
type Extractor struct {
	vocab domain.Vocabulary
}

// NewExtractor creates an extractor bound to a vocabulary.
func NewExtractor(vocab domain.Vocabulary) *Extractor {
	return &Extractor{vocab: vocab}
}

// Mentions returns each city found in the message once, at its first
// occurrence, sorted by offset. Equal offsets keep vocabulary order.
func (e *Extractor) Mentions(message string) []domain.Mention {
	return e.mentionsLower(strings.ToLower(message))
}

func (e *Extractor) mentionsLower(lower string) []domain.Mention {
	var mentions []domain.Mention
	for _, city := range e.vocab.Cities() {
		if idx := strings.Index(lower, strings.ToLower(string(city))); idx >= 0 {
			mentions = append(mentions, domain.Mention{City: city, Offset: idx})
		}
	}
	sort.SliceStable(mentions, func(i, j int) bool {
		return mentions[i].Offset < mentions[j].Offset
	})
	return mentions
}
