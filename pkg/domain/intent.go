package domain

import "strings"

// Intent is the external classification of the latest utterance, as far as
// confirmation is concerned.
type Intent string

const (
	IntentAffirm Intent = "affirm"
	IntentDeny   Intent = "deny"
	IntentOther  Intent = "other"
)

// ParseIntent maps a classifier tag to an Intent. Unknown or empty tags are IntentOther.
func ParseIntent(tag string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(tag))) {
	case IntentAffirm:
		return IntentAffirm
	case IntentDeny:
		return IntentDeny
	default:
		return IntentOther
	}
}
