package domain

import "errors"

// ErrConversationNotFound is returned when a conversation ID cannot be found in the store.
var ErrConversationNotFound = errors.New("conversation not found")

// ErrEmptyConversationID is returned when an operation requires a conversation ID and none was given.
var ErrEmptyConversationID = errors.New("conversation id cannot be empty")

// ErrInvalidVocabulary is returned when a vocabulary cannot be built from its names.
var ErrInvalidVocabulary = errors.New("invalid vocabulary")

// ErrDuplicateCity is returned when a vocabulary lists the same city twice.
var ErrDuplicateCity = errors.New("duplicate city in vocabulary")
