/*
Package session serializes access to booking conversations.

A Manager wraps a ConversationStore with per-conversation locks so that the
load, decide and save steps of one turn never interleave with another turn
of the same conversation. With a DistributedLocker configured the guarantee
extends across replicas sharing a store.
*/
package session
