/*
Package domain contains the core models of the flight booking form.

It defines the fixed city vocabulary, the two booking slots and the tagged
updates that change them, the form status machine states, and the per-turn
input/output contract exchanged with transports. This package is kept pure and
free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Vocabulary: immutable ordered set of recognized cities (case-insensitive lookup).
  - SlotState / SlotUpdates: the slots of one conversation and explicit set/clear/no-change changes.
  - Conversation: the persisted snapshot of one session (status, slots, turn count).
  - TurnInput / TurnOutput: what a transport hands the form and what it gets back.
*/
package domain
