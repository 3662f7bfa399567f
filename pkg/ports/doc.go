/*
Package ports defines the driven ports (interfaces) of the booking service.

These interfaces decouple the form controller and session manager from external
implementations, so conversations can live in memory, on disk, or in Redis.

# Key Interfaces

  - ConversationStore: persists and loads per-conversation state.
  - DistributedLocker: serializes turns of one conversation across replicas.
*/
package ports
