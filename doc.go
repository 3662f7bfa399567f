/*
Package wayfare is a slot-filling engine for a two-slot flight booking
conversation: it collects a source and a destination city from a fixed
vocabulary, validates each answer, infers roles from free text, and asks for
confirmation before booking.

# Concept

The core is deterministic. Given the same turn input, the decision is always
the same: which slot updates to apply, which messages to send, and whether the
form stays active. The Engine never performs I/O on the user's behalf; the
host (HTTP server, Rasa action webhook, MCP tool, CLI) delivers the messages.

Two ways of driving it are supported:

  - Stateless: the transport keeps the slots and the form_active flag and
    echoes them back on every call to Decide.
  - Stateful: Send loads the conversation from a ConversationStore, decides,
    and saves the outcome under a per-conversation lock.

# Usage

	eng, err := wayfare.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	for _, utterance := range []string{"book a flight", "Dhaka", "Paris", "yes"} {
		out, err := eng.Send(ctx, "conversation-1", wayfare.Message{Utterance: utterance})
		if err != nil {
			log.Fatal(err)
		}
		for _, msg := range out.Messages {
			fmt.Println(msg)
		}
	}
*/
package wayfare
