// Package prompts holds the user-facing texts of the booking flow.
package prompts

import (
	"fmt"

	"github.com/aretw0/wayfare/pkg/domain"
)

// Fixed messages of the booking flow.
const (
	// SameCity rejects a destination equal to the source.
	SameCity = "Source and destination cannot be the same city. Please choose a different destination."

	// SameCitySource rejects a source equal to the destination already chosen.
	SameCitySource = "Source and destination cannot be the same city. Please choose a different source."

	// InvalidState ends a form whose slots fail the confirmation re-check.
	InvalidState = "Sorry, invalid city detected. Let's start over."

	Cancelled         = "Booking cancelled."
	SessionStarted    = "Session started."
	SelectSource      = "Please select a valid source city."
	SelectDestination = "Please select a valid destination city."
)

// AskSource lists every city.
func AskSource(vocab domain.Vocabulary) string {
	return "Which city would you like to fly from? Available cities: " + domain.JoinCities(vocab.Cities())
}

// AskDestination lists every city except the current source.
func AskDestination(vocab domain.Vocabulary, source domain.City) string {
	return "Which city would you like to fly to? Available cities: " + domain.JoinCities(vocab.Without(source))
}

// InvalidSource rejects a source outside the vocabulary and lists every city.
func InvalidSource(value string, vocab domain.Vocabulary) string {
	return fmt.Sprintf("Sorry, '%s' is not a valid city. Please choose from: %s", value, domain.JoinCities(vocab.Cities()))
}

// InvalidDestination rejects a destination and lists the cities still available.
func InvalidDestination(value string, available []domain.City) string {
	return fmt.Sprintf("Sorry, '%s' is not a valid destination. Please choose from: %s", value, domain.JoinCities(available))
}

// Confirm asks the user to approve the route.
func Confirm(slots domain.SlotState) string {
	return fmt.Sprintf("I've found flights from %s to %s. Would you like to proceed with booking? (Yes/No)", slots.Source, slots.Destination)
}

// Booked confirms a completed booking.
func Booked(slots domain.SlotState) string {
	return fmt.Sprintf("Your flight from %s to %s has been booked successfully!", slots.Source, slots.Destination)
}
