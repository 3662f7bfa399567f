package slots_test

import (
	"testing"

	"github.com/aretw0/wayfare/pkg/domain"
	"github.com/aretw0/wayfare/pkg/prompts"
	"github.com/aretw0/wayfare/pkg/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *slots.Validator {
	return slots.NewValidator(domain.DefaultVocabulary())
}

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, "New York", slots.Canonicalize("  new york "))
	assert.Equal(t, "Dhaka", slots.Canonicalize("DHAKA"))
	assert.Equal(t, "", slots.Canonicalize(""))
}

func TestValidateSource_StatedCity(t *testing.T) {
	v := newValidator().ValidateSource("  tokyo", "whatever", domain.SlotState{})

	require.True(t, v.Accepted())
	assert.Equal(t, domain.SlotUpdates{Source: domain.Set("Tokyo")}, v.Updates)
	assert.Empty(t, v.Messages)
}

func TestValidateSource_InfersFromUtterance(t *testing.T) {
	v := newValidator().ValidateSource("", "I want to fly from Dhaka to London", domain.SlotState{})

	require.True(t, v.Accepted())
	assert.Equal(t, domain.Set("Dhaka"), v.Updates.Source)
	assert.Equal(t, domain.Set("London"), v.Updates.Destination)
}

func TestValidateSource_InferredSourceOnly(t *testing.T) {
	v := newValidator().ValidateSource("somewhere", "leaving from paris", domain.SlotState{})

	require.True(t, v.Accepted())
	assert.Equal(t, domain.SlotUpdates{Source: domain.Set("Paris")}, v.Updates)
}

func TestValidateSource_Rejects(t *testing.T) {
	v := newValidator().ValidateSource("berlin", "berlin", domain.SlotState{})

	require.False(t, v.Accepted())
	assert.Equal(t, domain.ReasonUnknownCity, v.Rejection.Reason)
	assert.Equal(t, domain.Clear(), v.Updates.Source)
	assert.Equal(t, domain.UpdateNone, v.Updates.Destination.Kind)
	assert.Equal(t, []string{
		"Sorry, 'Berlin' is not a valid city. Please choose from: Dhaka, New York, London, Tokyo, Dubai, Mumbai, Paris, Khulna, Rajshahi",
		"Please select a valid source city.",
	}, v.Messages)
}

func TestValidateSource_SameAsDestination(t *testing.T) {
	v := newValidator().ValidateSource("paris", "paris", domain.SlotState{Destination: "Paris"})

	require.False(t, v.Accepted())
	assert.Equal(t, domain.SlotSource, v.Rejection.Slot)
	assert.Equal(t, domain.ReasonSameCity, v.Rejection.Reason)
	assert.Equal(t, []string{prompts.SameCitySource}, v.Messages)
	assert.Equal(t, domain.Clear(), v.Updates.Source)
	assert.Equal(t, domain.SlotUpdate{}, v.Updates.Destination)
}

func TestValidateDestination_StatedCity(t *testing.T) {
	v := newValidator().ValidateDestination("london", "london", domain.SlotState{Source: "Tokyo"})

	require.True(t, v.Accepted())
	assert.Equal(t, domain.SlotUpdates{Destination: domain.Set("London")}, v.Updates)
}

func TestValidateDestination_SameAsSource(t *testing.T) {
	v := newValidator().ValidateDestination("Tokyo", "to tokyo please", domain.SlotState{Source: "tokyo"})

	require.False(t, v.Accepted())
	assert.Equal(t, domain.ReasonSameCity, v.Rejection.Reason)
	assert.Equal(t, []string{prompts.SameCity}, v.Messages)
	assert.Equal(t, domain.Clear(), v.Updates.Destination)
}

func TestValidateDestination_InfersMissingDestination(t *testing.T) {
	v := newValidator().ValidateDestination("I'd like London", "I'd like London", domain.SlotState{Source: "Tokyo"})

	require.True(t, v.Accepted())
	assert.Equal(t, domain.SlotUpdates{Destination: domain.Set("London")}, v.Updates)
}

func TestValidateDestination_InfersPairWhenEmpty(t *testing.T) {
	v := newValidator().ValidateDestination("", "Mumbai to Dubai", domain.SlotState{})

	require.True(t, v.Accepted())
	assert.Equal(t, domain.Set("Mumbai"), v.Updates.Source)
	assert.Equal(t, domain.Set("Dubai"), v.Updates.Destination)
}

func TestValidateDestination_RejectsUnknownListingNonSourceCities(t *testing.T) {
	v := newValidator().ValidateDestination("Berlin", "Berlin", domain.SlotState{Source: "Dhaka"})

	require.False(t, v.Accepted())
	assert.Equal(t, domain.ReasonUnknownCity, v.Rejection.Reason)
	assert.Equal(t, []string{
		"Sorry, 'Berlin' is not a valid destination. Please choose from: New York, London, Tokyo, Dubai, Mumbai, Paris, Khulna, Rajshahi",
		"Please select a valid destination city.",
	}, v.Messages)
}

func TestValidateDestination_InferenceOnlyFindsSource(t *testing.T) {
	v := newValidator().ValidateDestination("", "back to dhaka", domain.SlotState{Source: "Dhaka"})

	assert.False(t, v.Accepted())
	assert.Equal(t, domain.Clear(), v.Updates.Destination)
}
