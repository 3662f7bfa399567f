package wayfare_test

import (
	"context"
	"testing"

	"github.com/aretw0/wayfare"
	"github.com/aretw0/wayfare/internal/adapters/file"
	"github.com/aretw0/wayfare/pkg/domain"
	"github.com/aretw0/wayfare/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidCities(t *testing.T) {
	_, err := wayfare.New(wayfare.WithCities())
	assert.ErrorIs(t, err, domain.ErrInvalidVocabulary)

	_, err = wayfare.New(wayfare.WithCities("Paris", "paris"))
	assert.ErrorIs(t, err, domain.ErrDuplicateCity)
}

func TestEngine_SendPersistsConversation(t *testing.T) {
	eng, err := wayfare.New()
	require.NoError(t, err)
	ctx := context.Background()

	out, err := eng.Send(ctx, "c1", wayfare.Message{Utterance: "I want to fly from Dhaka"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingDestination, out.Status)

	conv, err := eng.Conversation(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.City("Dhaka"), conv.Slots.Source)
	assert.True(t, conv.FormActive())
	assert.Equal(t, 1, conv.Turns)

	out, err = eng.Send(ctx, "c1", wayfare.Message{Utterance: "dhaka"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingDestination, out.Status, "same city is rejected")

	out, err = eng.Send(ctx, "c1", wayfare.Message{Utterance: "London"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReadyToConfirm, out.Status)

	out, err = eng.Send(ctx, "c1", wayfare.Message{Utterance: "no thanks"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, out.Status)
	assert.Equal(t, []string{"Booking cancelled."}, out.Messages)

	conv, err = eng.Conversation(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, conv.Slots.Empty())
	assert.False(t, conv.FormActive())
}

func TestEngine_ExplicitIntentWins(t *testing.T) {
	eng, err := wayfare.New()
	require.NoError(t, err)
	ctx := context.Background()

	_, err = eng.Send(ctx, "c1", wayfare.Message{Utterance: "from Tokyo to Paris"})
	require.NoError(t, err)

	out, err := eng.Send(ctx, "c1", wayfare.Message{Utterance: "no", Intent: "affirm"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, out.Status)
}

func TestEngine_EntitiesOverrideUtterance(t *testing.T) {
	eng, err := wayfare.New()
	require.NoError(t, err)
	ctx := context.Background()

	_, err = eng.Send(ctx, "c1", wayfare.Message{Utterance: "book"})
	require.NoError(t, err)

	out, err := eng.Send(ctx, "c1", wayfare.Message{
		Utterance: "the usual please",
		Entities:  domain.SlotValues{Source: "mumbai"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingDestination, out.Status)

	conv, err := eng.Conversation(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.City("Mumbai"), conv.Slots.Source)
}

func TestEngine_Reset(t *testing.T) {
	eng, err := wayfare.New()
	require.NoError(t, err)
	ctx := context.Background()

	_, err = eng.Send(ctx, "c1", wayfare.Message{Utterance: "from Dhaka to Paris"})
	require.NoError(t, err)

	out, err := eng.Reset(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, out.Reset)
	assert.False(t, out.FormActive)
	assert.Equal(t, domain.StatusIdle, out.Status)

	conv, err := eng.Conversation(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, conv.Slots.Empty())
	assert.Equal(t, domain.StatusIdle, conv.Status)
}

func TestEngine_OpenListDelete(t *testing.T) {
	eng, err := wayfare.New(wayfare.WithStore(file.New(t.TempDir())))
	require.NoError(t, err)
	ctx := context.Background()

	conv, err := eng.Open(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, domain.StatusIdle, conv.Status)

	named, err := eng.Open(ctx, "named")
	require.NoError(t, err)
	assert.Equal(t, "named", named.ID)

	ids, err := eng.Conversations(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{conv.ID, "named"}, ids)

	require.NoError(t, eng.Delete(ctx, "named"))
	_, err = eng.Conversation(ctx, "named")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestEngine_EmptyConversationID(t *testing.T) {
	eng, err := wayfare.New()
	require.NoError(t, err)

	_, err = eng.Send(context.Background(), "", wayfare.Message{Utterance: "hi"})
	assert.ErrorIs(t, err, domain.ErrEmptyConversationID)
}

func TestEngine_Infer(t *testing.T) {
	eng, err := wayfare.New()
	require.NoError(t, err)

	report := eng.Infer("to Paris from London", domain.SlotState{})
	assert.Equal(t, domain.Inference{Source: "London", Destination: "Paris"}, report.Inference)
	assert.Len(t, report.Mentions, 2)
}

func TestEngine_MetricsAndHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	var transitions []domain.TransitionEvent
	eng, err := wayfare.New(
		wayfare.WithMetrics(observability.NewMetrics(reg)),
		wayfare.WithLifecycleHooks(domain.LifecycleHooks{
			OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
				transitions = append(transitions, *e)
			},
		}),
	)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = eng.Send(ctx, "m1", wayfare.Message{Utterance: "from Dhaka to Paris"})
	require.NoError(t, err)
	_, err = eng.Send(ctx, "m1", wayfare.Message{Utterance: "yes"})
	require.NoError(t, err)

	require.Len(t, transitions, 2)
	assert.Equal(t, "m1", transitions[0].ConversationID)
	assert.Equal(t, domain.StatusReadyToConfirm, transitions[0].To)
	assert.Equal(t, domain.StatusCompleted, transitions[1].To)

	n, err := testutil.GatherAndCount(reg, "wayfare_bookings_total", "wayfare_turns_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n, "one booking series and two turn status series")
}
