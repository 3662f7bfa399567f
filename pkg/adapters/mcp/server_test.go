package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/wayfare"
	"github.com/aretw0/wayfare/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	eng, err := wayfare.New()
	require.NoError(t, err)
	return NewServer(eng)
}

func TestHandleInfer(t *testing.T) {
	s := newServer(t)

	report, err := s.handleInfer(context.Background(), mcp.CallToolRequest{}, inferArgs{Message: "Paris to Tokyo", Source: "Paris"})
	require.NoError(t, err)
	assert.Equal(t, domain.Inference{Source: "Paris", Destination: "Tokyo"}, report.Inference)
}

func TestHandleSendAndReset(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	out, err := s.handleSend(ctx, mcp.CallToolRequest{}, sendArgs{ConversationID: "agent-1", Utterance: "from Dhaka to London"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReadyToConfirm, out.Status)

	conv, err := s.handleGet(ctx, mcp.CallToolRequest{}, conversationArgs{ConversationID: "agent-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.SlotState{Source: "Dhaka", Destination: "London"}, conv.Slots)

	out, err = s.handleSend(ctx, mcp.CallToolRequest{}, sendArgs{ConversationID: "agent-1", Utterance: "sure", Intent: "affirm"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, out.Status)
	assert.Equal(t, []string{"Your flight from Dhaka to London has been booked successfully!"}, out.Messages)

	out, err = s.handleReset(ctx, mcp.CallToolRequest{}, conversationArgs{ConversationID: "agent-1"})
	require.NoError(t, err)
	assert.True(t, out.Reset)
}

func TestHandlers_RequireConversationID(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	_, err := s.handleSend(ctx, mcp.CallToolRequest{}, sendArgs{Utterance: "hi"})
	assert.ErrorIs(t, err, domain.ErrEmptyConversationID)

	_, err = s.handleReset(ctx, mcp.CallToolRequest{}, conversationArgs{})
	assert.ErrorIs(t, err, domain.ErrEmptyConversationID)

	_, err = s.handleGet(ctx, mcp.CallToolRequest{}, conversationArgs{ConversationID: "missing"})
	assert.ErrorContains(t, err, "not found")
}
