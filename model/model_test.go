package model

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, ch <-chan Chunk, errCh <-chan error) ([]Chunk, error) {
	t.Helper()
	var chunks []Chunk
	for chunk := range ch {
		chunks = append(chunks, chunk)
	}
	return chunks, <-errCh
}

func TestMockModelStreamsScriptedText(t *testing.T) {
	m := NewMockModel("test").AddTextTurn("hello")

	ch, errCh := m.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Text: "hi"}},
		Stream:   true,
	})

	chunks, err := drain(t, ch, errCh)
	require.NoError(t, err)

	var deltas strings.Builder
	for _, chunk := range chunks[:len(chunks)-1] {
		assert.True(t, chunk.Partial)
		deltas.WriteString(chunk.TextDelta)
	}
	assert.Equal(t, "hello", deltas.String())

	final := chunks[len(chunks)-1]
	assert.False(t, final.Partial)
	assert.Equal(t, "hello", final.Text)
	assert.Equal(t, "stop", final.FinishReason)
}

func TestMockModelToolTurnThenText(t *testing.T) {
	m := NewMockModel("test").
		AddToolTurn(ToolCall{ID: "tc-1", Name: "calculator", Arguments: `{"a":1}`}).
		AddTextTurn(`{"done":true}`)

	ch, errCh := m.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Text: "go"}}})
	chunks, err := drain(t, ch, errCh)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.Len(t, chunks[0].ToolCalls, 1)
	assert.Equal(t, "calculator", chunks[0].ToolCalls[0].Name)

	ch, errCh = m.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Text: "go"}}})
	chunks, err = drain(t, ch, errCh)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, `{"done":true}`, chunks[0].Text)
}

func TestMockModelExhaustedTurns(t *testing.T) {
	m := NewMockModel("test")

	ch, errCh := m.Generate(context.Background(), Request{})
	_, err := drain(t, ch, errCh)
	assert.Error(t, err)
}
