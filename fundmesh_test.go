package fundmesh

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fundmesh/core"
)

type chainInvoker struct {
	failAt core.Stage
}

func (c *chainInvoker) Invoke(_ context.Context, stage core.Stage, _ any, sink func(core.Event)) (string, error) {
	if stage == c.failAt {
		return "", fmt.Errorf("unreachable")
	}

	result := fmt.Sprintf(`{"stage": "%s"}`, stage)
	sink(core.NewStreamingCompleteEvent(result))

	return result, nil
}

func TestConsultSync(t *testing.T) {
	t.Run("collects the full event stream", func(t *testing.T) {
		mesh := New(&chainInvoker{})

		id, events, err := mesh.ConsultSync(context.Background(), map[string]any{"age": 34}, "")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(id, "session_"))
		// 3 stages x (node_start, streaming_complete, node_complete)
		assert.Len(t, events, 9)

		last := events[len(events)-1]
		assert.Equal(t, core.EventNodeComplete, last.Type)
		assert.Equal(t, `{"stage": "risk"}`, last.Result)
	})

	t.Run("returns the stage error", func(t *testing.T) {
		mesh := New(&chainInvoker{failAt: core.StageRisk})

		_, events, err := mesh.ConsultSync(context.Background(), map[string]any{"age": 34}, "session_20250301_090000")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "risk stage failed")
		assert.NotEmpty(t, events)
	})
}
