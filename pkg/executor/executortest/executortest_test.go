package executortest

import (
	"testing"
	"untangle/pkg/executor"
	"untangle/pkg/util/context"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMock(t *testing.T) {
	m := &Mock{}
	m.On("Invoke", "summarizer").Return(map[string]interface{}{"ok": true}, nil).Once()

	out, err := m.Invoke(context.Background(), executor.Request{Task: "summarizer"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"ok": true}, out)
	m.AssertExpectations(t)
	m.AssertNotCalled(t, "Invoke", "merger")
}

func TestCounter(t *testing.T) {
	c := NewCounter(Payloads(map[string]interface{}{"a": 1}, map[string]error{"b": errors.New("boom")}))

	out, err := c.Invoke(context.Background(), executor.Request{Task: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, out)
	_, err = c.Invoke(context.Background(), executor.Request{Task: "b"})
	assert.EqualError(t, err, "boom")
	_, _ = c.Invoke(context.Background(), executor.Request{Task: "b"})

	assert.Equal(t, 1, c.Count("a"))
	assert.Equal(t, 2, c.Count("b"))
	assert.Equal(t, 0, c.Count("c"))
	assert.Equal(t, 3, c.Total())
}
