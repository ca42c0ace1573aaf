package executor

import (
	"testing"
	"untangle/pkg/util/context"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunc(t *testing.T) {
	var f Executor = Func(func(ctx context.Context, req Request) (interface{}, error) {
		return req.Task + ":" + req.Instruction, nil
	})
	out, err := f.Invoke(context.Background(), Request{Task: "summarizer", Instruction: "go"})
	require.NoError(t, err)
	assert.Equal(t, "summarizer:go", out)
}

func TestRegistry(t *testing.T) {
	noop := Func(func(ctx context.Context, req Request) (interface{}, error) { return nil, nil })
	r := Registry{"llm": noop, "dummy": noop, "nil": nil}

	_, err := r.Get("dummy")
	assert.NoError(t, err)

	for _, kind := range []string{"triton", "nil"} {
		_, err = r.Get(kind)
		require.Error(t, err)
		var unknown ErrUnknownKind
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, kind, unknown.Kind)
	}

	assert.Equal(t, []string{"dummy", "llm", "nil"}, r.Kinds())
}
