package pipeline

import (
	"bytes"
	"testing"
	"untangle/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGraph(t *testing.T) {
	e := echo()
	root := Sequential(
		Parallel(task("summarizer", "", e), Sequential(task("risk_evaluator", "", e), task("risk_phrases", "", e))),
		task("merger", "@{user}", e),
	)

	g, err := buildGraph(root, []string{"user"}, nil)
	require.NoError(t, err)

	adj, err := g.AdjacencyMap()
	require.NoError(t, err)
	assert.Len(t, adj, 6)
	assert.Contains(t, adj[api.DocumentKey], "summarizer")
	assert.Contains(t, adj[api.DocumentKey], "risk_evaluator")
	assert.Contains(t, adj["risk_evaluator"], "risk_phrases")
	assert.Contains(t, adj["summarizer"], "merger")
	assert.Contains(t, adj["risk_phrases"], "merger")
	assert.NotContains(t, adj["risk_evaluator"], "merger")
	assert.Contains(t, adj["user"], "merger")

	r, err := New(root, WithSeed("user", "bob"))
	require.NoError(t, err)
	order, err := r.Order()
	require.NoError(t, err)
	require.Len(t, order, 4)
	assert.ElementsMatch(t, []string{"summarizer", "risk_evaluator", "risk_phrases", "merger"}, order)
	index := make(map[string]int)
	for i, name := range order {
		index[name] = i
	}
	assert.Less(t, index["risk_evaluator"], index["risk_phrases"])
	assert.Equal(t, "merger", order[3])
}

func TestDOT(t *testing.T) {
	e := echo()
	r, err := New(Sequential(Parallel(task("a", "", e), task("b", "", e)), task("m", "", e)))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, r.DOT(buf, map[string]api.Status{"a": api.StatusCompleted, "b": api.StatusFailed}))
	out := buf.String()
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, `"a" -> "m"`)
	assert.Contains(t, out, `"document" -> "b"`)
	assert.Contains(t, out, "fillcolor")
	assert.Contains(t, out, "rankdir")
}

func TestStatusColor(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range []api.Status{api.StatusCreated, api.StatusRunning, api.StatusCompleted, api.StatusFailed, api.StatusCancelled} {
		c, err := statusColor(s)
		require.NoError(t, err)
		assert.Equal(t, byte('#'), c[0])
		seen[c] = true
	}
	assert.Len(t, seen, 5)
}
