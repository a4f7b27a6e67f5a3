package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trace struct {
	ran []Label
}

func record(l Label) Node[*trace] {
	return NodeFunc[*trace](func(t *trace) error {
		t.ran = append(t.ran, l)
		return nil
	})
}

type needsPrepass struct{}

func (needsPrepass) Run(t *trace) error  { t.ran = append(t.ran, "composite"); return nil }
func (needsPrepass) Requires() []Label { return []Label{"prepass"} }

func TestGraph_RunsInEdgeOrder(t *testing.T) {
	g := New[*trace]()
	// Inserted out of order on purpose.
	for _, l := range []Label{"present", "composite", "main", "prepass"} {
		require.NoError(t, g.AddNode(l, record(l)))
	}
	require.NoError(t, g.AddEdges("prepass", "main", "composite", "present"))

	tr := &trace{}
	require.NoError(t, g.Run(tr))
	assert.Equal(t, []Label{"prepass", "main", "composite", "present"}, tr.ran)

	// The schedule is cached and stable.
	order1, _ := g.Order()
	order2, _ := g.Order()
	assert.Equal(t, order1, order2)
}

func TestGraph_TiesFollowInsertionOrder(t *testing.T) {
	g := New[*trace]()
	for _, l := range []Label{"a", "b", "c"} {
		require.NoError(t, g.AddNode(l, record(l)))
	}
	require.NoError(t, g.AddEdge("c", "a"))

	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, []Label{"b", "c", "a"}, order)
}

func TestGraph_DetectsCycle(t *testing.T) {
	g := New[*trace]()
	for _, l := range []Label{"a", "b", "c"} {
		require.NoError(t, g.AddNode(l, record(l)))
	}
	require.NoError(t, g.AddEdges("a", "b", "c", "a"))

	_, err := g.Order()
	assert.ErrorIs(t, err, ErrCycle)
	assert.ErrorIs(t, g.Run(&trace{}), ErrCycle)
}

func TestGraph_RejectsUnknownAndDuplicate(t *testing.T) {
	g := New[*trace]()
	require.NoError(t, g.AddNode("a", record("a")))
	assert.ErrorIs(t, g.AddNode("a", record("a")), ErrDuplicateNode)
	assert.ErrorIs(t, g.AddEdge("a", "nope"), ErrUnknownNode)
	assert.ErrorIs(t, g.AddEdges("nope", "a"), ErrUnknownNode)

	// Adding an existing edge twice is harmless.
	require.NoError(t, g.AddNode("b", record("b")))
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("a", "b"))
	assert.Len(t, g.edges["a"], 1)
}

func TestGraph_EnforcesRequirements(t *testing.T) {
	g := New[*trace]()
	require.NoError(t, g.AddNode("prepass", record("prepass")))
	require.NoError(t, g.AddNode("main", record("main")))
	require.NoError(t, g.AddNode("composite", needsPrepass{}))

	// composite is not downstream of prepass yet.
	require.NoError(t, g.AddEdge("main", "composite"))
	_, err := g.Order()
	assert.ErrorIs(t, err, ErrMissingInput)

	// A transitive path is enough.
	require.NoError(t, g.AddEdge("prepass", "main"))
	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, []Label{"prepass", "main", "composite"}, order)
}

func TestGraph_RequirementOnMissingNode(t *testing.T) {
	g := New[*trace]()
	require.NoError(t, g.AddNode("composite", needsPrepass{}))
	_, err := g.Order()
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestGraph_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	g := New[*trace]()
	require.NoError(t, g.AddNode("a", NodeFunc[*trace](func(*trace) error { return boom })))
	require.NoError(t, g.AddNode("b", record("b")))
	require.NoError(t, g.AddNode("anchor", Empty[*trace]{}))
	require.NoError(t, g.AddEdges("anchor", "a", "b"))

	tr := &trace{}
	err := g.Run(tr)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, tr.ran)
}
