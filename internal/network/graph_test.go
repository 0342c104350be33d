package network

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEdgeMode(t *testing.T) {
	mode, err := ParseEdgeMode("")
	require.NoError(t, err)
	assert.Equal(t, EdgeModeCollapse, mode)

	mode, err = ParseEdgeMode("multigraph")
	require.NoError(t, err)
	assert.Equal(t, EdgeModeMultigraph, mode)

	_, err = ParseEdgeMode("hypergraph")
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestGraphEdges(t *testing.T) {
	t.Run("unknown endpoint", func(t *testing.T) {
		g := NewGraph(EdgeModeMultigraph)
		g.AddNode(Node{ID: "A"})

		_, err := g.AddEdge(Edge{From: "A", To: "B", Line: "1", Weight: 3})
		assert.True(t, errors.Is(err, ErrUnknownNode))
		assert.Zero(t, g.EdgeCount())
	})

	t.Run("multigraph keeps one edge per line", func(t *testing.T) {
		g := NewGraph(EdgeModeMultigraph)
		g.AddNode(Node{ID: "A"})
		g.AddNode(Node{ID: "B"})

		_, err := g.AddEdge(Edge{From: "A", To: "B", Line: "1", Weight: 3})
		require.NoError(t, err)
		previous, err := g.AddEdge(Edge{From: "A", To: "B", Line: "2", Weight: 4})
		require.NoError(t, err)

		assert.Nil(t, previous)
		assert.Equal(t, 2, g.EdgeCount())
		edge, ok := g.Edge("A", "B", "2")
		require.True(t, ok)
		assert.Equal(t, 4.0, edge.Weight)
	})

	t.Run("collapse keeps last insert", func(t *testing.T) {
		g := NewGraph(EdgeModeCollapse)
		g.AddNode(Node{ID: "A"})
		g.AddNode(Node{ID: "B"})

		_, err := g.AddEdge(Edge{From: "A", To: "B", Line: "1", Weight: 3})
		require.NoError(t, err)
		previous, err := g.AddEdge(Edge{From: "A", To: "B", Line: "2", Weight: 4})
		require.NoError(t, err)

		require.NotNil(t, previous)
		assert.Equal(t, "1", previous.Line)
		assert.Equal(t, 1, g.EdgeCount())
		edge, ok := g.Edge("A", "B", "")
		require.True(t, ok)
		assert.Equal(t, "2", edge.Line)
	})

	t.Run("out and in edges are sorted", func(t *testing.T) {
		g := NewGraph(EdgeModeMultigraph)
		for _, id := range []string{"A", "B", "C"} {
			g.AddNode(Node{ID: id})
		}
		for _, edge := range []Edge{
			{From: "A", To: "C", Line: "1"},
			{From: "A", To: "B", Line: "2"},
			{From: "A", To: "B", Line: "1"},
			{From: "C", To: "B", Line: "1"},
		} {
			_, err := g.AddEdge(edge)
			require.NoError(t, err)
		}

		out := g.OutEdges("A")
		require.Len(t, out, 3)
		assert.Equal(t, HopKey{From: "A", To: "B", Line: "1"}, out[0].Key())
		assert.Equal(t, HopKey{From: "A", To: "B", Line: "2"}, out[1].Key())
		assert.Equal(t, HopKey{From: "A", To: "C", Line: "1"}, out[2].Key())

		in := g.InEdges("B")
		require.Len(t, in, 3)
		assert.Equal(t, "C", in[2].From)
	})
}

func TestGraphRemoveNode(t *testing.T) {
	g := NewGraph(EdgeModeMultigraph)
	for _, id := range []string{"A", "B", "C"} {
		g.AddNode(Node{ID: id})
	}
	for _, edge := range []Edge{
		{From: "A", To: "B", Line: "1"},
		{From: "B", To: "C", Line: "1"},
		{From: "B", To: "B", Line: "1"},
		{From: "C", To: "A", Line: "1"},
	} {
		_, err := g.AddEdge(edge)
		require.NoError(t, err)
	}

	g.RemoveNode("B")

	assert.False(t, g.HasNode("B"))
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.Empty(t, g.OutEdges("A"))
	assert.Empty(t, g.InEdges("C"))
}

func TestGraphSelfLoops(t *testing.T) {
	g := NewGraph(EdgeModeCollapse)
	g.AddNode(Node{ID: "A", Name: "Piazza"})
	g.AddNode(Node{ID: "B"})

	_, err := g.AddEdge(Edge{From: "A", To: "A", Line: "1", Weight: 2})
	require.NoError(t, err)
	previous, err := g.AddEdge(Edge{From: "A", To: "A", Line: "2", Weight: 5})
	require.NoError(t, err)
	require.NotNil(t, previous)
	assert.Equal(t, 2.0, previous.Weight)
	_, err = g.AddEdge(Edge{From: "A", To: "B", Line: "1", Weight: 3})
	require.NoError(t, err)

	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, 1, g.g.WeightedLines(g.ids["A"], g.ids["A"]).Len())
	assert.Equal(t, []Edge{
		{From: "A", To: "A", Line: "2", Weight: 5},
		{From: "A", To: "B", Line: "1", Weight: 3},
	}, g.OutEdges("A"))
	assert.Equal(t, []Edge{{From: "A", To: "A", Line: "2", Weight: 5}}, g.InEdges("A"))

	g.AddNode(Node{ID: "A", Name: "Piazza Maggiore"})
	node, ok := g.Node("A")
	require.True(t, ok)
	assert.Equal(t, "Piazza Maggiore", node.Name)
	assert.Len(t, g.OutEdges("A"), 2)

	g.RemoveEdge(Edge{From: "A", To: "A"})
	assert.Equal(t, 1, g.EdgeCount())
	assert.Empty(t, g.InEdges("A"))
	assert.Empty(t, g.OutEdges("missing"))
}

func TestGraphNodesByName(t *testing.T) {
	g := NewGraph(EdgeModeCollapse)
	g.AddNode(Node{ID: "2", Name: "Stazione "})
	g.AddNode(Node{ID: "1", Name: "stazione"})
	g.AddNode(Node{ID: "3", Name: "Stazione Centrale"})

	nodes := g.NodesByName(" STAZIONE")

	require.Len(t, nodes, 2)
	assert.Equal(t, "1", nodes[0].ID)
	assert.Equal(t, "2", nodes[1].ID)
}

func TestGraphNodeCopiesMembers(t *testing.T) {
	g := NewGraph(EdgeModeCollapse)
	members := []string{"1", "2"}
	g.AddNode(Node{ID: "M", Members: members})
	members[0] = "changed"

	node, ok := g.Node("M")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2"}, node.Members)
}
