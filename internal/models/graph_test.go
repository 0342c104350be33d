package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"busgraph.opentransit.org/internal/network"
)

func TestNewNode(t *testing.T) {
	plain := NewNode(network.Node{ID: "100", Name: "Stazione", Lat: 44.5, Lon: 11.3}, 1, 2)
	assert.Equal(t, []string{}, plain.Members)
	assert.False(t, plain.Merged)
	assert.Equal(t, 1, plain.InDegree)
	assert.Equal(t, 2, plain.OutDegree)

	merged := NewNode(network.Node{ID: "PIAZZA_MERGED", Members: []string{"101", "102"}}, 0, 0)
	assert.True(t, merged.Merged)
}

func TestNodeFromGraph(t *testing.T) {
	g := network.NewGraph(network.EdgeModeMultigraph)
	g.AddNode(network.Node{ID: "A", Name: "Alpha"})
	g.AddNode(network.Node{ID: "B", Name: "Beta"})
	_, err := g.AddEdge(network.Edge{From: "A", To: "B", Line: "1", Weight: 3, Samples: 1})
	require.NoError(t, err)

	node, ok := NodeFromGraph(g, "A")
	require.True(t, ok)
	assert.Equal(t, 0, node.InDegree)
	assert.Equal(t, 1, node.OutDegree)

	_, ok = NodeFromGraph(g, "Z")
	assert.False(t, ok)
}

func TestLinesForEdges(t *testing.T) {
	lines := LinesForEdges([]network.Edge{
		{From: "A", To: "B", Line: "27", Weight: 4, Samples: 1},
		{From: "A", To: "B", Line: "11", Weight: 6, Samples: 2},
		{From: "B", To: "C", Line: "11", Weight: 7, Samples: 1},
	})

	assert.Equal(t, []Line{
		{ID: "11", Edges: 2, Samples: 3, TotalMinutes: 13},
		{ID: "27", Edges: 1, Samples: 1, TotalMinutes: 4},
	}, lines)
	assert.Empty(t, LinesForEdges(nil))
}

func TestNodeEntryJSON(t *testing.T) {
	entry := NodeEntry{
		Node:     NewNode(network.Node{ID: "A", Name: "Alpha"}, 0, 1),
		Outbound: NewEdges([]network.Edge{{From: "A", To: "B", Line: "1", Weight: 3, Samples: 1}}),
		Inbound:  []Edge{},
	}

	b, err := json.Marshal(entry)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "A", decoded["id"])
	assert.Equal(t, "Alpha", decoded["name"])
	assert.Len(t, decoded["outbound"], 1)
	assert.Equal(t, []interface{}{}, decoded["inbound"])
}
