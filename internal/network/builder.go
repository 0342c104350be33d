package network

import (
	"fmt"
	"sort"
)

// BuildStats describes the graph produced by BuildGraph.
type BuildStats struct {
	Nodes          int `json:"nodes"`
	Edges          int `json:"edges"`
	DuplicateStops int `json:"duplicateStops"`
	// Collapsed counts edges overwritten by another line on the same ordered pair.
	Collapsed int `json:"collapsed"`
	// SelfLoops counts edges whose origin is also their destination.
	SelfLoops int `json:"selfLoops"`
}

// BuildGraph creates one node per stop and one edge per aggregated edge.
// Edges are inserted in key order, so in collapse mode the surviving line
// on a shared ordered pair is always the greatest line id.
func BuildGraph(stops []Stop, edges []AggregatedEdge, mode EdgeMode) (*Graph, BuildStats, error) {
	var stats BuildStats
	graph := NewGraph(mode)

	for _, stop := range stops {
		id := NormalizeID(stop.ID)
		if graph.HasNode(id) {
			stats.DuplicateStops++
			continue
		}
		graph.AddNode(Node{
			ID:   id,
			Name: stop.Name,
			Lat:  stop.Lat,
			Lon:  stop.Lon,
		})
	}

	ordered := make([]AggregatedEdge, len(edges))
	copy(ordered, edges)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Key.Less(ordered[j].Key)
	})

	for _, aggregated := range ordered {
		edge := Edge{
			From:    aggregated.Key.From,
			To:      aggregated.Key.To,
			Line:    aggregated.Key.Line,
			Weight:  aggregated.Weight,
			Samples: aggregated.Samples,
		}
		previous, err := graph.AddEdge(edge)
		if err != nil {
			return nil, stats, fmt.Errorf("adding edge %s->%s on line %s: %w", edge.From, edge.To, edge.Line, err)
		}
		if previous != nil && previous.Line != edge.Line {
			stats.Collapsed++
		}
	}

	for _, edge := range graph.Edges() {
		if edge.From == edge.To {
			stats.SelfLoops++
		}
	}

	stats.Nodes = graph.NodeCount()
	stats.Edges = graph.EdgeCount()
	return graph, stats, nil
}
