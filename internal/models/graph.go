package models

import (
	"sort"

	"busgraph.opentransit.org/internal/network"
)

type Node struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Members   []string `json:"members"`
	Merged    bool     `json:"merged"`
	InDegree  int      `json:"inDegree"`
	OutDegree int      `json:"outDegree"`
}

func NewNode(node network.Node, inDegree, outDegree int) Node {
	members := node.Members
	if members == nil {
		members = []string{}
	}
	return Node{
		ID:        node.ID,
		Name:      node.Name,
		Lat:       node.Lat,
		Lon:       node.Lon,
		Members:   members,
		Merged:    len(node.Members) > 0,
		InDegree:  inDegree,
		OutDegree: outDegree,
	}
}

// NodeFromGraph looks up id and counts its edges.
func NodeFromGraph(g *network.Graph, id string) (Node, bool) {
	node, ok := g.Node(id)
	if !ok {
		return Node{}, false
	}
	return NewNode(node, len(g.InEdges(id)), len(g.OutEdges(id))), true
}

type Edge struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Line    string  `json:"line"`
	Weight  float64 `json:"weight"`
	Samples int     `json:"samples"`
}

func NewEdge(edge network.Edge) Edge {
	return Edge{
		From:    edge.From,
		To:      edge.To,
		Line:    edge.Line,
		Weight:  edge.Weight,
		Samples: edge.Samples,
	}
}

func NewEdges(edges []network.Edge) []Edge {
	list := make([]Edge, 0, len(edges))
	for _, edge := range edges {
		list = append(list, NewEdge(edge))
	}
	return list
}

// Line summarizes the edges served by one line.
type Line struct {
	ID           string  `json:"id"`
	Edges        int     `json:"edges"`
	Samples      int     `json:"samples"`
	TotalMinutes float64 `json:"totalMinutes"`
}

// LinesForEdges groups edges by line, sorted by line id.
func LinesForEdges(edges []network.Edge) []Line {
	byID := make(map[string]*Line)
	for _, edge := range edges {
		line, ok := byID[edge.Line]
		if !ok {
			line = &Line{ID: edge.Line}
			byID[edge.Line] = line
		}
		line.Edges++
		line.Samples += edge.Samples
		line.TotalMinutes += edge.Weight
	}

	lines := make([]Line, 0, len(byID))
	for _, line := range byID {
		lines = append(lines, *line)
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].ID < lines[j].ID
	})
	return lines
}

// NodeEntry is a node together with the edges touching it.
type NodeEntry struct {
	Node
	Outbound []Edge `json:"outbound"`
	Inbound  []Edge `json:"inbound"`
}

// GraphStats is the payload of the stats endpoint.
type GraphStats struct {
	Nodes    int            `json:"nodes"`
	Edges    int            `json:"edges"`
	Lines    int            `json:"lines"`
	EdgeMode string         `json:"edgeMode"`
	RunID    string         `json:"runId,omitempty"`
	Source   string         `json:"source,omitempty"`
	Report   network.Report `json:"report"`
}
