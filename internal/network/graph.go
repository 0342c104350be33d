package network

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
)

// EdgeMode selects how edges between the same ordered pair of nodes are stored.
type EdgeMode string

const (
	// EdgeModeCollapse keeps a single edge per (origin, destination). A later
	// insert on the same pair replaces the earlier one, whatever its line.
	EdgeModeCollapse EdgeMode = "collapse"
	// EdgeModeMultigraph keeps one edge per (origin, destination, line).
	EdgeModeMultigraph EdgeMode = "multigraph"
)

// ParseEdgeMode validates a configured edge mode. An empty value selects collapse.
func ParseEdgeMode(raw string) (EdgeMode, error) {
	switch EdgeMode(raw) {
	case "", EdgeModeCollapse:
		return EdgeModeCollapse, nil
	case EdgeModeMultigraph:
		return EdgeModeMultigraph, nil
	default:
		return "", fmt.Errorf("%w: unknown edge mode %q", ErrConfiguration, raw)
	}
}

// Node is a stop, or a group of merged stops, of the network.
type Node struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
	// Members holds the original stop ids of a merged node. Empty for plain stops.
	Members []string
}

// Point returns the node position as lon/lat.
func (n Node) Point() orb.Point {
	return orb.Point{n.Lon, n.Lat}
}

// Edge is a directed hop of the network weighted by mean travel minutes.
type Edge struct {
	From    string
	To      string
	Line    string
	Weight  float64
	Samples int
}

// Key returns the (origin, destination, line) triple of the edge.
func (e Edge) Key() HopKey {
	return HopKey{From: e.From, To: e.To, Line: e.Line}
}

type edgeKey struct {
	from string
	to   string
	line string
}

// hopLine carries an Edge through the gonum graph.
type hopLine struct {
	F, T graph.Node
	UID  int64
	Edge Edge
}

func (l hopLine) From() graph.Node { return l.F }
func (l hopLine) To() graph.Node { return l.T }
func (l hopLine) ReversedLine() graph.Line {
	l.F, l.T = l.T, l.F
	return l
}
func (l hopLine) ID() int64 { return l.UID }
func (l hopLine) Weight() float64 { return l.Edge.Weight }

// Graph is a directed transit network on top of a gonum weighted multigraph.
// Stop ids map to gonum node ids; edgeKey picks the line a hop replaces,
// with the line left out in collapse mode. It is built by a single writer
// and is safe for concurrent readers once construction is over.
type Graph struct {
	mode  EdgeMode
	g     *multi.WeightedDirectedGraph
	ids   map[string]int64
	nodes map[int64]*Node
	lines map[edgeKey]hopLine
}

// NewGraph returns an empty graph storing edges according to mode.
func NewGraph(mode EdgeMode) *Graph {
	if mode == "" {
		mode = EdgeModeCollapse
	}
	return &Graph{
		mode:  mode,
		g:     multi.NewWeightedDirectedGraph(),
		ids:   make(map[string]int64),
		nodes: make(map[int64]*Node),
		lines: make(map[edgeKey]hopLine),
	}
}

func (g *Graph) Mode() EdgeMode {
	return g.mode
}

func (g *Graph) NodeCount() int {
	return len(g.ids)
}

func (g *Graph) EdgeCount() int {
	return len(g.lines)
}

// AddNode inserts node, or replaces the attributes of an existing node with
// the same id. Edges of an existing node are kept.
func (g *Graph) AddNode(node Node) {
	stored := node
	if len(node.Members) > 0 {
		stored.Members = append([]string(nil), node.Members...)
	}
	nid, ok := g.ids[node.ID]
	if !ok {
		n := g.g.NewNode()
		g.g.AddNode(n)
		nid = n.ID()
		g.ids[node.ID] = nid
	}
	g.nodes[nid] = &stored
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.ids[id]
	return ok
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	nid, ok := g.ids[id]
	if !ok {
		return Node{}, false
	}
	return *g.nodes[nid], true
}

// RemoveNode deletes a node and every edge touching it.
func (g *Graph) RemoveNode(id string) {
	nid, ok := g.ids[id]
	if !ok {
		return
	}
	for _, edge := range g.OutEdges(id) {
		delete(g.lines, g.keyOf(edge.From, edge.To, edge.Line))
	}
	for _, edge := range g.InEdges(id) {
		delete(g.lines, g.keyOf(edge.From, edge.To, edge.Line))
	}
	g.g.RemoveNode(nid)
	delete(g.nodes, nid)
	delete(g.ids, id)
}

func (g *Graph) keyOf(from, to, line string) edgeKey {
	if g.mode == EdgeModeCollapse {
		line = ""
	}
	return edgeKey{from: from, to: to, line: line}
}

// AddEdge inserts edge. When the storage key is already taken the previous
// edge is replaced and returned.
func (g *Graph) AddEdge(edge Edge) (*Edge, error) {
	fid, ok := g.ids[edge.From]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, edge.From)
	}
	tid, ok := g.ids[edge.To]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, edge.To)
	}

	key := g.keyOf(edge.From, edge.To, edge.Line)
	line := hopLine{F: g.g.Node(fid), T: g.g.Node(tid), Edge: edge}
	var previous *Edge
	if existing, ok := g.lines[key]; ok {
		copied := existing.Edge
		previous = &copied
		line.UID = existing.UID
	} else {
		line.UID = g.g.NewWeightedLine(line.F, line.T, edge.Weight).ID()
	}

	g.g.SetWeightedLine(line)
	g.lines[key] = line
	return previous, nil
}

// Edge looks up an edge. The line is ignored in collapse mode.
func (g *Graph) Edge(from, to, line string) (Edge, bool) {
	stored, ok := g.lines[g.keyOf(from, to, line)]
	if !ok {
		return Edge{}, false
	}
	return stored.Edge, true
}

// RemoveEdge deletes the edge stored under the key of edge.
func (g *Graph) RemoveEdge(edge Edge) {
	key := g.keyOf(edge.From, edge.To, edge.Line)
	stored, ok := g.lines[key]
	if !ok {
		return
	}
	g.g.RemoveLine(stored.F.ID(), stored.T.ID(), stored.UID)
	delete(g.lines, key)
}

// Nodes returns every node sorted by id.
func (g *Graph) Nodes() []Node {
	it := g.g.Nodes()
	nodes := make([]Node, 0, len(g.ids))
	for it.Next() {
		nodes = append(nodes, *g.nodes[it.Node().ID()])
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

// NodesByName returns the nodes whose display name matches name, ignoring
// case and surrounding spaces, sorted by id.
func (g *Graph) NodesByName(name string) []Node {
	target := NormalizeName(name)
	var nodes []Node
	for _, node := range g.nodes {
		if NormalizeName(node.Name) == target {
			nodes = append(nodes, *node)
		}
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

// Edges returns every edge sorted by origin, destination and line.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.lines))
	for _, line := range g.lines {
		edges = append(edges, line.Edge)
	}
	sortEdges(edges)
	return edges
}

// OutEdges returns the edges leaving id, sorted.
func (g *Graph) OutEdges(id string) []Edge {
	nid, ok := g.ids[id]
	if !ok {
		return []Edge{}
	}
	return collectLines(g.g.From(nid), func(other int64) graph.WeightedLines {
		return g.g.WeightedLines(nid, other)
	})
}

// InEdges returns the edges reaching id, sorted.
func (g *Graph) InEdges(id string) []Edge {
	nid, ok := g.ids[id]
	if !ok {
		return []Edge{}
	}
	return collectLines(g.g.To(nid), func(other int64) graph.WeightedLines {
		return g.g.WeightedLines(other, nid)
	})
}

func collectLines(neighbours graph.Nodes, between func(int64) graph.WeightedLines) []Edge {
	edges := []Edge{}
	for neighbours.Next() {
		lines := between(neighbours.Node().ID())
		for lines.Next() {
			if line, ok := lines.WeightedLine().(hopLine); ok {
				edges = append(edges, line.Edge)
			}
		}
	}
	sortEdges(edges)
	return edges
}

func sortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].Key().Less(edges[j].Key())
	})
}
