package network

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// MergeMode names the node merge variant that produced a MergeReport.
type MergeMode string

const (
	MergeModeByName  MergeMode = "by_name"
	MergeModeOneName MergeMode = "one_name"
)

// MergedNode describes one super-node created by a merge.
type MergedNode struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
	Members []string `json:"members"`
	// SpreadMeters is the largest distance between the super-node and one of its members.
	SpreadMeters float64 `json:"spreadMeters"`
}

// EdgeRef identifies an edge in a report.
type EdgeRef struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Line   string  `json:"line"`
	Weight float64 `json:"weight"`
}

// MergeReport is the outcome of one merge pass.
type MergeReport struct {
	Mode   MergeMode    `json:"mode"`
	Target string       `json:"target,omitempty"`
	NoOp   bool         `json:"noOp"`
	Merged []MergedNode `json:"merged"`
	// Ambiguities lists direct edges that linked two merge candidates before
	// the merge. They usually mean one place was split across several stops.
	Ambiguities []EdgeRef `json:"ambiguities"`
	Rehomed     int       `json:"rehomed"`
	SelfLoops   int       `json:"selfLoops"`
	// Combined counts edges folded into an existing edge of the same line, with samples pooled.
	Combined int `json:"combined"`
	// DuplicatesRemoved counts edges dropped because an identical (origin, destination, line) edge survived.
	DuplicatesRemoved int `json:"duplicatesRemoved"`
	Collapsed         int `json:"collapsed"`
}

type collisionPolicy int

const (
	poolSamples collisionPolicy = iota
	keepFirst
)

// MergeByName folds every group of nodes sharing a display name into one
// super-node. Names are compared exactly once surrounding spaces are
// trimmed, so "Piazza" and "PIAZZA" stay apart. Edges with the same origin, destination and line after the
// merge are pooled into a single edge weighted by their sample counts.
func MergeByName(g *Graph) (MergeReport, error) {
	report := newMergeReport(MergeModeByName, "")

	groups := make(map[string][]Node)
	for _, node := range g.Nodes() {
		name := strings.TrimSpace(node.Name)
		if name == "" {
			continue
		}
		groups[name] = append(groups[name], node)
	}

	names := make([]string, 0, len(groups))
	for name, members := range groups {
		if len(members) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		members := groups[name]
		merged, err := mergeGroup(g, members, name, poolSamples, &report)
		if err != nil {
			return report, fmt.Errorf("merging %q: %w", name, err)
		}
		report.Merged = append(report.Merged, merged)
	}

	report.NoOp = len(report.Merged) == 0
	return report, nil
}

// MergeOneName folds the nodes named target, ignoring case and surrounding
// spaces, into one super-node named after the first of them. Edges that
// end up duplicated under (origin, destination, line) keep a single survivor.
// Fewer than two matching nodes leave the graph untouched.
func MergeOneName(g *Graph, target string) (MergeReport, error) {
	report := newMergeReport(MergeModeOneName, strings.TrimSpace(target))

	members := g.NodesByName(target)
	if len(members) < 2 {
		report.NoOp = true
		return report, nil
	}

	merged, err := mergeGroup(g, members, strings.TrimSpace(members[0].Name), keepFirst, &report)
	if err != nil {
		return report, fmt.Errorf("merging %q: %w", target, err)
	}
	report.Merged = append(report.Merged, merged)
	return report, nil
}

func newMergeReport(mode MergeMode, target string) MergeReport {
	return MergeReport{
		Mode:        mode,
		Target:      target,
		Merged:      []MergedNode{},
		Ambiguities: []EdgeRef{},
	}
}

type rehomedEdge struct {
	original Edge
	edge     Edge
}

func mergeGroup(g *Graph, members []Node, name string, policy collisionPolicy, report *MergeReport) (MergedNode, error) {
	inGroup := make(map[string]struct{}, len(members))
	var memberIDs []string
	var lat, lon float64
	for _, member := range members {
		inGroup[member.ID] = struct{}{}
		lat += member.Lat
		lon += member.Lon
		if len(member.Members) > 0 {
			memberIDs = append(memberIDs, member.Members...)
		} else {
			memberIDs = append(memberIDs, member.ID)
		}
	}
	sort.Strings(memberIDs)

	merged := MergedNode{
		Name:    name,
		Lat:     lat / float64(len(members)),
		Lon:     lon / float64(len(members)),
		Members: memberIDs,
	}
	center := orb.Point{merged.Lon, merged.Lat}
	for _, member := range members {
		merged.SpreadMeters = math.Max(merged.SpreadMeters, geo.Distance(center, member.Point()))
	}

	touching := make(map[HopKey]Edge)
	for _, member := range members {
		for _, edge := range g.OutEdges(member.ID) {
			touching[edge.Key()] = edge
		}
		for _, edge := range g.InEdges(member.ID) {
			touching[edge.Key()] = edge
		}
	}

	for _, member := range members {
		g.RemoveNode(member.ID)
	}

	merged.ID = superNodeID(g, name)
	g.AddNode(Node{
		ID:      merged.ID,
		Name:    merged.Name,
		Lat:     merged.Lat,
		Lon:     merged.Lon,
		Members: merged.Members,
	})

	rehomed := make([]rehomedEdge, 0, len(touching))
	for _, edge := range touching {
		_, fromInGroup := inGroup[edge.From]
		_, toInGroup := inGroup[edge.To]
		if fromInGroup && toInGroup && edge.From != edge.To {
			report.Ambiguities = append(report.Ambiguities, EdgeRef{
				From:   edge.From,
				To:     edge.To,
				Line:   edge.Line,
				Weight: edge.Weight,
			})
		}

		moved := edge
		if fromInGroup {
			moved.From = merged.ID
		}
		if toInGroup {
			moved.To = merged.ID
		}
		rehomed = append(rehomed, rehomedEdge{original: edge, edge: moved})
	}
	sort.Slice(report.Ambiguities, func(i, j int) bool {
		return edgeRefLess(report.Ambiguities[i], report.Ambiguities[j])
	})
	sort.Slice(rehomed, func(i, j int) bool {
		a, b := rehomed[i], rehomed[j]
		if a.edge.Key() != b.edge.Key() {
			return a.edge.Key().Less(b.edge.Key())
		}
		return a.original.Key().Less(b.original.Key())
	})

	for _, item := range rehomed {
		if err := insertRehomed(g, item.edge, policy, report); err != nil {
			return merged, err
		}
	}

	for _, edge := range g.OutEdges(merged.ID) {
		if edge.To == merged.ID {
			report.SelfLoops++
		}
	}

	return merged, nil
}

func insertRehomed(g *Graph, edge Edge, policy collisionPolicy, report *MergeReport) error {
	report.Rehomed++

	existing, ok := g.Edge(edge.From, edge.To, edge.Line)
	if ok && existing.Line == edge.Line {
		switch policy {
		case poolSamples:
			edge = pooled(existing, edge)
			report.Combined++
		case keepFirst:
			report.DuplicatesRemoved++
			return nil
		}
	} else if ok {
		report.Collapsed++
	}

	if _, err := g.AddEdge(edge); err != nil {
		return fmt.Errorf("re-homing edge %s->%s: %w", edge.From, edge.To, err)
	}
	return nil
}

// pooled merges two edges of the same line as if their samples had been
// collected together.
func pooled(a, b Edge) Edge {
	na, nb := math.Max(float64(a.Samples), 1), math.Max(float64(b.Samples), 1)
	result := a
	result.Weight = (a.Weight*na + b.Weight*nb) / (na + nb)
	result.Samples = int(na + nb)
	return result
}

func superNodeID(g *Graph, name string) string {
	base := strings.Join(strings.Fields(NormalizeName(name)), "_") + "_MERGED"
	id := base
	for i := 2; g.HasNode(id); i++ {
		id = fmt.Sprintf("%s_%d", base, i)
	}
	return id
}

func edgeRefLess(a, b EdgeRef) bool {
	return HopKey{From: a.From, To: a.To, Line: a.Line}.Less(HopKey{From: b.From, To: b.To, Line: b.Line})
}
