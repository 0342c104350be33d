package network

import (
	"sort"
)

// AggregateStats counts what happened to the hops offered to an Aggregator.
type AggregateStats struct {
	Accepted       int `json:"accepted"`
	OutOfZone      int `json:"outOfZone"`
	UnresolvedLine int `json:"unresolvedLine"`
	Rollovers      int `json:"rollovers"`
}

// Aggregator collects travel time samples per HopKey. It holds no state
// beyond its own lifetime; build a new one for every run.
type Aggregator struct {
	zone    ZoneResult
	samples map[HopKey][]float64
	stats   AggregateStats
}

// NewAggregator returns an empty Aggregator that only accepts hops whose
// endpoints are both in zone.
func NewAggregator(zone ZoneResult) *Aggregator {
	return &Aggregator{
		zone:    zone,
		samples: make(map[HopKey][]float64),
	}
}

// Add records one hop served by line. Hops leaving the zone or with no line
// are dropped and counted.
func (a *Aggregator) Add(hop Hop, line string) bool {
	if line == "" {
		a.stats.UnresolvedLine++
		return false
	}
	if !a.zone.Contains(hop.From.StopID) || !a.zone.Contains(hop.To.StopID) {
		a.stats.OutOfZone++
		return false
	}

	minutes, rolled := TravelMinutes(hop.From.Minutes, hop.To.Minutes)
	if rolled {
		a.stats.Rollovers++
	}

	key := HopKey{From: hop.From.StopID, To: hop.To.StopID, Line: line}
	a.samples[key] = append(a.samples[key], minutes)
	a.stats.Accepted++
	return true
}

// Merge moves every sample of other into a. Used to combine per worker
// aggregators; other must not be used afterwards.
func (a *Aggregator) Merge(other *Aggregator) {
	for key, values := range other.samples {
		a.samples[key] = append(a.samples[key], values...)
	}
	a.stats.Accepted += other.stats.Accepted
	a.stats.OutOfZone += other.stats.OutOfZone
	a.stats.UnresolvedLine += other.stats.UnresolvedLine
	a.stats.Rollovers += other.stats.Rollovers
}

// Stats returns the counters collected so far.
func (a *Aggregator) Stats() AggregateStats {
	return a.stats
}

// Keys returns the number of distinct keys with at least one sample.
func (a *Aggregator) Keys() int {
	return len(a.samples)
}

// Edges reduces every key to its mean travel time, sorted by key.
func (a *Aggregator) Edges() []AggregatedEdge {
	edges := make([]AggregatedEdge, 0, len(a.samples))
	for key, values := range a.samples {
		if len(values) == 0 {
			continue
		}
		edges = append(edges, AggregatedEdge{
			Key:     key,
			Weight:  mean(values),
			Samples: len(values),
		})
	}
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].Key.Less(edges[j].Key)
	})
	return edges
}

// mean sums a sorted copy so the result does not depend on arrival order.
func mean(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return sum / float64(len(sorted))
}
