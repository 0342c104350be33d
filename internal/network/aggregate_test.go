package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zoneOf(ids ...string) ZoneResult {
	zone := ZoneResult{IDs: make(map[string]struct{}), Missing: []string{}}
	for _, id := range ids {
		zone.IDs[id] = struct{}{}
	}
	zone.Eligible = len(ids)
	zone.Matched = len(ids)
	return zone
}

func hop(trip, from, fromTime, to, toTime string) Hop {
	fromMinutes, err := ParseClock(fromTime)
	if err != nil {
		panic(err)
	}
	toMinutes, err := ParseClock(toTime)
	if err != nil {
		panic(err)
	}
	return Hop{
		TripID: trip,
		From:   Visit{StopID: from, Arrival: fromTime, Minutes: fromMinutes, Valid: true},
		To:     Visit{StopID: to, Arrival: toTime, Minutes: toMinutes, Valid: true},
	}
}

func TestAggregatorMean(t *testing.T) {
	agg := NewAggregator(zoneOf("A", "B"))

	assert.True(t, agg.Add(hop("T1", "A", "08:00:00", "B", "08:05:00"), "L1"))
	assert.True(t, agg.Add(hop("T2", "A", "09:00:00", "B", "09:07:00"), "L1"))

	edges := agg.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, HopKey{From: "A", To: "B", Line: "L1"}, edges[0].Key)
	assert.InDelta(t, 6.0, edges[0].Weight, 1e-9)
	assert.Equal(t, 2, edges[0].Samples)
	assert.Equal(t, 2, agg.Stats().Accepted)
}

func TestAggregatorRollover(t *testing.T) {
	agg := NewAggregator(zoneOf("A", "B"))

	agg.Add(hop("T1", "A", "23:58:00", "B", "00:02:00"), "L1")

	edges := agg.Edges()
	require.Len(t, edges, 1)
	assert.InDelta(t, 4.0, edges[0].Weight, 1e-9)
	assert.Equal(t, 1, agg.Stats().Rollovers)
}

func TestAggregatorDropsHops(t *testing.T) {
	agg := NewAggregator(zoneOf("A", "B"))

	assert.False(t, agg.Add(hop("T1", "A", "08:00:00", "C", "08:05:00"), "L1"))
	assert.False(t, agg.Add(hop("T1", "C", "08:05:00", "A", "08:09:00"), "L1"))
	assert.False(t, agg.Add(hop("T2", "A", "08:00:00", "B", "08:05:00"), ""))

	stats := agg.Stats()
	assert.Equal(t, 2, stats.OutOfZone)
	assert.Equal(t, 1, stats.UnresolvedLine)
	assert.Zero(t, stats.Accepted)
	assert.Empty(t, agg.Edges())
}

func TestAggregatorKeysPerLine(t *testing.T) {
	agg := NewAggregator(zoneOf("A", "B"))

	agg.Add(hop("T1", "A", "08:00:00", "B", "08:04:00"), "L2")
	agg.Add(hop("T2", "A", "08:00:00", "B", "08:06:00"), "L1")

	edges := agg.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, "L1", edges[0].Key.Line)
	assert.InDelta(t, 6.0, edges[0].Weight, 1e-9)
	assert.Equal(t, "L2", edges[1].Key.Line)
	assert.InDelta(t, 4.0, edges[1].Weight, 1e-9)
	assert.Equal(t, 2, agg.Keys())
}

func TestAggregatorMerge(t *testing.T) {
	zone := zoneOf("A", "B")
	left := NewAggregator(zone)
	right := NewAggregator(zone)

	left.Add(hop("T1", "A", "08:00:00", "B", "08:05:00"), "L1")
	right.Add(hop("T2", "A", "09:00:00", "B", "09:07:00"), "L1")
	right.Add(hop("T3", "A", "09:00:00", "X", "09:07:00"), "L1")

	left.Merge(right)

	edges := left.Edges()
	require.Len(t, edges, 1)
	assert.InDelta(t, 6.0, edges[0].Weight, 1e-9)
	assert.Equal(t, 2, edges[0].Samples)
	assert.Equal(t, 2, left.Stats().Accepted)
	assert.Equal(t, 1, left.Stats().OutOfZone)
}

func TestAggregatorOrderIndependent(t *testing.T) {
	zone := zoneOf("A", "B")
	hops := []Hop{
		hop("T1", "A", "08:00:00", "B", "08:05:10"),
		hop("T2", "A", "09:00:00", "B", "09:07:20"),
		hop("T3", "A", "10:00:00", "B", "10:03:40"),
	}

	forward := NewAggregator(zone)
	for _, h := range hops {
		forward.Add(h, "L1")
	}
	backward := NewAggregator(zone)
	for i := len(hops) - 1; i >= 0; i-- {
		backward.Add(hops[i], "L1")
	}

	assert.Equal(t, forward.Edges(), backward.Edges())
}
