package network

// ZoneStats summarizes the zone filter for the report.
type ZoneStats struct {
	TargetZone string   `json:"targetZone"`
	Eligible   int      `json:"eligible"`
	Matched    int      `json:"matched"`
	Missing    []string `json:"missing"`
}

// SegmentStats summarizes trip segmentation over a whole feed.
type SegmentStats struct {
	Trips             int `json:"trips"`
	ShortTrips        int `json:"shortTrips"`
	UnresolvedTrips   int `json:"unresolvedTrips"`
	MalformedSequence int `json:"malformedSequence"`
	MalformedArrival  int `json:"malformedArrival"`
	SkippedHops       int `json:"skippedHops"`
	Hops              int `json:"hops"`
}

func (s *SegmentStats) add(segment Segment) {
	s.Trips++
	if len(segment.Visits) < 2 {
		s.ShortTrips++
	}
	s.MalformedSequence += segment.MalformedSequence
	s.MalformedArrival += segment.MalformedArrival
	s.SkippedHops += segment.SkippedHops
	s.Hops += len(segment.Hops)
}

func (s *SegmentStats) merge(other SegmentStats) {
	s.Trips += other.Trips
	s.ShortTrips += other.ShortTrips
	s.UnresolvedTrips += other.UnresolvedTrips
	s.MalformedSequence += other.MalformedSequence
	s.MalformedArrival += other.MalformedArrival
	s.SkippedHops += other.SkippedHops
	s.Hops += other.Hops
}

// AggregationStats summarizes travel time aggregation.
type AggregationStats struct {
	AggregateStats
	Keys int `json:"keys"`
	// LowConfidence counts edges backed by a single sample.
	LowConfidence int `json:"lowConfidence"`
}

// Report gathers every diagnostic produced by a pipeline run.
type Report struct {
	Zone        ZoneStats        `json:"zone"`
	Segments    SegmentStats     `json:"segments"`
	Aggregation AggregationStats `json:"aggregation"`
	Build       BuildStats       `json:"build"`
	Merges      []MergeReport    `json:"merges"`
	Nodes       int              `json:"nodes"`
	Edges       int              `json:"edges"`
}

// MalformedRecords is the number of schedule rows excluded from hop extraction.
func (r Report) MalformedRecords() int {
	return r.Segments.MalformedSequence + r.Segments.MalformedArrival
}

// Ambiguities returns every structural ambiguity found by the merge passes.
func (r Report) Ambiguities() []EdgeRef {
	var refs []EdgeRef
	for _, merge := range r.Merges {
		refs = append(refs, merge.Ambiguities...)
	}
	return refs
}
