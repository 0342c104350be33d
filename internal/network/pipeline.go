package network

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"busgraph.opentransit.org/internal/logging"
)

// Input holds the records of one schedule feed.
type Input struct {
	Stops []Stop
	Trips []Trip
	Rows  []ScheduleRow
	Zones []ZoneEntry
}

// Options configures a pipeline run.
type Options struct {
	TargetZone string
	EdgeMode   EdgeMode
	// Workers above one segments trips concurrently.
	Workers     int
	MergeByName bool
	// MergeNames lists display names merged one at a time, after MergeByName.
	MergeNames []string
}

// Result is the finished graph and the diagnostics collected while building it.
type Result struct {
	Graph  *Graph
	Report Report
}

// Pipeline turns a schedule feed into a network graph.
type Pipeline struct {
	options Options
	logger  *slog.Logger
}

func NewPipeline(options Options, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		options: options,
		logger:  logger.With(slog.String("component", "network")),
	}
}

type tripRows struct {
	id   string
	rows []ScheduleRow
}

// Run executes zone filtering, segmentation, aggregation, graph building and
// the configured merges. Configuration problems are reported as
// ErrConfiguration before any graph is built; bad rows are only counted.
func (p *Pipeline) Run(input Input) (*Result, error) {
	start := time.Now()

	mode, err := ParseEdgeMode(string(p.options.EdgeMode))
	if err != nil {
		return nil, err
	}
	if NormalizeID(p.options.TargetZone) == "" {
		return nil, fmt.Errorf("%w: target zone is not set", ErrConfiguration)
	}
	if len(input.Zones) == 0 {
		return nil, fmt.Errorf("%w: zone lookup table is empty", ErrConfiguration)
	}

	var report Report

	zone := FilterZone(input.Stops, input.Zones, p.options.TargetZone)
	report.Zone = ZoneStats{
		TargetZone: NormalizeID(p.options.TargetZone),
		Eligible:   zone.Eligible,
		Matched:    zone.Matched,
		Missing:    zone.Missing,
	}
	logging.LogOperation(p.logger, "zone_filtered",
		slog.String("target_zone", report.Zone.TargetZone),
		slog.Int("eligible", zone.Eligible),
		slog.Int("matched", zone.Matched),
		slog.Int("missing", len(zone.Missing)))
	if len(zone.Missing) > 0 {
		logging.LogWarning(p.logger, "zone codes without stop record",
			slog.Int("count", len(zone.Missing)),
			slog.Any("codes", firstN(zone.Missing, 20)))
	}
	if zone.Matched == 0 {
		return nil, fmt.Errorf("%w: target zone %q matches no stop", ErrConfiguration, report.Zone.TargetZone)
	}

	tripLines := make(map[string]string, len(input.Trips))
	for _, trip := range input.Trips {
		if line := NormalizeID(trip.LineID); line != "" {
			tripLines[NormalizeID(trip.ID)] = line
		}
	}

	trips := groupRows(input.Rows)
	aggregator, segments := p.aggregate(trips, tripLines, zone)
	report.Segments = segments

	edges := aggregator.Edges()
	report.Aggregation = AggregationStats{
		AggregateStats: aggregator.Stats(),
		Keys:           aggregator.Keys(),
	}
	for _, edge := range edges {
		if edge.Samples == 1 {
			report.Aggregation.LowConfidence++
		}
	}
	logging.LogOperation(p.logger, "hops_aggregated",
		slog.Int("trips", segments.Trips),
		slog.Int("hops", segments.Hops),
		slog.Int("accepted", report.Aggregation.Accepted),
		slog.Int("out_of_zone", report.Aggregation.OutOfZone),
		slog.Int("keys", report.Aggregation.Keys),
		slog.Int("rollovers", report.Aggregation.Rollovers))
	if segments.UnresolvedTrips > 0 {
		logging.LogWarning(p.logger, "trips without line",
			slog.Int("trips", segments.UnresolvedTrips),
			slog.Int("dropped_hops", report.Aggregation.UnresolvedLine))
	}
	if malformed := report.MalformedRecords(); malformed > 0 {
		logging.LogWarning(p.logger, "malformed schedule rows excluded",
			slog.Int("malformed_sequence", segments.MalformedSequence),
			slog.Int("malformed_arrival", segments.MalformedArrival),
			slog.Int("skipped_hops", segments.SkippedHops))
	}
	if report.Aggregation.LowConfidence > 0 {
		logging.LogWarning(p.logger, "edges backed by a single sample",
			slog.Int("edges", report.Aggregation.LowConfidence))
	}

	zoneStops := make([]Stop, 0, zone.Matched)
	for _, stop := range input.Stops {
		if zone.Contains(NormalizeID(stop.ID)) {
			zoneStops = append(zoneStops, stop)
		}
	}

	graph, build, err := BuildGraph(zoneStops, edges, mode)
	if err != nil {
		return nil, fmt.Errorf("building graph: %w", err)
	}
	report.Build = build
	logging.LogOperation(p.logger, "graph_built",
		slog.String("edge_mode", string(mode)),
		slog.Int("nodes", build.Nodes),
		slog.Int("edges", build.Edges),
		slog.Int("self_loops", build.SelfLoops))
	if build.Collapsed > 0 {
		logging.LogWarning(p.logger, "edges collapsed on shared stop pairs",
			slog.Int("collapsed", build.Collapsed),
			slog.String("edge_mode", string(mode)))
	}
	if build.DuplicateStops > 0 {
		logging.LogWarning(p.logger, "duplicate stop ids ignored",
			slog.Int("count", build.DuplicateStops))
	}

	report.Merges = []MergeReport{}
	if p.options.MergeByName {
		merge, err := MergeByName(graph)
		if err != nil {
			return nil, err
		}
		p.logMerge(merge)
		report.Merges = append(report.Merges, merge)
	}
	for _, name := range p.options.MergeNames {
		merge, err := MergeOneName(graph, name)
		if err != nil {
			return nil, err
		}
		p.logMerge(merge)
		report.Merges = append(report.Merges, merge)
	}

	report.Nodes = graph.NodeCount()
	report.Edges = graph.EdgeCount()
	logging.LogOperation(p.logger, "network_ready",
		slog.Int("nodes", report.Nodes),
		slog.Int("edges", report.Edges),
		slog.Duration("duration", time.Since(start)))
	for _, edge := range firstN(graph.Edges(), 5) {
		p.logger.Debug("sample edge",
			slog.String("from", edge.From),
			slog.String("to", edge.To),
			slog.String("line", edge.Line),
			slog.Float64("weight", edge.Weight),
			slog.Int("samples", edge.Samples))
	}

	return &Result{Graph: graph, Report: report}, nil
}

func (p *Pipeline) aggregate(trips []tripRows, tripLines map[string]string, zone ZoneResult) (*Aggregator, SegmentStats) {
	workers := p.options.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(trips) {
		workers = len(trips)
	}
	if workers <= 1 {
		return processTrips(trips, tripLines, zone)
	}

	chunk := (len(trips) + workers - 1) / workers
	aggregators := make([]*Aggregator, workers)
	stats := make([]SegmentStats, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(trips))
		if lo >= hi {
			aggregators[w] = NewAggregator(zone)
			continue
		}
		wg.Add(1)
		go func(w int, part []tripRows) {
			defer wg.Done()
			aggregators[w], stats[w] = processTrips(part, tripLines, zone)
		}(w, trips[lo:hi])
	}
	wg.Wait()

	total := NewAggregator(zone)
	var segments SegmentStats
	for w := range aggregators {
		total.Merge(aggregators[w])
		segments.merge(stats[w])
	}
	return total, segments
}

func processTrips(trips []tripRows, tripLines map[string]string, zone ZoneResult) (*Aggregator, SegmentStats) {
	aggregator := NewAggregator(zone)
	var stats SegmentStats
	for _, trip := range trips {
		segment := SegmentTrip(trip.id, trip.rows)
		stats.add(segment)

		line := tripLines[trip.id]
		if line == "" {
			stats.UnresolvedTrips++
		}
		for _, hop := range segment.Hops {
			aggregator.Add(hop, line)
		}
	}
	return aggregator, stats
}

// groupRows splits rows by trip, keeping feed order inside each trip, and
// returns the trips sorted by id.
func groupRows(rows []ScheduleRow) []tripRows {
	index := make(map[string]int)
	var trips []tripRows
	for _, row := range rows {
		id := NormalizeID(row.TripID)
		i, ok := index[id]
		if !ok {
			i = len(trips)
			index[id] = i
			trips = append(trips, tripRows{id: id})
		}
		trips[i].rows = append(trips[i].rows, row)
	}
	sort.Slice(trips, func(i, j int) bool {
		return trips[i].id < trips[j].id
	})
	return trips
}

func (p *Pipeline) logMerge(merge MergeReport) {
	if merge.NoOp {
		logging.LogOperation(p.logger, "merge_skipped",
			slog.String("mode", string(merge.Mode)),
			slog.String("target", merge.Target),
			slog.String("reason", "fewer than two matching nodes"))
		return
	}
	logging.LogOperation(p.logger, "nodes_merged",
		slog.String("mode", string(merge.Mode)),
		slog.String("target", merge.Target),
		slog.Int("super_nodes", len(merge.Merged)),
		slog.Int("rehomed", merge.Rehomed),
		slog.Int("self_loops", merge.SelfLoops),
		slog.Int("combined", merge.Combined),
		slog.Int("duplicates_removed", merge.DuplicatesRemoved))
	for _, ref := range merge.Ambiguities {
		logging.LogWarning(p.logger, "direct edge between merge candidates",
			slog.String("from", ref.From),
			slog.String("to", ref.To),
			slog.String("line", ref.Line),
			slog.Float64("weight", ref.Weight))
	}
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
