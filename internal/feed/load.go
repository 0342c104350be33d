package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"busgraph.opentransit.org/internal/logging"
	"busgraph.opentransit.org/internal/network"
)

// Source locates the inputs of one run.
type Source struct {
	// GTFS is a path or URL of a static GTFS zip.
	GTFS string
	// ZoneTable is the path of the zone lookup CSV. When empty, stop zone_id
	// values from the feed are used instead.
	ZoneTable string
	Zone      ZoneTableOptions
	Timeout   time.Duration
}

// Load reads the feed and the zone table described by source.
func Load(ctx context.Context, source Source, logger *slog.Logger) (network.Input, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	if source.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, source.Timeout)
		defer cancel()
	}

	archive, err := FetchArchive(ctx, &http.Client{}, source.GTFS)
	if err != nil {
		return network.Input{}, err
	}
	static, err := ParseStatic(archive)
	if err != nil {
		return network.Input{}, err
	}
	for _, warning := range static.Warnings {
		logger.Debug("gtfs parse warning", slog.String("warning", fmt.Sprintf("%v", warning)))
	}

	input := FromStatic(static)
	input.Rows, err = ReadStopTimes(archive)
	if err != nil {
		return network.Input{}, err
	}

	zoneSource := source.ZoneTable
	if source.ZoneTable != "" {
		input.Zones, err = LoadZoneFile(source.ZoneTable, source.Zone)
		if err != nil {
			return network.Input{}, err
		}
	} else {
		zoneSource = "stops.txt zone_id"
		input.Zones = ZonesFromStops(input.Stops)
	}

	logging.LogOperation(logger, "feed_loaded",
		slog.String("component", "feed"),
		slog.String("gtfs", source.GTFS),
		slog.String("zones", zoneSource),
		slog.Int("stops", len(input.Stops)),
		slog.Int("trips", len(input.Trips)),
		slog.Int("stop_times", len(input.Rows)),
		slog.Int("zone_entries", len(input.Zones)),
		slog.Int("warnings", len(static.Warnings)),
		slog.Duration("duration", time.Since(start)))

	return input, nil
}
