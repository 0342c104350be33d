package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"busgraph.opentransit.org/internal/app"
	"busgraph.opentransit.org/internal/config"
	"busgraph.opentransit.org/internal/export"
	"busgraph.opentransit.org/internal/feed"
	"busgraph.opentransit.org/internal/logging"
	"busgraph.opentransit.org/internal/network"
)

// latestRun selects the newest stored run.
const latestRun = "latest"

// buildApplication either runs the pipeline over the configured feed or, when
// runID is set, reloads a stored graph.
func buildApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, runID string) (*app.Application, error) {
	if runID != "" {
		return loadStoredRun(ctx, cfg, logger, runID)
	}
	return buildNetwork(ctx, cfg, logger)
}

func buildNetwork(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app.Application, error) {
	input, err := feed.Load(ctx, feed.Source{
		GTFS:      cfg.Feed.GTFS,
		ZoneTable: cfg.Feed.ZoneTable,
		Zone:      cfg.ZoneTableOptions(),
		Timeout:   time.Duration(cfg.Feed.TimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		return nil, err
	}

	result, err := network.NewPipeline(cfg.PipelineOptions(), logger).Run(input)
	if err != nil {
		return nil, err
	}

	runID, err := writeExports(ctx, cfg, logger, result)
	if err != nil {
		return nil, err
	}

	logging.LogOperation(logger, "run_complete",
		slog.String("run_id", runID),
		slog.Int("nodes", result.Report.Nodes),
		slog.Int("edges", result.Report.Edges),
		slog.Int("malformed_records", result.Report.MalformedRecords()),
		slog.Int("ambiguities", len(result.Report.Ambiguities())))

	application := app.New(cfg, logger, result.Graph, result.Report)
	application.RunID = runID
	application.Source = cfg.Feed.GTFS
	return application, nil
}

// writeExports writes every configured output and returns the stored run id,
// empty when no SQLite store is configured.
func writeExports(ctx context.Context, cfg *config.Config, logger *slog.Logger, result *network.Result) (string, error) {
	g := result.Graph

	if path := cfg.Export.GeoJSON; path != "" {
		if err := export.ExportToGeoJSON(g, path); err != nil {
			return "", err
		}
		logger.Info("export written", slog.String("format", "geojson"), slog.String("path", path))
	}

	if path := cfg.Export.CSV; path != "" {
		if err := export.ExportToCSV(g, path); err != nil {
			return "", err
		}
		logger.Info("export written", slog.String("format", "csv"),
			slog.String("nodes", export.NodesFile(path)),
			slog.String("edges", export.EdgesFile(path)))
	}

	if cfg.Export.SQLite == "" {
		return "", nil
	}

	store, err := export.OpenStore(cfg.Export.SQLite, logger)
	if err != nil {
		return "", err
	}
	defer logging.SafeCloseWithLogging(store, logger, "graph_store")

	runID, err := store.SaveGraph(ctx, g, export.RunMeta{
		Source:     cfg.Feed.GTFS,
		TargetZone: cfg.Network.TargetZone,
		Report:     result.Report,
	})
	if err != nil {
		return "", err
	}
	logger.Info("export written", slog.String("format", "sqlite"),
		slog.String("path", cfg.Export.SQLite), slog.String("run_id", runID))
	return runID, nil
}

func loadStoredRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, runID string) (*app.Application, error) {
	if cfg.Export.SQLite == "" {
		return nil, fmt.Errorf("%w: loading a stored run requires export.sqlite", network.ErrConfiguration)
	}

	store, err := export.OpenStore(cfg.Export.SQLite, logger)
	if err != nil {
		return nil, err
	}
	defer logging.SafeCloseWithLogging(store, logger, "graph_store")

	if runID == latestRun {
		run, err := store.LatestRun(ctx)
		if err != nil {
			return nil, err
		}
		runID = run.ID
	}

	g, run, err := store.LoadGraph(ctx, runID)
	if err != nil {
		return nil, err
	}

	var report network.Report
	if run.Report != nil {
		report = *run.Report
	}

	logger.Info("stored run loaded",
		slog.String("run_id", run.ID),
		slog.Time("created_at", run.CreatedAt),
		slog.String("source", run.Source),
		slog.Int("nodes", g.NodeCount()),
		slog.Int("edges", g.EdgeCount()))

	application := app.New(cfg, logger, g, report)
	application.RunID = run.ID
	application.Source = run.Source
	return application, nil
}
