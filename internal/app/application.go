package app

import (
	"log/slog"

	"busgraph.opentransit.org/internal/config"
	"busgraph.opentransit.org/internal/network"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware: the configuration, a logger and the finished graph.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	// Graph is read-only once the application is built.
	Graph  *network.Graph
	Report network.Report
	// RunID and Source identify where Graph came from. RunID is empty for
	// graphs that were not stored.
	RunID  string
	Source string
}

// New builds an Application around a finished graph.
func New(cfg *config.Config, logger *slog.Logger, g *network.Graph, report network.Report) *Application {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Application{
		Config: cfg,
		Logger: logger,
		Graph:  g,
		Report: report,
	}
}
