package restapi

import (
	"net/http"

	"busgraph.opentransit.org/internal/models"
)

// graphStatsHandler reports the size of the graph and the diagnostics
// collected while it was built.
func (api *RestAPI) graphStatsHandler(w http.ResponseWriter, r *http.Request) {
	g := api.Graph
	lines := models.LinesForEdges(g.Edges())

	stats := models.GraphStats{
		Nodes:    g.NodeCount(),
		Edges:    g.EdgeCount(),
		Lines:    len(lines),
		EdgeMode: string(g.Mode()),
		RunID:    api.RunID,
		Source:   api.Source,
		Report:   api.Report,
	}

	references := models.NewEmptyReferences()
	references.Lines = lines
	api.sendResponse(w, r, models.NewEntryResponse(stats, references))
}
