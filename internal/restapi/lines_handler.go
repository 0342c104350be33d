package restapi

import (
	"net/http"

	"busgraph.opentransit.org/internal/models"
)

func (api *RestAPI) linesHandler(w http.ResponseWriter, r *http.Request) {
	lines := models.LinesForEdges(api.Graph.Edges())
	api.sendResponse(w, r, models.NewListResponse(lines, models.NewEmptyReferences()))
}
