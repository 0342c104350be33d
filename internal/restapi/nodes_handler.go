package restapi

import (
	"net/http"
	"strings"

	"busgraph.opentransit.org/internal/models"
	"busgraph.opentransit.org/internal/network"
	"busgraph.opentransit.org/internal/utils"
)

func (api *RestAPI) nodesHandler(w http.ResponseWriter, r *http.Request) {
	name, err := utils.ValidateAndSanitizeQuery(r.URL.Query().Get("name"))
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"name": {err.Error()},
		})
		return
	}

	g := api.Graph
	needle := network.NormalizeName(name)

	list := make([]models.Node, 0)
	for _, node := range g.Nodes() {
		if needle != "" && !strings.Contains(network.NormalizeName(node.Name), needle) {
			continue
		}
		list = append(list, models.NewNode(node, len(g.InEdges(node.ID)), len(g.OutEdges(node.ID))))
	}

	api.sendResponse(w, r, models.NewListResponse(list, models.NewEmptyReferences()))
}
