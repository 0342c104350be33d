package restapi

import (
	"net/http"
	"sort"

	"busgraph.opentransit.org/internal/models"
	"busgraph.opentransit.org/internal/network"
	"busgraph.opentransit.org/internal/utils"
)

func (api *RestAPI) nodeHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.ExtractIDFromParams(r)
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"id": {err.Error()},
		})
		return
	}

	g := api.Graph
	node, ok := models.NodeFromGraph(g, id)
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	outbound := g.OutEdges(id)
	inbound := g.InEdges(id)
	entry := models.NodeEntry{
		Node:     node,
		Outbound: models.NewEdges(outbound),
		Inbound:  models.NewEdges(inbound),
	}

	touching := append(append([]network.Edge{}, outbound...), inbound...)
	api.sendResponse(w, r, models.NewEntryResponse(entry, edgeReferences(g, touching, id)))
}

// edgeReferences lists the nodes at either end of edges, except skip, and
// the lines that serve them.
func edgeReferences(g *network.Graph, edges []network.Edge, skip string) models.ReferencesModel {
	references := models.NewEmptyReferences()

	seen := map[string]bool{skip: true}
	var ids []string
	for _, edge := range edges {
		for _, id := range []string{edge.From, edge.To} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		if node, ok := models.NodeFromGraph(g, id); ok {
			references.Nodes = append(references.Nodes, node)
		}
	}

	references.Lines = models.LinesForEdges(edges)
	return references
}
