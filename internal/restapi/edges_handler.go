package restapi

import (
	"net/http"

	"busgraph.opentransit.org/internal/models"
	"busgraph.opentransit.org/internal/network"
	"busgraph.opentransit.org/internal/utils"
)

type edgeFilter struct {
	line       string
	from       string
	to         string
	maxWeight  float64
	hasMax     bool
	minSamples int
}

func (f edgeFilter) match(edge network.Edge) bool {
	if f.line != "" && edge.Line != f.line {
		return false
	}
	if f.from != "" && edge.From != f.from {
		return false
	}
	if f.to != "" && edge.To != f.to {
		return false
	}
	if f.hasMax && edge.Weight > f.maxWeight {
		return false
	}
	return edge.Samples >= f.minSamples
}

func parseEdgeFilter(r *http.Request) (edgeFilter, map[string][]string) {
	query := r.URL.Query()
	fieldErrors := make(map[string][]string)

	filter := edgeFilter{
		line: network.NormalizeID(query.Get("line")),
		from: network.NormalizeID(query.Get("from")),
		to:   network.NormalizeID(query.Get("to")),
	}
	for field, value := range map[string]string{"line": filter.line, "from": filter.from, "to": filter.to} {
		if err := utils.ValidateOptionalID(value); err != nil {
			fieldErrors[field] = append(fieldErrors[field], err.Error())
		}
	}

	filter.maxWeight, filter.hasMax = utils.ParseFloatParam(query, "maxWeight", fieldErrors)
	if filter.hasMax && filter.maxWeight < 0 {
		fieldErrors["maxWeight"] = append(fieldErrors["maxWeight"], "maxWeight must not be negative")
	}
	filter.minSamples, _ = utils.ParseIntParam(query, "minSamples", fieldErrors)

	if len(fieldErrors) > 0 {
		return filter, fieldErrors
	}
	return filter, nil
}

func (api *RestAPI) edgesHandler(w http.ResponseWriter, r *http.Request) {
	filter, fieldErrors := parseEdgeFilter(r)
	if fieldErrors != nil {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	g := api.Graph
	candidates := g.Edges()
	if filter.from != "" {
		candidates = g.OutEdges(filter.from)
	}

	matched := make([]network.Edge, 0)
	for _, edge := range candidates {
		if filter.match(edge) {
			matched = append(matched, edge)
		}
	}

	api.sendResponse(w, r, models.NewListResponse(models.NewEdges(matched), edgeReferences(g, matched, "")))
}
