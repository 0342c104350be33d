package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/current-time.json", validateAPIKey(api, api.currentTimeHandler))
	router.Handler(http.MethodGet, "/api/graph/stats.json", validateAPIKey(api, api.graphStatsHandler))
	router.Handler(http.MethodGet, "/api/graph/nodes.json", validateAPIKey(api, api.nodesHandler))
	router.Handler(http.MethodGet, "/api/graph/node/:id", validateAPIKey(api, api.nodeHandler))
	router.Handler(http.MethodGet, "/api/graph/edges.json", validateAPIKey(api, api.edgesHandler))
	router.Handler(http.MethodGet, "/api/graph/lines.json", validateAPIKey(api, api.linesHandler))
	router.Handler(http.MethodGet, "/api/graph/network.geojson", validateAPIKey(api, api.networkGeoJSONHandler))

	router.NotFound = http.HandlerFunc(api.sendNotFound)
}
