package restapi

import (
	"net/http"

	"busgraph.opentransit.org/internal/export"
)

// networkGeoJSONHandler serves the whole graph as a GeoJSON FeatureCollection.
func (api *RestAPI) networkGeoJSONHandler(w http.ResponseWriter, r *http.Request) {
	body, err := export.FeatureCollection(api.Graph).MarshalJSON()
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	if _, err := w.Write(body); err != nil {
		api.Logger.Error("failed to write network geojson", "error", err)
	}
}
