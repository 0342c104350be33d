package restapi

import (
	"net/http"
	"time"

	"busgraph.opentransit.org/internal/models"
)

func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	clock := models.NewClock(time.Now(), time.Local)
	api.sendResponse(w, r, models.NewEntryResponse(clock, models.NewEmptyReferences()))
}
