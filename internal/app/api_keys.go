package app

import "net/http"

// APIKeysEnabled reports whether requests must carry a key.
func (app *Application) APIKeysEnabled() bool {
	return len(app.Config.Server.APIKeys) > 0
}

func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	if !app.APIKeysEnabled() {
		return false
	}
	key := r.URL.Query().Get("key")
	return app.IsInvalidAPIKey(key)
}

func (app *Application) IsInvalidAPIKey(key string) bool {
	if key == "" {
		return true
	}

	for _, validKey := range app.Config.Server.APIKeys {
		if key == validKey {
			return false
		}
	}

	return true
}
