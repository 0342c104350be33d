package restapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"busgraph.opentransit.org/internal/app"
	"busgraph.opentransit.org/internal/config"
	"busgraph.opentransit.org/internal/logging"
	"busgraph.opentransit.org/internal/models"
	"busgraph.opentransit.org/internal/network"
)

// testGraph is a three-stop network served by lines 11 and 27.
func testGraph(t *testing.T) *network.Graph {
	t.Helper()
	g := network.NewGraph(network.EdgeModeCollapse)
	g.AddNode(network.Node{ID: "100", Name: "Piazza Maggiore", Lat: 44.4939, Lon: 11.3428})
	g.AddNode(network.Node{ID: "101", Name: "Stazione Centrale", Lat: 44.5058, Lon: 11.3426})
	g.AddNode(network.Node{ID: "102", Name: "Ospedale Maggiore", Lat: 44.4997, Lon: 11.2921})

	for _, edge := range []network.Edge{
		{From: "100", To: "101", Line: "11", Weight: 4, Samples: 3},
		{From: "101", To: "102", Line: "11", Weight: 6, Samples: 2},
		{From: "102", To: "100", Line: "27", Weight: 5, Samples: 1},
		{From: "101", To: "100", Line: "27", Weight: 3.5, Samples: 4},
	} {
		_, err := g.AddEdge(edge)
		require.NoError(t, err)
	}
	return g
}

func createTestApiWithConfig(t *testing.T, cfg *config.Config) *RestAPI {
	t.Helper()
	logger := logging.NewStructuredLogger(io.Discard, slog.LevelError)
	application := app.New(cfg, logger, testGraph(t), network.Report{Nodes: 3, Edges: 4})
	application.Source = "testdata/feed.zip"
	return NewRestAPI(application)
}

// createTestApi creates a RestAPI over testGraph without API keys or rate limiting.
func createTestApi(t *testing.T) *RestAPI {
	return createTestApiWithConfig(t, &config.Config{})
}

// serveAndRetrieveEndpoint sets up a test server, makes a request to the specified endpoint, and returns the response
// and decoded model.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)

	return resp, response
}

// serveAndRetrieveFieldErrors requests an endpoint expected to fail validation.
func serveAndRetrieveFieldErrors(t *testing.T, endpoint string) (*http.Response, map[string][]string) {
	api := createTestApi(t)
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body.FieldErrors
}

func dataMap(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object, got %T", model.Data)
	return data
}

func dataList(t *testing.T, model models.ResponseModel) []interface{} {
	t.Helper()
	list, ok := dataMap(t, model)["list"].([]interface{})
	require.True(t, ok)
	return list
}

func dataEntry(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	entry, ok := dataMap(t, model)["entry"].(map[string]interface{})
	require.True(t, ok)
	return entry
}

func dataReferences(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	references, ok := dataMap(t, model)["references"].(map[string]interface{})
	require.True(t, ok)
	return references
}

func fieldValues(t *testing.T, items []interface{}, field string) []string {
	t.Helper()
	out := make([]string, 0, len(items))
	for _, item := range items {
		object, ok := item.(map[string]interface{})
		require.True(t, ok)
		out = append(out, object[field].(string))
	}
	return out
}
