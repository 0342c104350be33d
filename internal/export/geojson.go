package export

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	geojson "github.com/paulmach/go.geojson"

	"busgraph.opentransit.org/internal/logging"
	"busgraph.opentransit.org/internal/network"
)

// FeatureCollection renders nodes as Point features followed by edges as
// two-point LineString features, both in graph order.
func FeatureCollection(g *network.Graph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, node := range g.Nodes() {
		feature := geojson.NewPointFeature([]float64{node.Lon, node.Lat})
		feature.ID = node.ID
		feature.SetProperty("kind", "node")
		feature.SetProperty("id", node.ID)
		feature.SetProperty("name", node.Name)
		if len(node.Members) > 0 {
			feature.SetProperty("members", node.Members)
		}
		fc.AddFeature(feature)
	}

	for _, edge := range g.Edges() {
		from, okFrom := g.Node(edge.From)
		to, okTo := g.Node(edge.To)
		if !okFrom || !okTo {
			continue
		}
		feature := geojson.NewLineStringFeature([][]float64{
			{from.Lon, from.Lat},
			{to.Lon, to.Lat},
		})
		feature.SetProperty("kind", "edge")
		feature.SetProperty("from", edge.From)
		feature.SetProperty("to", edge.To)
		feature.SetProperty("line", edge.Line)
		feature.SetProperty("weight", edge.Weight)
		feature.SetProperty("samples", edge.Samples)
		fc.AddFeature(feature)
	}

	return fc
}

// WriteGeoJSON writes the graph as a GeoJSON FeatureCollection.
func WriteGeoJSON(w io.Writer, g *network.Graph) error {
	b, err := FeatureCollection(g).MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding geojson: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("writing geojson: %w", err)
	}
	return nil
}

// ExportToGeoJSON writes the graph to fname.
func ExportToGeoJSON(g *network.Graph, fname string) error {
	return writeFile(fname, "close_geojson", func(w io.Writer) error {
		return WriteGeoJSON(w, g)
	})
}

// writeFile creates fname and hands it to write. A failing close is
// reported when write itself succeeded.
func writeFile(fname, operation string, write func(io.Writer) error) (err error) {
	file, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("can't create file: %w", err)
	}
	defer logging.HandleDeferredError(&err, file.Close, slog.Default(), operation)

	return write(file)
}
