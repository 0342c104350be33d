package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	geojson "github.com/paulmach/go.geojson"

	"busgraph.opentransit.org/internal/network"
)

// NodesFile and EdgesFile return the names ExportToCSV writes for fname.
func NodesFile(fname string) string {
	return strings.TrimSuffix(fname, ".csv") + "_nodes.csv"
}

func EdgesFile(fname string) string {
	return strings.TrimSuffix(fname, ".csv") + "_edges.csv"
}

// ExportToCSV writes <base>_nodes.csv and <base>_edges.csv, semicolon separated.
func ExportToCSV(g *network.Graph, fname string) error {
	if err := exportNodesToCSV(g, NodesFile(fname)); err != nil {
		return fmt.Errorf("can't export nodes: %w", err)
	}
	if err := exportEdgesToCSV(g, EdgesFile(fname)); err != nil {
		return fmt.Errorf("can't export edges: %w", err)
	}
	return nil
}

func exportNodesToCSV(g *network.Graph, fname string) error {
	return writeCSV(fname, []string{"id", "name", "lat", "lon", "members", "geom"}, func(writer *csv.Writer) error {
		for _, node := range g.Nodes() {
			err := writer.Write([]string{
				node.ID,
				node.Name,
				formatFloat(node.Lat),
				formatFloat(node.Lon),
				strings.Join(node.Members, ","),
				pointGeometry(node),
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func exportEdgesToCSV(g *network.Graph, fname string) error {
	return writeCSV(fname, []string{"from", "to", "line", "weight", "samples", "geom"}, func(writer *csv.Writer) error {
		for _, edge := range g.Edges() {
			from, _ := g.Node(edge.From)
			to, _ := g.Node(edge.To)
			err := writer.Write([]string{
				edge.From,
				edge.To,
				edge.Line,
				formatFloat(edge.Weight),
				strconv.Itoa(edge.Samples),
				lineGeometry(from, to),
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(fname string, header []string, rows func(*csv.Writer) error) error {
	return writeFile(fname, "close_csv", func(w io.Writer) error {
		writer := csv.NewWriter(w)
		writer.Comma = ';'

		if err := writer.Write(header); err != nil {
			return fmt.Errorf("can't write header: %w", err)
		}
		if err := rows(writer); err != nil {
			return fmt.Errorf("can't write row: %w", err)
		}

		writer.Flush()
		if err := writer.Error(); err != nil {
			return fmt.Errorf("can't flush: %w", err)
		}
		return nil
	})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pointGeometry(node network.Node) string {
	b, err := geojson.NewPointGeometry([]float64{node.Lon, node.Lat}).MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

func lineGeometry(from, to network.Node) string {
	b, err := geojson.NewLineStringGeometry([][]float64{{from.Lon, from.Lat}, {to.Lon, to.Lat}}).MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}
