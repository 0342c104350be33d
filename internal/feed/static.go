package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/jamespfennell/gtfs"

	"busgraph.opentransit.org/internal/network"
)

// IsURL reports whether source should be downloaded rather than read from disk.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func rawGtfsData(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	if !IsURL(source) {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("error reading local GTFS file: %w", err)
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("error building GTFS request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading GTFS data: %w", err)
	}
	defer resp.Body.Close() // nolint

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading GTFS data: unexpected status %s", resp.Status)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS data: %w", err)
	}
	return b, nil
}

// LoadStatic reads and parses a static GTFS archive from a local path or a URL.
func LoadStatic(ctx context.Context, client *http.Client, source string) (*gtfs.Static, error) {
	archive, err := FetchArchive(ctx, client, source)
	if err != nil {
		return nil, err
	}
	return ParseStatic(archive)
}

// FetchArchive returns the raw bytes of a GTFS zip from a local path or a URL.
func FetchArchive(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	return rawGtfsData(ctx, client, source)
}

// ParseStatic parses a GTFS zip already held in memory.
func ParseStatic(archive []byte) (*gtfs.Static, error) {
	staticData, err := gtfs.ParseStatic(archive, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS data: %w", err)
	}
	return staticData, nil
}

// FromStatic flattens the stops and trips of a parsed feed into the records
// the network pipeline works on. Rows come from ReadStopTimes and zones from
// LoadZoneTable or ZonesFromStops.
func FromStatic(static *gtfs.Static) network.Input {
	var input network.Input
	if static == nil {
		return input
	}

	input.Stops = make([]network.Stop, 0, len(static.Stops))
	for _, stop := range static.Stops {
		record := network.Stop{
			ID:       stop.Id,
			Name:     stop.Name,
			ZoneCode: stop.ZoneId,
		}
		if stop.Latitude != nil {
			record.Lat = *stop.Latitude
		}
		if stop.Longitude != nil {
			record.Lon = *stop.Longitude
		}
		input.Stops = append(input.Stops, record)
	}

	input.Trips = make([]network.Trip, 0, len(static.Trips))
	for i := range static.Trips {
		trip := &static.Trips[i]
		record := network.Trip{ID: trip.ID}
		if trip.Route != nil {
			record.LineID = trip.Route.Id
		}
		input.Trips = append(input.Trips, record)
	}

	return input
}

// ZonesFromStops builds a zone table from the zone_id column of stops.txt,
// for feeds that carry fare zones themselves.
func ZonesFromStops(stops []network.Stop) []network.ZoneEntry {
	var zones []network.ZoneEntry
	for _, stop := range stops {
		if strings.TrimSpace(stop.ZoneCode) == "" {
			continue
		}
		zones = append(zones, network.ZoneEntry{StopCode: stop.ID, ZoneCode: stop.ZoneCode})
	}
	return zones
}
