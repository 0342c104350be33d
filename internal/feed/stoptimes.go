package feed

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"busgraph.opentransit.org/internal/network"
)

const stopTimesFile = "stop_times.txt"

// ReadStopTimes reads stop_times.txt straight from a GTFS zip. Arrival times
// and stop sequences are returned exactly as written so blank or malformed
// values reach SegmentTrip instead of being filled in or dropped by a parser.
func ReadStopTimes(archive []byte) ([]network.ScheduleRow, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("error opening GTFS archive: %w", err)
	}

	var entry *zip.File
	for _, f := range zr.File {
		if path.Base(f.Name) == stopTimesFile {
			entry = f
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("GTFS archive has no %s", stopTimesFile)
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", stopTimesFile, err)
	}
	defer rc.Close() // nolint

	return readStopTimes(rc)
}

func readStopTimes(r io.Reader) ([]network.ScheduleRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", stopTimesFile, err)
	}

	columns := map[string]int{"trip_id": -1, "stop_id": -1, "stop_sequence": -1, "arrival_time": -1}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if idx, ok := columns[name]; ok && idx < 0 {
			columns[name] = i
		}
	}
	for _, name := range []string{"trip_id", "stop_id", "stop_sequence"} {
		if columns[name] < 0 {
			return nil, fmt.Errorf("%s has no %q column", stopTimesFile, name)
		}
	}

	field := func(record []string, name string) string {
		idx := columns[name]
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var rows []network.ScheduleRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", stopTimesFile, err)
		}
		rows = append(rows, network.ScheduleRow{
			TripID:      strings.TrimSpace(field(record, "trip_id")),
			StopID:      strings.TrimSpace(field(record, "stop_id")),
			Sequence:    field(record, "stop_sequence"),
			ArrivalTime: field(record, "arrival_time"),
		})
	}
	return rows, nil
}
