package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"busgraph.opentransit.org/internal/network"
)

// ZoneTableOptions describes the layout of a zone lookup CSV.
type ZoneTableOptions struct {
	Separator  rune
	StopColumn string
	ZoneColumn string
}

// DefaultZoneTableOptions matches the municipal zone export: semicolon
// separated with Italian column headers.
func DefaultZoneTableOptions() ZoneTableOptions {
	return ZoneTableOptions{
		Separator:  ';',
		StopColumn: "codice_fermata",
		ZoneColumn: "codice_zona",
	}
}

// LoadZoneTable reads a zone lookup table. Rows with fewer fields than the
// header are skipped. A header without the configured columns is a
// configuration error.
func LoadZoneTable(r io.Reader, opts ZoneTableOptions) ([]network.ZoneEntry, error) {
	defaults := DefaultZoneTableOptions()
	if opts.Separator == 0 {
		opts.Separator = defaults.Separator
	}
	if opts.StopColumn == "" {
		opts.StopColumn = defaults.StopColumn
	}
	if opts.ZoneColumn == "" {
		opts.ZoneColumn = defaults.ZoneColumn
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: zone table is empty", network.ErrConfiguration)
	}
	if err != nil {
		return nil, fmt.Errorf("reading zone table header: %w", err)
	}

	stopIdx, zoneIdx := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case strings.EqualFold(name, opts.StopColumn):
			stopIdx = i
		case strings.EqualFold(name, opts.ZoneColumn):
			zoneIdx = i
		}
	}
	if stopIdx < 0 {
		return nil, fmt.Errorf("%w: zone table has no %q column", network.ErrConfiguration, opts.StopColumn)
	}
	if zoneIdx < 0 {
		return nil, fmt.Errorf("%w: zone table has no %q column", network.ErrConfiguration, opts.ZoneColumn)
	}

	var entries []network.ZoneEntry
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading zone table: %w", err)
		}
		if len(record) <= stopIdx || len(record) <= zoneIdx {
			continue
		}
		entries = append(entries, network.ZoneEntry{
			StopCode: record[stopIdx],
			ZoneCode: record[zoneIdx],
		})
	}
	return entries, nil
}

// LoadZoneFile opens path and reads it with LoadZoneTable. A missing file is
// a configuration error.
func LoadZoneFile(path string, opts ZoneTableOptions) ([]network.ZoneEntry, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: zone table %s: %w", network.ErrConfiguration, path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("error opening zone table: %w", err)
	}
	defer f.Close() // nolint

	return LoadZoneTable(f, opts)
}
