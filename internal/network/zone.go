package network

import (
	"sort"
)

// ZoneResult is the outcome of FilterZone.
type ZoneResult struct {
	// IDs holds the stop ids that are both in the target zone and in the feed.
	IDs map[string]struct{}
	// Eligible counts distinct stop codes the zone table assigns to the target zone.
	Eligible int
	// Matched counts eligible codes that resolve to a stop record.
	Matched int
	// Missing lists eligible codes with no stop record, sorted.
	Missing []string
}

// Contains reports whether stopID belongs to the filtered zone.
func (z ZoneResult) Contains(stopID string) bool {
	_, ok := z.IDs[stopID]
	return ok
}

// FilterZone selects the stops whose code is assigned to targetZone by the
// zone table. Stop ids, stop codes and zone codes are normalized before they
// are compared.
func FilterZone(stops []Stop, zones []ZoneEntry, targetZone string) ZoneResult {
	target := NormalizeID(targetZone)

	eligible := make(map[string]struct{})
	for _, entry := range zones {
		if NormalizeID(entry.ZoneCode) != target {
			continue
		}
		code := NormalizeID(entry.StopCode)
		if code == "" {
			continue
		}
		eligible[code] = struct{}{}
	}

	known := make(map[string]struct{}, len(stops))
	for _, stop := range stops {
		known[NormalizeID(stop.ID)] = struct{}{}
	}

	result := ZoneResult{
		IDs:      make(map[string]struct{}),
		Eligible: len(eligible),
		Missing:  []string{},
	}
	for code := range eligible {
		if _, ok := known[code]; ok {
			result.IDs[code] = struct{}{}
			continue
		}
		result.Missing = append(result.Missing, code)
	}
	result.Matched = len(result.IDs)
	sort.Strings(result.Missing)

	return result
}
