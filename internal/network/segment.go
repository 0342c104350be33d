package network

import (
	"sort"
	"strconv"
	"strings"
)

// Segment is the ordered stop sequence of one run and the hops derived from it.
type Segment struct {
	TripID string
	Visits []Visit
	Hops   []Hop

	MalformedSequence int
	MalformedArrival  int
	// SkippedHops counts adjacent pairs dropped because one side had no usable arrival time.
	SkippedHops int
}

type sequencedRow struct {
	sequence int
	row      ScheduleRow
}

// SegmentTrip orders the rows of one run by stop sequence and emits every
// adjacent pair of visits as a candidate hop. Rows whose sequence is not a
// number cannot be placed and are dropped. Rows with an unreadable arrival
// keep their place but produce no hop, so no hop ever spans a stop.
func SegmentTrip(tripID string, rows []ScheduleRow) Segment {
	segment := Segment{TripID: tripID}

	ordered := make([]sequencedRow, 0, len(rows))
	for _, row := range rows {
		seq, err := strconv.Atoi(strings.TrimSpace(row.Sequence))
		if err != nil {
			segment.MalformedSequence++
			continue
		}
		ordered = append(ordered, sequencedRow{sequence: seq, row: row})
	}

	// Stable: rows sharing a sequence number keep their feed order.
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].sequence < ordered[j].sequence
	})

	segment.Visits = make([]Visit, 0, len(ordered))
	for _, item := range ordered {
		visit := Visit{
			StopID:  NormalizeID(item.row.StopID),
			Arrival: item.row.ArrivalTime,
		}
		minutes, err := ParseClock(item.row.ArrivalTime)
		if err != nil {
			segment.MalformedArrival++
		} else {
			visit.Minutes = minutes
			visit.Valid = true
		}
		segment.Visits = append(segment.Visits, visit)
	}

	for i := 0; i+1 < len(segment.Visits); i++ {
		from, to := segment.Visits[i], segment.Visits[i+1]
		if !from.Valid || !to.Valid {
			segment.SkippedHops++
			continue
		}
		segment.Hops = append(segment.Hops, Hop{TripID: tripID, From: from, To: to})
	}

	return segment
}
