package network

// Stop is one stop record of the schedule feed.
type Stop struct {
	ID       string
	Name     string
	Lat      float64
	Lon      float64
	ZoneCode string
}

// Trip binds one scheduled run to the line it belongs to.
type Trip struct {
	ID     string
	LineID string
}

// ScheduleRow is one stop time of a run. Sequence and ArrivalTime are kept
// as they appear in the feed and are validated by SegmentTrip.
type ScheduleRow struct {
	TripID      string
	StopID      string
	Sequence    string
	ArrivalTime string
}

// ZoneEntry is one row of the stop code to zone code lookup table.
type ZoneEntry struct {
	StopCode string
	ZoneCode string
}

// HopKey identifies a directed hop served by one line.
type HopKey struct {
	From string
	To   string
	Line string
}

// Less orders keys by origin, destination and line.
func (k HopKey) Less(other HopKey) bool {
	if k.From != other.From {
		return k.From < other.From
	}
	if k.To != other.To {
		return k.To < other.To
	}
	return k.Line < other.Line
}

// Visit is a stop reached by a run at a given time of the service day.
type Visit struct {
	StopID  string
	Arrival string
	Minutes float64
	// Valid is false when Arrival could not be parsed.
	Valid bool
}

// Hop is a candidate traversal between two consecutive visits of a run.
type Hop struct {
	TripID string
	From   Visit
	To     Visit
}

// AggregatedEdge is the mean travel time of every sample collected for Key.
type AggregatedEdge struct {
	Key     HopKey
	Weight  float64
	Samples int
}
