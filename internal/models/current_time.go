package models

import "time"

// Clock is the server time in the units the schedule uses: epoch
// milliseconds for clients and minutes into the local service day for
// comparing against edge weights and stop times.
type Clock struct {
	Time             int64   `json:"time"`
	ReadableTime     string  `json:"readableTime"`
	TimeZone         string  `json:"timeZone"`
	UTCOffsetSeconds int     `json:"utcOffsetSeconds"`
	ServiceDay       string  `json:"serviceDay"`
	ServiceMinutes   float64 `json:"serviceMinutes"`
}

// NewClock reads t in loc. A nil loc means UTC.
func NewClock(t time.Time, loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	zone, offset := local.Zone()
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	return Clock{
		Time:             t.UnixMilli(),
		ReadableTime:     local.Format(time.RFC3339),
		TimeZone:         zone,
		UTCOffsetSeconds: offset,
		ServiceDay:       local.Format(time.DateOnly),
		ServiceMinutes:   local.Sub(midnight).Minutes(),
	}
}
