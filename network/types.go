package network

import "fmt"

// SecondsPerDay bounds every Time value
const SecondsPerDay = 86400

// StationID identifies a station in the network
type StationID string

// TrainID identifies a train service
type TrainID string

// IntervalID is the directed pair of stations an interval connects
type IntervalID struct {
	From StationID
	To   StationID
}

// Reverse returns the opposite direction of the same interval
func (id IntervalID) Reverse() IntervalID {
	return IntervalID{From: id.To, To: id.From}
}

func (id IntervalID) String() string {
	return fmt.Sprintf("%s->%s", id.From, id.To)
}

// Time is a time of day in seconds, always in [0, SecondsPerDay)
type Time uint32

// NewTime normalizes seconds into a single day
func NewTime(seconds uint32) Time {
	return Time(seconds % SecondsPerDay)
}

// Clock builds a Time from hours, minutes and seconds
func Clock(h, m, s uint32) Time {
	return NewTime(h*3600 + m*60 + s)
}

func (t Time) Hour() int   { return int(t) / 3600 }
func (t Time) Minute() int { return int(t) % 3600 / 60 }
func (t Time) Second() int { return int(t) % 60 }

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// Station is a node of the network. Trains is derived by Build.
type Station struct {
	ID          StationID
	Position    float64
	HasPosition bool
	Tracks      uint16
	Trains      []TrainID
}

// Interval connects two stations. Trains is derived by Build.
type Interval struct {
	ID     IntervalID
	Length float64
	Trains []TrainID
}

// ScheduleEntry is one stop of a train. Track is optional.
type ScheduleEntry struct {
	Station   StationID
	Arrival   Time
	Departure Time
	Track     *uint16
}

// Train is an ordered schedule of stops
type Train struct {
	ID       TrainID
	Schedule []ScheduleEntry

	stationIdx map[StationID][]int // station -> every schedule index visiting it
}

// Visits returns the schedule indices at which the train stops at station.
// A train may visit the same station more than once.
func (t *Train) Visits(station StationID) []int {
	return t.stationIdx[station]
}

// TrackIndex returns the track of entry e clamped into [0, tracks)
func TrackIndex(e ScheduleEntry, tracks uint16) (uint16, bool) {
	if e.Track == nil || tracks == 0 {
		return 0, false
	}
	if *e.Track >= tracks {
		return tracks - 1, true
	}
	return *e.Track, true
}
