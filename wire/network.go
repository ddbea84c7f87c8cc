package wire

import (
	"github.com/theoremus-urban-solutions/marey/network"
)

// NetworkRecord is the wire form of a network description
type NetworkRecord struct {
	Stations  []StationRecord  `cbor:"stations" json:"stations" validate:"required,dive"`
	Intervals []IntervalRecord `cbor:"intervals" json:"intervals" validate:"required,dive"`
	Trains    []TrainRecord    `cbor:"trains" json:"trains" validate:"dive"`
}

// StationRecord describes a station. Tracks defaults to 1.
type StationRecord struct {
	ID       string   `cbor:"id" json:"id" validate:"required"`
	Tracks   *uint16  `cbor:"tracks,omitempty" json:"tracks,omitempty"`
	Position *float64 `cbor:"position,omitempty" json:"position,omitempty"`
}

// IntervalRecord describes a directed interval
type IntervalRecord struct {
	From   string   `cbor:"from" json:"from" validate:"required"`
	To     string   `cbor:"to" json:"to" validate:"required"`
	Length *float64 `cbor:"length" json:"length" validate:"required"`
}

// TrainRecord describes a train and its schedule
type TrainRecord struct {
	ID       string           `cbor:"id" json:"id" validate:"required"`
	Schedule []ScheduleRecord `cbor:"schedule" json:"schedule" validate:"required,dive"`
}

// ScheduleRecord is one stop. Arr and Dep are seconds of day.
type ScheduleRecord struct {
	Station string  `cbor:"station" json:"station" validate:"required"`
	Arr     *uint32 `cbor:"arr" json:"arr" validate:"required"`
	Dep     *uint32 `cbor:"dep" json:"dep" validate:"required"`
	Track   *uint16 `cbor:"track,omitempty" json:"track,omitempty"`
}

// DecodeNetwork parses a CBOR network description
func DecodeNetwork(data []byte) (*NetworkRecord, error) {
	var rec NetworkRecord
	if err := Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Build converts the records into a validated network
func (r *NetworkRecord) Build() (*network.Network, error) {
	stations := make([]network.Station, 0, len(r.Stations))
	for _, s := range r.Stations {
		st := network.Station{ID: network.StationID(s.ID), Tracks: 1}
		if s.Tracks != nil {
			st.Tracks = *s.Tracks
		}
		if s.Position != nil {
			st.Position = *s.Position
			st.HasPosition = true
		}
		stations = append(stations, st)
	}

	intervals := make([]network.Interval, 0, len(r.Intervals))
	for _, iv := range r.Intervals {
		intervals = append(intervals, network.Interval{
			ID:     network.IntervalID{From: network.StationID(iv.From), To: network.StationID(iv.To)},
			Length: *iv.Length,
		})
	}

	trains := make([]network.Train, 0, len(r.Trains))
	for _, t := range r.Trains {
		sched := make([]network.ScheduleEntry, 0, len(t.Schedule))
		for _, e := range t.Schedule {
			sched = append(sched, network.ScheduleEntry{
				Station:   network.StationID(e.Station),
				Arrival:   network.NewTime(*e.Arr),
				Departure: network.NewTime(*e.Dep),
				Track:     e.Track,
			})
		}
		trains = append(trains, network.Train{ID: network.TrainID(t.ID), Schedule: sched})
	}

	return network.Build(stations, intervals, trains)
}

// FromNetwork converts a network back to its records. Derived train lists are
// not part of the wire form.
func FromNetwork(n *network.Network) *NetworkRecord {
	rec := &NetworkRecord{}
	for _, s := range n.Stations() {
		tracks := s.Tracks
		sr := StationRecord{ID: string(s.ID), Tracks: &tracks}
		if s.HasPosition {
			pos := s.Position
			sr.Position = &pos
		}
		rec.Stations = append(rec.Stations, sr)
	}
	for _, iv := range n.Intervals() {
		length := iv.Length
		rec.Intervals = append(rec.Intervals, IntervalRecord{From: string(iv.ID.From), To: string(iv.ID.To), Length: &length})
	}
	for _, t := range n.Trains() {
		tr := TrainRecord{ID: string(t.ID), Schedule: make([]ScheduleRecord, 0, len(t.Schedule))}
		for _, e := range t.Schedule {
			arr, dep := uint32(e.Arrival), uint32(e.Departure)
			tr.Schedule = append(tr.Schedule, ScheduleRecord{Station: string(e.Station), Arr: &arr, Dep: &dep, Track: e.Track})
		}
		rec.Trains = append(rec.Trains, tr)
	}
	return rec
}
