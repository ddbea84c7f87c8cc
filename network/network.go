package network

import (
	"math"

	"github.com/rs/zerolog/log"
)

// Network is an immutable, validated railway network. Entities keep the order
// they were supplied in.
type Network struct {
	stations     map[StationID]*Station
	intervals    map[IntervalID]*Interval
	trains       map[TrainID]*Train
	stationOrder []StationID
	intervalIDs  []IntervalID
	trainOrder   []TrainID
	index        *Index
}

// Build validates raw records and computes the derived train lists.
// Records are copied, the caller keeps ownership of its slices.
func Build(stations []Station, intervals []Interval, trains []Train) (*Network, error) {
	if len(stations) == 0 {
		return nil, &ConstructionError{Kind: "network", Reason: "no stations"}
	}
	if len(intervals) == 0 {
		return nil, &ConstructionError{Kind: "network", Reason: "no intervals"}
	}

	n := &Network{
		stations:  make(map[StationID]*Station, len(stations)),
		intervals: make(map[IntervalID]*Interval, len(intervals)),
		trains:    make(map[TrainID]*Train, len(trains)),
	}

	for _, s := range stations {
		if _, dup := n.stations[s.ID]; dup {
			return nil, &ConstructionError{Kind: "station", ID: string(s.ID), Reason: "duplicate id"}
		}
		if s.Tracks == 0 {
			return nil, &ConstructionError{Kind: "station", ID: string(s.ID), Reason: "track count must be at least 1"}
		}
		if s.HasPosition && (math.IsNaN(s.Position) || math.IsInf(s.Position, 0)) {
			return nil, &ConstructionError{Kind: "station", ID: string(s.ID), Reason: "position is not finite"}
		}
		st := &Station{ID: s.ID, Position: s.Position, HasPosition: s.HasPosition, Tracks: s.Tracks}
		n.stations[s.ID] = st
		n.stationOrder = append(n.stationOrder, s.ID)
	}

	for _, iv := range intervals {
		for _, end := range []StationID{iv.ID.From, iv.ID.To} {
			if _, ok := n.stations[end]; !ok {
				return nil, &ConstructionError{Kind: "interval", ID: iv.ID.String(), Reason: "unknown station " + string(end)}
			}
		}
		if iv.ID.From == iv.ID.To {
			return nil, &ConstructionError{Kind: "interval", ID: iv.ID.String(), Reason: "interval connects a station to itself"}
		}
		if _, dup := n.intervals[iv.ID]; dup {
			return nil, &ConstructionError{Kind: "interval", ID: iv.ID.String(), Reason: "duplicate id"}
		}
		if iv.Length < 0 || math.IsNaN(iv.Length) || math.IsInf(iv.Length, 0) {
			return nil, &ConstructionError{Kind: "interval", ID: iv.ID.String(), Reason: "length must be a finite non-negative number"}
		}
		n.intervals[iv.ID] = &Interval{ID: iv.ID, Length: iv.Length}
		n.intervalIDs = append(n.intervalIDs, iv.ID)
	}

	for _, t := range trains {
		if _, dup := n.trains[t.ID]; dup {
			return nil, &ConstructionError{Kind: "train", ID: string(t.ID), Reason: "duplicate id"}
		}
		tr := &Train{
			ID:         t.ID,
			Schedule:   make([]ScheduleEntry, 0, len(t.Schedule)),
			stationIdx: make(map[StationID][]int),
		}
		for i, e := range t.Schedule {
			if _, ok := n.stations[e.Station]; !ok {
				return nil, &ConstructionError{Kind: "train", ID: string(t.ID), Reason: "schedule references unknown station " + string(e.Station)}
			}
			entry := ScheduleEntry{
				Station:   e.Station,
				Arrival:   NewTime(uint32(e.Arrival)),
				Departure: NewTime(uint32(e.Departure)),
			}
			if e.Track != nil {
				track := *e.Track
				entry.Track = &track
			}
			tr.Schedule = append(tr.Schedule, entry)
			tr.stationIdx[e.Station] = append(tr.stationIdx[e.Station], i)
		}
		n.trains[t.ID] = tr
		n.trainOrder = append(n.trainOrder, t.ID)
	}

	n.finalize()
	n.index = buildIndex(n)

	log.Debug().
		Int("stations", len(n.stationOrder)).
		Int("intervals", len(n.intervalIDs)).
		Int("trains", len(n.trainOrder)).
		Msg("network built")
	return n, nil
}

// finalize fills Station.Trains and Interval.Trains from the schedules.
// Each train is listed once per station or interval even when it passes twice.
func (n *Network) finalize() {
	for _, id := range n.trainOrder {
		t := n.trains[id]
		seenStation := make(map[StationID]bool)
		seenInterval := make(map[IntervalID]bool)
		for i, e := range t.Schedule {
			if !seenStation[e.Station] {
				seenStation[e.Station] = true
				n.stations[e.Station].Trains = append(n.stations[e.Station].Trains, id)
			}
			if i+1 == len(t.Schedule) {
				break
			}
			ivID := IntervalID{From: e.Station, To: t.Schedule[i+1].Station}
			iv, ok := n.intervals[ivID]
			if !ok || seenInterval[ivID] {
				continue
			}
			seenInterval[ivID] = true
			iv.Trains = append(iv.Trains, id)
		}
	}
}

// Station looks up a station by id
func (n *Network) Station(id StationID) (*Station, bool) {
	s, ok := n.stations[id]
	return s, ok
}

// Interval looks up a directed interval
func (n *Network) Interval(id IntervalID) (*Interval, bool) {
	iv, ok := n.intervals[id]
	return iv, ok
}

// Train looks up a train by id
func (n *Network) Train(id TrainID) (*Train, bool) {
	t, ok := n.trains[id]
	return t, ok
}

// Stations returns all stations in input order
func (n *Network) Stations() []*Station {
	out := make([]*Station, 0, len(n.stationOrder))
	for _, id := range n.stationOrder {
		out = append(out, n.stations[id])
	}
	return out
}

// Intervals returns all intervals in input order
func (n *Network) Intervals() []*Interval {
	out := make([]*Interval, 0, len(n.intervalIDs))
	for _, id := range n.intervalIDs {
		out = append(out, n.intervals[id])
	}
	return out
}

// Trains returns all trains in input order
func (n *Network) Trains() []*Train {
	out := make([]*Train, 0, len(n.trainOrder))
	for _, id := range n.trainOrder {
		out = append(out, n.trains[id])
	}
	return out
}

// Index exposes the adjacency relations of the network
func (n *Network) Index() *Index {
	return n.index
}

// IntervalLength returns the length of the directed interval from -> to
func (n *Network) IntervalLength(from, to StationID) (float64, bool) {
	iv, ok := n.intervals[IntervalID{From: from, To: to}]
	if !ok {
		return 0, false
	}
	return iv.Length, true
}

// Adjacent reports whether an interval connects a and b in either direction
func (n *Network) Adjacent(a, b StationID) bool {
	return n.index.Adjacent(a, b)
}
