package network

import (
	"cmp"

	"golang.org/x/exp/slices"
)

// Index holds the derived adjacency relations of a Network
type Index struct {
	stationNeighbors map[StationID]map[StationID]struct{}  // station -> stations sharing an interval
	stationIntervals map[StationID]map[IntervalID]struct{} // station -> incident intervals
	intervalTrains   map[IntervalID]map[TrainID]struct{}   // consecutive (from,to) schedule pair -> trains
	trainIntervals   map[TrainID]map[IntervalID]struct{}   // train -> consecutive schedule pairs
}

func buildIndex(n *Network) *Index {
	x := &Index{
		stationNeighbors: map[StationID]map[StationID]struct{}{},
		stationIntervals: map[StationID]map[IntervalID]struct{}{},
		intervalTrains:   map[IntervalID]map[TrainID]struct{}{},
		trainIntervals:   map[TrainID]map[IntervalID]struct{}{},
	}

	for _, id := range n.intervalIDs {
		addTo(x.stationNeighbors, id.From, id.To)
		addTo(x.stationNeighbors, id.To, id.From)
		addTo(x.stationIntervals, id.From, id)
		addTo(x.stationIntervals, id.To, id)
	}

	for _, tid := range n.trainOrder {
		sched := n.trains[tid].Schedule
		for i := 0; i+1 < len(sched); i++ {
			pair := IntervalID{From: sched[i].Station, To: sched[i+1].Station}
			addTo(x.intervalTrains, pair, tid)
			addTo(x.trainIntervals, tid, pair)
		}
	}
	return x
}

func addTo[K, V comparable](m map[K]map[V]struct{}, k K, v V) {
	set, ok := m[k]
	if !ok {
		set = map[V]struct{}{}
		m[k] = set
	}
	set[v] = struct{}{}
}

// Neighbors returns the stations sharing an interval with id, sorted
func (x *Index) Neighbors(id StationID) []StationID {
	out := make([]StationID, 0, len(x.stationNeighbors[id]))
	for s := range x.stationNeighbors[id] {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// StationIntervals returns the intervals touching id, sorted
func (x *Index) StationIntervals(id StationID) []IntervalID {
	return sortedIntervals(x.stationIntervals[id])
}

// IntervalTrains returns trains that ran from id.From directly to id.To, sorted
func (x *Index) IntervalTrains(id IntervalID) []TrainID {
	out := make([]TrainID, 0, len(x.intervalTrains[id]))
	for t := range x.intervalTrains[id] {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// TrainIntervals returns the consecutive station pairs of a train, sorted
func (x *Index) TrainIntervals(id TrainID) []IntervalID {
	return sortedIntervals(x.trainIntervals[id])
}

// Adjacent reports whether an interval connects a and b in either direction
func (x *Index) Adjacent(a, b StationID) bool {
	_, ok := x.stationNeighbors[a][b]
	return ok
}

func sortedIntervals(set map[IntervalID]struct{}) []IntervalID {
	out := make([]IntervalID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.SortFunc(out, compareIntervals)
	return out
}

func compareIntervals(a, b IntervalID) int {
	if c := cmp.Compare(a.From, b.From); c != 0 {
		return c
	}
	return cmp.Compare(a.To, b.To)
}
