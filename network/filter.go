package network

import "github.com/rs/zerolog/log"

// FilterTo returns the sub-network relevant to drawing the given intervals and
// stations: their endpoints, one hop of neighbors, every interval touching those,
// and the trains that run over any kept interval in either direction. Schedules are
// trimmed to kept stations. Output preserves the source order, so filtering the
// result again with the same request yields an identical network.
func (n *Network) FilterTo(intervals []IntervalID, stations []StationID) (*Network, error) {
	target := map[StationID]bool{}
	for _, id := range intervals {
		if _, ok := n.intervals[id]; !ok {
			return nil, &MissingEntityError{Kind: "interval", ID: id.String()}
		}
		target[id.From] = true
		target[id.To] = true
	}
	for _, id := range stations {
		if _, ok := n.stations[id]; !ok {
			return nil, &MissingEntityError{Kind: "station", ID: string(id)}
		}
		target[id] = true
	}

	needed := map[StationID]bool{}
	for s := range target {
		needed[s] = true
		for _, nb := range n.index.Neighbors(s) {
			needed[nb] = true
		}
	}

	keepInterval := map[IntervalID]bool{}
	for _, id := range intervals {
		keepInterval[id] = true
	}
	for s := range needed {
		for _, id := range n.index.StationIntervals(s) {
			keepInterval[id] = true
		}
	}

	keepStation := map[StationID]bool{}
	for s := range needed {
		keepStation[s] = true
	}
	keepTrain := map[TrainID]bool{}
	for id := range keepInterval {
		keepStation[id.From] = true
		keepStation[id.To] = true
		for _, t := range n.index.IntervalTrains(id) {
			keepTrain[t] = true
		}
		for _, t := range n.index.IntervalTrains(id.Reverse()) {
			keepTrain[t] = true
		}
	}

	outStations := make([]Station, 0, len(keepStation))
	for _, id := range n.stationOrder {
		if keepStation[id] {
			s := n.stations[id]
			outStations = append(outStations, Station{ID: s.ID, Position: s.Position, HasPosition: s.HasPosition, Tracks: s.Tracks})
		}
	}
	outIntervals := make([]Interval, 0, len(keepInterval))
	for _, id := range n.intervalIDs {
		if keepInterval[id] {
			outIntervals = append(outIntervals, Interval{ID: id, Length: n.intervals[id].Length})
		}
	}
	outTrains := make([]Train, 0, len(keepTrain))
	for _, id := range n.trainOrder {
		if !keepTrain[id] {
			continue
		}
		t := n.trains[id]
		sched := make([]ScheduleEntry, 0, len(t.Schedule))
		for _, e := range t.Schedule {
			if keepStation[e.Station] {
				sched = append(sched, e)
			}
		}
		outTrains = append(outTrains, Train{ID: id, Schedule: sched})
	}

	log.Debug().
		Int("requested_intervals", len(intervals)).
		Int("requested_stations", len(stations)).
		Int("stations", len(outStations)).
		Int("intervals", len(outIntervals)).
		Int("trains", len(outTrains)).
		Msg("network filtered")

	return Build(outStations, outIntervals, outTrains)
}
