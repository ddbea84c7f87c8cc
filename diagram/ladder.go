package diagram

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/theoremus-urban-solutions/marey/network"
	"github.com/theoremus-urban-solutions/marey/scale"
)

// LadderInput is a station to place on the vertical axis
type LadderInput struct {
	ID       network.StationID
	Position float64
	Tracks   uint16
}

// Ladder is the vertical layout of drawn stations. A station's draw height is the
// y of track 0; higher tracks sit TrackSpacing apart above it. The gap between
// consecutive draw heights holds the scaled position gap plus the extra tracks of
// both stations, so blocks never overlap.
type Ladder struct {
	stations []LadderStation
	byID     map[network.StationID]int
	tracks   map[network.StationID]uint16
	spacing  float64
}

// BuildLadder sorts stations by position and accumulates draw heights.
// Ties keep input order.
func BuildLadder(in []LadderInput, mode scale.Mode, positionScale, unitLength, spacing float64) (*Ladder, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("no stations to draw")
	}
	sorted := slices.Clone(in)
	slices.SortStableFunc(sorted, func(a, b LadderInput) int {
		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		}
		return 0
	})

	l := &Ladder{
		byID:    make(map[network.StationID]int, len(sorted)),
		tracks:  make(map[network.StationID]uint16, len(sorted)),
		spacing: spacing,
	}
	var height float64
	for i, s := range sorted {
		if _, dup := l.byID[s.ID]; dup {
			return nil, &network.ConstructionError{Kind: "station", ID: string(s.ID), Reason: "drawn twice"}
		}
		if s.Tracks == 0 {
			return nil, &network.ConstructionError{Kind: "station", ID: string(s.ID), Reason: "no tracks"}
		}
		block := float64(s.Tracks-1) * spacing
		if i == 0 {
			height = block
		} else {
			prev := sorted[i-1]
			gap := scale.Length(s.Position-prev.Position, mode, positionScale) * unitLength
			height += gap + float64(prev.Tracks-1)*spacing + block
		}

		rungs := make([]float64, s.Tracks)
		for k := range rungs {
			rungs[k] = height - float64(k)*spacing
		}
		l.byID[s.ID] = i
		l.tracks[s.ID] = s.Tracks
		l.stations = append(l.stations, LadderStation{ID: s.ID, DrawHeight: height, Tracks: rungs})
	}
	return l, nil
}

// Stations returns the rungs in draw order
func (l *Ladder) Stations() []LadderStation {
	return l.stations
}

// Contains reports whether id is drawn
func (l *Ladder) Contains(id network.StationID) bool {
	_, ok := l.byID[id]
	return ok
}

// Height returns the draw height of id
func (l *Ladder) Height(id network.StationID) (float64, bool) {
	i, ok := l.byID[id]
	if !ok {
		return 0, false
	}
	return l.stations[i].DrawHeight, true
}

// TrackY returns the y of the track entry e uses at its station. A missing track
// is drawn on track 0.
func (l *Ladder) TrackY(e network.ScheduleEntry) float64 {
	i := l.byID[e.Station]
	k, _ := network.TrackIndex(e, l.tracks[e.Station])
	return l.stations[i].Tracks[k]
}

// EdgeY returns the y of the station block edge facing down (towards greater y)
// or up.
func (l *Ladder) EdgeY(id network.StationID, down bool) float64 {
	st := l.stations[l.byID[id]]
	if down {
		return st.Tracks[0]
	}
	return st.Tracks[len(st.Tracks)-1]
}

// AtEdge reports whether entry e already sits on the block edge facing down or up,
// in which case no connector from track to edge is drawn. A missing track counts as
// sitting on the edge.
func (l *Ladder) AtEdge(e network.ScheduleEntry, down bool) bool {
	tracks := l.tracks[e.Station]
	k, ok := network.TrackIndex(e, tracks)
	if !ok || tracks == 1 {
		return true
	}
	if down {
		return k == 0
	}
	return k == tracks-1
}

// Extent returns the smallest and largest y of any track
func (l *Ladder) Extent() (top, bottom float64) {
	first := l.stations[0]
	last := l.stations[len(l.stations)-1]
	return first.Tracks[len(first.Tracks)-1], last.DrawHeight
}
