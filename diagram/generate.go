package diagram

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/exp/slices"

	"github.com/theoremus-urban-solutions/marey/density"
	"github.com/theoremus-urban-solutions/marey/network"
	"github.com/theoremus-urban-solutions/marey/scale"
)

// Generate draws the diagram described by opts from net
func Generate(net *network.Network, opts DiagramOptions) (*Diagram, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Measurer == nil {
		opts.Measurer = DefaultMeasurer()
	}

	ids := make([]network.IntervalID, 0, len(opts.Intervals))
	for _, r := range opts.Intervals {
		ids = append(ids, r.ID)
	}
	sub, err := net.FilterTo(ids, opts.Stations)
	if err != nil {
		return nil, err
	}

	grid, err := gridLengths(sub, opts.Intervals, opts.PositionMode, opts.PositionScale, opts.UnitLength)
	if err != nil {
		return nil, err
	}

	ladder, err := buildStationLadder(sub, &opts)
	if err != nil {
		return nil, err
	}

	var occ *density.Occupancy
	if opts.TimeMode == scale.Auto || opts.DrawHeatmap || opts.DrawOccupancy {
		occ = density.Estimate(sub)
	}
	factors := UniformFactors(scale.Length(1, opts.TimeMode, opts.TimeScale))
	if opts.TimeMode == scale.Auto {
		factors = occ.HourFactors(opts.TimeScale)
		log.Debug().Floats64("factors", factors[:]).Msg("auto time scale")
	}
	axis := NewTimeAxis(opts.Window, factors, opts.UnitLength)

	gen := &pathGenerator{net: sub, ladder: ladder, axis: axis, window: opts.Window}
	trains := generatePaths(gen, sub.Trains(), opts.Workers)

	widths := axis.HourWidths()
	d := &Diagram{
		GridIntervals: grid,
		Ladder:        ladder.Stations(),
		Width:         axis.Width(),
		HourWidths:    widths[:],
		Trains:        trains,
	}
	if opts.DrawCollision {
		d.Collisions = buildCollisions(ladder, d.Width, trains, &opts, opts.Measurer)
	}
	if opts.DrawHeatmap {
		d.Intervals = intervalHeat(opts.Intervals, occ)
	}
	if opts.DrawOccupancy {
		d.Stations = stationOccupancy(ladder, occ)
	}

	log.Debug().
		Int("stations", len(d.Ladder)).
		Int("trains", len(d.Trains)).
		Float64("width", d.Width).
		Msg("diagram generated")
	return d, nil
}

// generatePaths runs the path generator per train on a bounded pool. Results are
// sorted by train id and trains with nothing visible are omitted.
func generatePaths(gen *pathGenerator, trains []*network.Train, workers int) []TrainPath {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := pool.NewWithResults[TrainPath]().WithMaxGoroutines(workers)
	for _, t := range trains {
		p.Go(func() TrainPath {
			tag := Tag(string(t.ID))
			return TrainPath{ID: t.ID, Tag: tag, Color: Color(tag), Lines: gen.Lines(t)}
		})
	}
	results := p.Wait()

	out := make([]TrainPath, 0, len(results))
	for _, r := range results {
		if len(r.Lines) == 0 {
			continue
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b TrainPath) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// buildStationLadder lays out the drawn stations: the explicit station list if
// given, otherwise every endpoint of the requested intervals in request order.
func buildStationLadder(net *network.Network, opts *DiagramOptions) (*Ladder, error) {
	drawn := opts.Stations
	if len(drawn) == 0 {
		seen := map[network.StationID]bool{}
		for _, r := range opts.Intervals {
			for _, id := range []network.StationID{r.ID.From, r.ID.To} {
				if !seen[id] {
					seen[id] = true
					drawn = append(drawn, id)
				}
			}
		}
	}

	positions := resolvePositions(net, drawn, opts.Intervals)
	in := make([]LadderInput, 0, len(drawn))
	for _, id := range drawn {
		st, ok := net.Station(id)
		if !ok {
			return nil, &network.MissingEntityError{Kind: "station", ID: string(id)}
		}
		in = append(in, LadderInput{ID: id, Position: positions[id], Tracks: st.Tracks})
	}
	ladder, err := BuildLadder(in, opts.PositionMode, opts.PositionScale, opts.UnitLength, opts.TrackSpacing)
	if err != nil {
		return nil, fmt.Errorf("station ladder: %w", err)
	}
	return ladder, nil
}

// resolvePositions returns a position for each drawn station. Stations without one
// are placed by walking the requested intervals from a positioned neighbor. A
// station no walk reaches starts a new run one unit past the furthest known one.
func resolvePositions(net *network.Network, drawn []network.StationID, reqs []IntervalRequest) map[network.StationID]float64 {
	pos := map[network.StationID]float64{}
	for _, id := range drawn {
		if st, ok := net.Station(id); ok && st.HasPosition {
			pos[id] = st.Position
		}
	}

	for {
		progress := true
		for progress {
			progress = false
			for _, r := range reqs {
				length, _ := net.IntervalLength(r.ID.From, r.ID.To)
				from, fromOK := pos[r.ID.From]
				to, toOK := pos[r.ID.To]
				switch {
				case fromOK && !toOK:
					pos[r.ID.To] = from + length
					progress = true
				case toOK && !fromOK:
					pos[r.ID.From] = to - length
					progress = true
				}
			}
		}

		seed, ok := firstUnplaced(drawn, pos)
		if !ok {
			break
		}
		start := 0.0
		for _, p := range pos {
			if p+1 > start {
				start = p + 1
			}
		}
		pos[seed] = start
	}
	return pos
}

func firstUnplaced(drawn []network.StationID, pos map[network.StationID]float64) (network.StationID, bool) {
	for _, id := range drawn {
		if _, ok := pos[id]; !ok {
			return id, true
		}
	}
	return "", false
}

func intervalHeat(reqs []IntervalRequest, occ *density.Occupancy) []IntervalHeat {
	out := make([]IntervalHeat, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, IntervalHeat{From: r.ID.From, To: r.ID.To, Counts: binsToRows(occ.Intervals[r.ID])})
	}
	return out
}

func stationOccupancy(ladder *Ladder, occ *density.Occupancy) []StationOccupancy {
	out := make([]StationOccupancy, 0, len(ladder.Stations()))
	for _, st := range ladder.Stations() {
		out = append(out, StationOccupancy{ID: st.ID, Counts: binsToRows(occ.Stations[st.ID])})
	}
	return out
}

func binsToRows(b *density.Bins) [][]int {
	rows := make([][]int, density.HoursPerDay)
	for h := range rows {
		rows[h] = make([]int, density.SlotsPerHour)
		if b != nil {
			copy(rows[h], b[h][:])
		}
	}
	return rows
}
