package diagram

import (
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"

	"github.com/theoremus-urban-solutions/marey/network"
)

// polylineBuilder accumulates points into polylines. Consecutive duplicate points
// are skipped and fragments shorter than two points are dropped on break.
type polylineBuilder struct {
	lines []orb.LineString
	cur   orb.LineString
}

func (b *polylineBuilder) add(p orb.Point) {
	if n := len(b.cur); n > 0 && b.cur[n-1] == p {
		return
	}
	b.cur = append(b.cur, p)
}

func (b *polylineBuilder) breakLine() {
	if len(b.cur) >= 2 {
		b.lines = append(b.lines, b.cur)
	}
	b.cur = nil
}

func (b *polylineBuilder) finish() []orb.LineString {
	b.breakLine()
	return b.lines
}

// windowPos classifies a time against a window occurrence
type windowPos int

const (
	before windowPos = iota
	inside
	after
)

func classify(t int64, occ occurrence) windowPos {
	switch {
	case t < occ.begin:
		return before
	case t < occ.end:
		return inside
	}
	return after
}

// anchor selects which point a clipped segment starts or ends at
type anchor int

const (
	anchorNone anchor = iota
	anchorPoint
	anchorBegin
	anchorEnd
)

type clipRule struct {
	breakBefore bool
	start       anchor
	end         anchor
	breakAfter  bool
}

// clipRules[p0][p1] is how a segment from a time at p0 to a time at p1 is drawn.
// Segments never run backwards in time, so rows below the diagonal only break.
var clipRules = [3][3]clipRule{
	before: {
		before: {breakBefore: true},
		inside: {breakBefore: true, start: anchorBegin, end: anchorPoint},
		after:  {breakBefore: true, start: anchorBegin, end: anchorEnd, breakAfter: true},
	},
	inside: {
		before: {breakBefore: true},
		inside: {start: anchorPoint, end: anchorPoint},
		after:  {start: anchorPoint, end: anchorEnd, breakAfter: true},
	},
	after: {
		before: {breakBefore: true},
		inside: {breakBefore: true},
		after:  {breakBefore: true},
	},
}

// segment is a straight piece of a train path on the unwrapped timeline
type segment struct {
	t0, t1 int64
	y0, y1 float64
}

// pathGenerator turns train schedules into clipped polylines
type pathGenerator struct {
	net    *network.Network
	ladder *Ladder
	axis   *TimeAxis
	window Window
}

// stop is a schedule entry with monotonic times
type stop struct {
	entry     network.ScheduleEntry
	arrival   int64
	departure int64
}

// unwrap lays a schedule on a monotonic timeline. Each time earlier than the one
// before it has crossed midnight.
func unwrap(sched []network.ScheduleEntry) []stop {
	out := make([]stop, len(sched))
	var offset, last int64
	for i, e := range sched {
		a := int64(e.Arrival) + offset
		if i > 0 && a < last {
			offset += day
			a += day
		}
		d := int64(e.Departure) + offset
		if d < a {
			offset += day
			d += day
		}
		out[i] = stop{entry: e, arrival: a, departure: d}
		last = d
	}
	return out
}

// Lines returns the polylines of train t, in time order
func (g *pathGenerator) Lines(t *network.Train) []orb.LineString {
	if len(t.Schedule) < 2 {
		return nil
	}
	stops := unwrap(t.Schedule)
	segs := g.segments(t.ID, stops)

	var lines []orb.LineString
	for _, occ := range g.window.occurrences(stops[0].arrival, stops[len(stops)-1].departure) {
		b := &polylineBuilder{}
		for _, s := range segs {
			if s == nil {
				b.breakLine()
				continue
			}
			g.clip(b, *s, occ)
		}
		lines = append(lines, b.finish()...)
	}
	return lines
}

// segments expands the stops into stays, connectors and travels. A nil entry
// breaks the path: the station is not drawn or the pair is not adjacent.
func (g *pathGenerator) segments(id network.TrainID, stops []stop) []*segment {
	var segs []*segment
	for i, cur := range stops {
		if !g.ladder.Contains(cur.entry.Station) {
			segs = append(segs, nil)
			continue
		}
		y := g.ladder.TrackY(cur.entry)
		segs = append(segs, &segment{t0: cur.arrival, t1: cur.departure, y0: y, y1: y})

		if i+1 == len(stops) {
			break
		}
		next := stops[i+1]
		if !g.ladder.Contains(next.entry.Station) {
			segs = append(segs, nil)
			continue
		}
		if !g.net.Adjacent(cur.entry.Station, next.entry.Station) {
			log.Debug().
				Str("train", string(id)).
				Str("from", string(cur.entry.Station)).
				Str("to", string(next.entry.Station)).
				Msg("consecutive stops are not adjacent, breaking path")
			segs = append(segs, nil)
			continue
		}

		curH, _ := g.ladder.Height(cur.entry.Station)
		nextH, _ := g.ladder.Height(next.entry.Station)
		down := nextH > curH
		nextY := g.ladder.TrackY(next.entry)

		depY := y
		if !g.ladder.AtEdge(cur.entry, down) {
			depY = g.ladder.EdgeY(cur.entry.Station, down)
			segs = append(segs, &segment{t0: cur.departure, t1: cur.departure, y0: y, y1: depY})
		}
		arrY := nextY
		if !g.ladder.AtEdge(next.entry, !down) {
			arrY = g.ladder.EdgeY(next.entry.Station, !down)
		}
		segs = append(segs, &segment{t0: cur.departure, t1: next.arrival, y0: depY, y1: arrY})
		if arrY != nextY {
			segs = append(segs, &segment{t0: next.arrival, t1: next.arrival, y0: arrY, y1: nextY})
		}
	}
	return segs
}

// clip draws s into b as seen through one window occurrence
func (g *pathGenerator) clip(b *polylineBuilder, s segment, occ occurrence) {
	rule := clipRules[classify(s.t0, occ)][classify(s.t1, occ)]
	if rule.breakBefore {
		b.breakLine()
	}
	if rule.start != anchorNone {
		b.add(g.anchorPoint(rule.start, s, s.t0, s.y0, occ))
	}
	if rule.end != anchorNone {
		b.add(g.anchorPoint(rule.end, s, s.t1, s.y1, occ))
	}
	if rule.breakAfter {
		b.breakLine()
	}
}

func (g *pathGenerator) anchorPoint(a anchor, s segment, t int64, y float64, occ occurrence) orb.Point {
	switch a {
	case anchorBegin:
		return g.edgePoint(s, occ.begin, occ)
	case anchorEnd:
		return g.edgePoint(s, occ.end, occ)
	}
	return orb.Point{g.axis.X(t, occ.begin), y}
}

// edgePoint interpolates s at window edge t, linearly in x
func (g *pathGenerator) edgePoint(s segment, t int64, occ occurrence) orb.Point {
	xe := g.axis.X(t, occ.begin)
	if s.t0 == s.t1 {
		return orb.Point{xe, s.y0}
	}
	x0 := g.axis.X(s.t0, occ.begin)
	x1 := g.axis.X(s.t1, occ.begin)
	if x1 == x0 {
		return orb.Point{xe, s.y0}
	}
	return orb.Point{xe, s.y0 + (s.y1-s.y0)*(xe-x0)/(x1-x0)}
}
