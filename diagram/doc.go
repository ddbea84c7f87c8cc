// Package diagram computes the geometry of a time-distance (Marey) chart.
//
// The y axis is a station ladder: stations sorted by position, separated by the
// scaled distance between them, each owning one rung per track. The x axis is a
// time axis whose hour widths are uniform or, in Auto mode, follow traffic density.
// Each train becomes a set of polylines clipped to the visible window.
//
// # Usage
//
//	d, err := diagram.Generate(net, diagram.DiagramOptions{
//	    Intervals:     []diagram.IntervalRequest{{ID: network.IntervalID{From: "A", To: "B"}}},
//	    Window:        diagram.HoursWindow(6, 22),
//	    PositionMode:  scale.Linear,
//	    PositionScale: 1,
//	    TimeMode:      scale.Auto,
//	    TimeScale:     1,
//	    UnitLength:    1,
//	})
//
// # Window clipping
//
// Schedules are first unwrapped onto a monotonic timeline, so a train running
// across midnight has strictly increasing times. The visible window is then
// repeated once per day the train spans and every stay, track connector and travel
// segment is clipped against each copy. A segment endpoint is before, inside or
// after a copy; the nine combinations map to a fixed rule of where the drawn piece
// starts and ends and whether the current polyline breaks. Points clipped at a
// window edge are interpolated in x, so a travel line keeps its slope under
// non-uniform hour widths.
//
// # Tracks
//
// Track 0 sits at the station's draw height and higher tracks stack upwards. A
// train on an inner track gets a vertical connector to the block edge facing the
// direction of travel before the slanted travel line starts.
package diagram
