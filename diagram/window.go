package diagram

import "github.com/theoremus-urban-solutions/marey/network"

const day = int64(network.SecondsPerDay)

// Window is the half-open time range [Begin, Begin+Length) drawn on the x axis.
// End may be earlier than Begin, in which case the window crosses midnight.
// Begin equal to End is a full day.
type Window struct {
	Begin network.Time
	End   network.Time
}

// HoursWindow builds a window from whole hours
func HoursWindow(begin, end uint8) Window {
	return Window{Begin: network.Clock(uint32(begin), 0, 0), End: network.Clock(uint32(end), 0, 0)}
}

// Length returns the window duration in seconds
func (w Window) Length() int64 {
	l := (int64(w.End) - int64(w.Begin) + day) % day
	if l == 0 {
		return day
	}
	return l
}

// occurrence is one copy of the window on the unwrapped timeline
type occurrence struct {
	begin int64
	end   int64
}

// occurrences returns every window copy overlapping [from, to]
func (w Window) occurrences(from, to int64) []occurrence {
	l := w.Length()
	b := int64(w.Begin)
	first := floorDiv(from-b-l, day) + 1
	last := floorDiv(to-b, day)
	var out []occurrence
	for k := first; k <= last; k++ {
		start := b + k*day
		out = append(out, occurrence{begin: start, end: start + l})
	}
	return out
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
