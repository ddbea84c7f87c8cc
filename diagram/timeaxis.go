package diagram

import (
	"github.com/theoremus-urban-solutions/marey/density"
)

// TimeAxis maps unwrapped times to x coordinates. Each hour of the day has its
// own width; x grows linearly inside an hour and x(Window.Begin) is 0.
type TimeAxis struct {
	window   Window
	widths   [density.HoursPerDay]float64
	prefix   [density.HoursPerDay + 1]float64 // prefix[h] is the width of hours [0, h)
	dayWidth float64
}

// NewTimeAxis builds an axis from per-hour width factors. Each hour spans
// unitLength*factors[h] drawing units.
func NewTimeAxis(w Window, factors [density.HoursPerDay]float64, unitLength float64) *TimeAxis {
	a := &TimeAxis{window: w}
	for h, f := range factors {
		a.widths[h] = f * unitLength
		a.prefix[h+1] = a.prefix[h] + a.widths[h]
	}
	a.dayWidth = a.prefix[density.HoursPerDay]
	return a
}

// UniformFactors repeats factor for every hour
func UniformFactors(factor float64) [density.HoursPerDay]float64 {
	var out [density.HoursPerDay]float64
	for h := range out {
		out[h] = factor
	}
	return out
}

// cumulative is the x distance from midnight of day 0 to t, for any t
func (a *TimeAxis) cumulative(t int64) float64 {
	d := floorDiv(t, day)
	r := t - d*day
	h := r / 3600
	frac := float64(r%3600) / 3600
	return float64(d)*a.dayWidth + a.prefix[h] + a.widths[h]*frac
}

// X maps t to an x coordinate relative to origin
func (a *TimeAxis) X(t, origin int64) float64 {
	return a.cumulative(t) - a.cumulative(origin)
}

// Width is the x extent of the whole window
func (a *TimeAxis) Width() float64 {
	b := int64(a.window.Begin)
	return a.X(b+a.window.Length(), b)
}

// HourWidths returns the width of each hour of the day
func (a *TimeAxis) HourWidths() [density.HoursPerDay]float64 {
	return a.widths
}
