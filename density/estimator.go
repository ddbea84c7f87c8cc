// Package density estimates how busy each hour of the day is, for the automatic
// time axis and the heatmap and occupancy overlays.
package density

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/theoremus-urban-solutions/marey/network"
)

const (
	HoursPerDay  = 24
	SlotsPerHour = 6
	SlotSeconds  = 3600 / SlotsPerHour
	slotsPerDay  = HoursPerDay * SlotsPerHour
)

// Bins counts train presence per ten-minute slot of the day
type Bins [HoursPerDay][SlotsPerHour]int

// Hour sums the six slots of hour h
func (b *Bins) Hour(h int) int {
	sum := 0
	for _, c := range b[h] {
		sum += c
	}
	return sum
}

// Total sums all slots
func (b *Bins) Total() int {
	sum := 0
	for h := range b {
		sum += b.Hour(h)
	}
	return sum
}

// Occupancy is the per-station and per-interval slot histogram of a network
type Occupancy struct {
	Stations  map[network.StationID]*Bins
	Intervals map[network.IntervalID]*Bins
	Hours     [HoursPerDay]int // summed over stations
}

// Estimate walks every consecutive schedule pair of every train. A pair counts
// only when its stations are adjacent; each ten-minute slot the travel overlaps is
// attributed to the departure station and to the interval traversed.
func Estimate(net *network.Network) *Occupancy {
	occ := &Occupancy{
		Stations:  map[network.StationID]*Bins{},
		Intervals: map[network.IntervalID]*Bins{},
	}

	for _, t := range net.Trains() {
		for i := 0; i+1 < len(t.Schedule); i++ {
			cur, next := t.Schedule[i], t.Schedule[i+1]
			if !net.Adjacent(cur.Station, next.Station) {
				continue
			}

			station := occ.stationBins(cur.Station)
			interval := occ.intervalBins(net, cur.Station, next.Station)
			for _, slot := range travelSlots(uint32(cur.Departure), uint32(next.Arrival)) {
				h, s := slot/SlotsPerHour, slot%SlotsPerHour
				station[h][s]++
				if interval != nil {
					interval[h][s]++
				}
			}
		}
	}

	for _, b := range occ.Stations {
		for h := range occ.Hours {
			occ.Hours[h] += b.Hour(h)
		}
	}

	log.Debug().Ints("hours", occ.Hours[:]).Msg("occupancy estimated")
	return occ
}

// travelSlots lists the slot indices overlapping the open span (dep, arr).
// An arrival before departure crossed midnight. A zero-length travel occupies the
// slot it happens in.
func travelSlots(dep, arr uint32) []int {
	if arr < dep {
		arr += network.SecondsPerDay
	}
	if arr == dep {
		return []int{int(dep/SlotSeconds) % slotsPerDay}
	}
	first := int(dep / SlotSeconds)
	last := int((arr - 1) / SlotSeconds)
	slots := make([]int, 0, last-first+1)
	for s := first; s <= last; s++ {
		slots = append(slots, s%slotsPerDay)
	}
	return slots
}

func (o *Occupancy) stationBins(id network.StationID) *Bins {
	b, ok := o.Stations[id]
	if !ok {
		b = &Bins{}
		o.Stations[id] = b
	}
	return b
}

// intervalBins resolves the interval a travel ran over. Only one direction may be
// defined, in which case the travel is counted against the defined one.
func (o *Occupancy) intervalBins(net *network.Network, from, to network.StationID) *Bins {
	id := network.IntervalID{From: from, To: to}
	if _, ok := net.Interval(id); !ok {
		id = id.Reverse()
		if _, ok := net.Interval(id); !ok {
			return nil
		}
	}
	b, ok := o.Intervals[id]
	if !ok {
		b = &Bins{}
		o.Intervals[id] = b
	}
	return b
}

// HourFactors converts hourly totals into time-axis width factors:
// max(1, round(sqrt(total))) * timeScale. Quiet hours keep the base width.
func (o *Occupancy) HourFactors(timeScale float64) [HoursPerDay]float64 {
	var out [HoursPerDay]float64
	for h, total := range o.Hours {
		out[h] = math.Max(1, math.Round(math.Sqrt(float64(total)))) * timeScale
	}
	return out
}
