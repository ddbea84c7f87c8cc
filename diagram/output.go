package diagram

import (
	"github.com/paulmach/orb"

	"github.com/theoremus-urban-solutions/marey/network"
)

// Diagram is the drawn geometry. It holds plain values only and keeps no
// reference to the network it was drawn from.
type Diagram struct {
	GridIntervals []float64          `cbor:"grid_intervals" json:"grid_intervals" groups:"summary,geometry"`
	Ladder        []LadderStation    `cbor:"ladder" json:"ladder" groups:"summary,geometry"`
	Width         float64            `cbor:"width" json:"width" groups:"summary,geometry"`
	HourWidths    []float64          `cbor:"hour_widths" json:"hour_widths" groups:"summary,geometry"`
	Trains        []TrainPath        `cbor:"trains" json:"trains" groups:"summary,geometry"`
	Collisions    *Collisions        `cbor:"graph_collisions,omitempty" json:"graph_collisions,omitempty" groups:"geometry"`
	Intervals     []IntervalHeat     `cbor:"intervals,omitempty" json:"intervals,omitempty" groups:"summary,geometry"`
	Stations      []StationOccupancy `cbor:"stations,omitempty" json:"stations,omitempty" groups:"summary,geometry"`
}

// LadderStation is one drawn station: its draw height and the y of each track
type LadderStation struct {
	ID         network.StationID `cbor:"id" json:"id" groups:"summary,geometry"`
	DrawHeight float64           `cbor:"draw_height" json:"draw_height" groups:"summary,geometry"`
	Tracks     []float64         `cbor:"tracks" json:"tracks" groups:"summary,geometry"`
}

// TrainPath is the clipped geometry of one train
type TrainPath struct {
	ID    network.TrainID  `cbor:"id" json:"id" groups:"summary,geometry"`
	Tag   uint32           `cbor:"tag" json:"tag" groups:"summary,geometry"`
	Color uint16           `cbor:"color" json:"color" groups:"summary,geometry"`
	Lines []orb.LineString `cbor:"lines" json:"lines" groups:"geometry"`
}

// Rect is an axis-aligned box given by its four corners:
// (min,min), (max,min), (max,max), (min,max)
type Rect [4]orb.Point

// NewRect builds a Rect from a bound
func NewRect(b orb.Bound) Rect {
	return Rect{
		{b.Min.X(), b.Min.Y()},
		{b.Max.X(), b.Min.Y()},
		{b.Max.X(), b.Max.Y()},
		{b.Min.X(), b.Max.Y()},
	}
}

// Bound returns the rectangle as a bound
func (r Rect) Bound() orb.Bound {
	return orb.Bound{Min: r[0], Max: r[2]}
}

// Collisions lists the label and band boxes and their overall bounding box
type Collisions struct {
	XMin       float64 `cbor:"x_min" json:"x_min" groups:"geometry"`
	XMax       float64 `cbor:"x_max" json:"x_max" groups:"geometry"`
	YMin       float64 `cbor:"y_min" json:"y_min" groups:"geometry"`
	YMax       float64 `cbor:"y_max" json:"y_max" groups:"geometry"`
	Collisions []Rect  `cbor:"collisions" json:"collisions" groups:"geometry"`
}

// IntervalHeat is the slot histogram of one drawn interval
type IntervalHeat struct {
	From   network.StationID `cbor:"from" json:"from" groups:"summary,geometry"`
	To     network.StationID `cbor:"to" json:"to" groups:"summary,geometry"`
	Counts [][]int           `cbor:"trains_per_10_minutes" json:"trains_per_10_minutes" groups:"summary,geometry"`
}

// StationOccupancy is the slot histogram of one drawn station
type StationOccupancy struct {
	ID     network.StationID `cbor:"id" json:"id" groups:"summary,geometry"`
	Counts [][]int           `cbor:"trains_per_10_minutes" json:"trains_per_10_minutes" groups:"summary,geometry"`
}
