package diagram

import (
	"fmt"

	"github.com/theoremus-urban-solutions/marey/network"
	"github.com/theoremus-urban-solutions/marey/scale"
)

// DiagramOptions contains everything needed to draw one diagram.
// It has no dependency on the wire format or on configuration files.
type DiagramOptions struct {
	// Intervals are the directed intervals to draw, in request order.
	// Stations are laid out from their endpoints.
	Intervals []IntervalRequest

	// Stations optionally replaces the drawn station set.
	Stations []network.StationID

	// Window is the time range on the x axis
	Window Window

	PositionMode  scale.Mode
	PositionScale float64
	TimeMode      scale.Mode
	TimeScale     float64

	// UnitLength converts one scaled unit into drawing units, on both axes
	UnitLength float64

	// TrackSpacing is the vertical distance between tracks of a station
	TrackSpacing float64

	// LabelPadding separates labels and bands from the plot area
	LabelPadding float64

	// BandHeight is the height of the top and bottom reserved bands.
	// Zero means DefaultBandHeight.
	BandHeight float64

	// StationLabels overrides measured station label sizes
	StationLabels map[network.StationID]LabelSize

	// TrainLabel is the size reserved at both ends of every polyline.
	// A zero size measures the train id instead.
	TrainLabel LabelSize

	// Measurer sizes labels the request does not report. Nil uses DefaultMeasurer.
	Measurer LabelMeasurer

	DrawCollision bool
	DrawHeatmap   bool
	DrawOccupancy bool

	// Workers caps concurrent path generation. Zero means one per CPU.
	Workers int
}

// IntervalRequest names an interval to draw. Reverse averages its grid length with
// the opposite direction when that is defined.
type IntervalRequest struct {
	ID      network.IntervalID
	Reverse bool
}

// LabelSize is the width and height of a label box in drawing units
type LabelSize struct {
	Width  float64
	Height float64
}

// DefaultBandHeight is the height of the reserved top and bottom bands
const DefaultBandHeight = 10.0

func (o *DiagramOptions) validate() error {
	if len(o.Intervals) == 0 && len(o.Stations) == 0 {
		return fmt.Errorf("no intervals or stations requested")
	}
	if o.UnitLength <= 0 {
		return fmt.Errorf("unit length must be positive, got %v", o.UnitLength)
	}
	if o.PositionScale <= 0 || o.TimeScale <= 0 {
		return fmt.Errorf("axis scales must be positive, got position=%v time=%v", o.PositionScale, o.TimeScale)
	}
	if o.TrackSpacing < 0 || o.LabelPadding < 0 || o.BandHeight < 0 {
		return fmt.Errorf("spacing and padding must not be negative")
	}
	return nil
}

func (o *DiagramOptions) bandHeight() float64 {
	if o.BandHeight == 0 {
		return DefaultBandHeight
	}
	return o.BandHeight
}
