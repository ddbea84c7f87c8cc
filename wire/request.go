package wire

import (
	"fmt"

	"github.com/theoremus-urban-solutions/marey/diagram"
	"github.com/theoremus-urban-solutions/marey/network"
	"github.com/theoremus-urban-solutions/marey/scale"
)

// RequestRecord is the wire form of a drawing request. Optional fields left empty
// are filled from configured defaults before conversion.
type RequestRecord struct {
	IntervalsToDraw   []IntervalToDraw `cbor:"intervals_to_draw,omitempty" json:"intervals_to_draw,omitempty" validate:"required_without=StationsToDraw,dive"`
	StationsToDraw    []string         `cbor:"stations_to_draw,omitempty" json:"stations_to_draw,omitempty" validate:"unique,dive,required"`
	BegHour           *uint8           `cbor:"beg_hour" json:"beg_hour" validate:"required,lte=23"`
	EndHour           *uint8           `cbor:"end_hour" json:"end_hour" validate:"required,lte=24"`
	UnitLength        *float64         `cbor:"unit_length,omitempty" json:"unit_length,omitempty" validate:"omitempty,gt=0"`
	PositionAxisMode  string           `cbor:"position_axis_mode,omitempty" json:"position_axis_mode,omitempty" validate:"omitempty,oneof=Auto Linear Logarithmic Square SquareRoot Uniform"`
	PositionAxisScale *float64         `cbor:"position_axis_scale,omitempty" json:"position_axis_scale,omitempty" validate:"omitempty,gt=0"`
	TimeAxisMode      string           `cbor:"time_axis_mode,omitempty" json:"time_axis_mode,omitempty" validate:"omitempty,oneof=Auto Linear Logarithmic Square SquareRoot Uniform"`
	TimeAxisScale     *float64         `cbor:"time_axis_scale,omitempty" json:"time_axis_scale,omitempty" validate:"omitempty,gt=0"`
	TrackSpacing      *float64         `cbor:"track_spacing,omitempty" json:"track_spacing,omitempty" validate:"omitempty,gte=0"`
	LabelPadding      *float64         `cbor:"label_padding,omitempty" json:"label_padding,omitempty" validate:"omitempty,gte=0"`
	BandHeight        *float64         `cbor:"band_height,omitempty" json:"band_height,omitempty" validate:"omitempty,gte=0"`
	StationLabels     []LabelRecord    `cbor:"station_labels,omitempty" json:"station_labels,omitempty" validate:"dive"`
	TrainLabel        *LabelRecord     `cbor:"train_label,omitempty" json:"train_label,omitempty"`
	DrawCollision     bool             `cbor:"draw_collision,omitempty" json:"draw_collision,omitempty"`
	DrawHeatmap       bool             `cbor:"draw_heatmap,omitempty" json:"draw_heatmap,omitempty"`
	DrawOccupancy     bool             `cbor:"draw_occupancy,omitempty" json:"draw_occupancy,omitempty"`
}

// IntervalToDraw names one interval of the request
type IntervalToDraw struct {
	From    string `cbor:"from" json:"from" validate:"required"`
	To      string `cbor:"to" json:"to" validate:"required"`
	Reverse bool   `cbor:"reverse,omitempty" json:"reverse,omitempty"`
}

// LabelRecord reports the rendered size of a label. ID is empty for the train label.
type LabelRecord struct {
	ID     string  `cbor:"id,omitempty" json:"id,omitempty"`
	Width  float64 `cbor:"width" json:"width" validate:"gte=0"`
	Height float64 `cbor:"height" json:"height" validate:"gte=0"`
}

// DecodeRequest parses a CBOR drawing request
func DecodeRequest(data []byte) (*RequestRecord, error) {
	var rec RequestRecord
	if err := Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Options converts the request into diagram options. Axis scales default to 1;
// unit length has no default and must be set by the request or configuration.
func (r *RequestRecord) Options() (diagram.DiagramOptions, error) {
	var opts diagram.DiagramOptions

	if r.BegHour == nil || r.EndHour == nil {
		return opts, fmt.Errorf("%w: beg_hour and end_hour are required", ErrMalformed)
	}
	if r.UnitLength == nil {
		return opts, fmt.Errorf("%w: unit_length is required", ErrMalformed)
	}

	posMode, err := scale.ParseMode(r.PositionAxisMode)
	if err != nil {
		return opts, fmt.Errorf("%w: position_axis_mode: %v", ErrMalformed, err)
	}
	timeMode, err := scale.ParseMode(r.TimeAxisMode)
	if err != nil {
		return opts, fmt.Errorf("%w: time_axis_mode: %v", ErrMalformed, err)
	}

	opts = diagram.DiagramOptions{
		Window:        diagram.HoursWindow(*r.BegHour, *r.EndHour),
		PositionMode:  posMode,
		PositionScale: valueOr(r.PositionAxisScale, 1),
		TimeMode:      timeMode,
		TimeScale:     valueOr(r.TimeAxisScale, 1),
		UnitLength:    *r.UnitLength,
		TrackSpacing:  valueOr(r.TrackSpacing, 0),
		LabelPadding:  valueOr(r.LabelPadding, 0),
		BandHeight:    valueOr(r.BandHeight, 0),
		DrawCollision: r.DrawCollision,
		DrawHeatmap:   r.DrawHeatmap,
		DrawOccupancy: r.DrawOccupancy,
	}
	for _, iv := range r.IntervalsToDraw {
		opts.Intervals = append(opts.Intervals, diagram.IntervalRequest{
			ID:      network.IntervalID{From: network.StationID(iv.From), To: network.StationID(iv.To)},
			Reverse: iv.Reverse,
		})
	}
	for _, id := range r.StationsToDraw {
		opts.Stations = append(opts.Stations, network.StationID(id))
	}
	if len(r.StationLabels) > 0 {
		opts.StationLabels = make(map[network.StationID]diagram.LabelSize, len(r.StationLabels))
		for _, l := range r.StationLabels {
			opts.StationLabels[network.StationID(l.ID)] = diagram.LabelSize{Width: l.Width, Height: l.Height}
		}
	}
	if r.TrainLabel != nil {
		opts.TrainLabel = diagram.LabelSize{Width: r.TrainLabel.Width, Height: r.TrainLabel.Height}
	}
	return opts, nil
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
