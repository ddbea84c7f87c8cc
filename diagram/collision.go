package diagram

import (
	"github.com/paulmach/orb"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/theoremus-urban-solutions/marey/network"
)

// LabelMeasurer sizes label text in drawing units
type LabelMeasurer interface {
	Measure(text string) LabelSize
}

type faceMeasurer struct {
	face font.Face
}

// NewFaceMeasurer measures labels with the advance and line height of face
func NewFaceMeasurer(face font.Face) LabelMeasurer {
	return faceMeasurer{face: face}
}

// DefaultMeasurer measures with the 7x13 fixed bitmap face
func DefaultMeasurer() LabelMeasurer {
	return NewFaceMeasurer(basicfont.Face7x13)
}

func (m faceMeasurer) Measure(text string) LabelSize {
	return LabelSize{
		Width:  float64(font.MeasureString(m.face, text).Ceil()),
		Height: float64(m.face.Metrics().Height.Ceil()),
	}
}

// collisionBuilder collects rectangles a label placer must avoid
type collisionBuilder struct {
	rects []Rect
	bound orb.Bound
}

func (c *collisionBuilder) add(b orb.Bound) {
	if len(c.rects) == 0 {
		c.bound = b
	} else {
		c.bound = c.bound.Union(b)
	}
	c.rects = append(c.rects, NewRect(b))
}

func (c *collisionBuilder) result() *Collisions {
	out := &Collisions{Collisions: c.rects}
	if len(c.rects) > 0 {
		out.XMin, out.YMin = c.bound.Min.X(), c.bound.Min.Y()
		out.XMax, out.YMax = c.bound.Max.X(), c.bound.Max.Y()
	}
	return out
}

func boxAround(minX, minY, w, h float64) orb.Bound {
	return orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{minX + w, minY + h}}
}

// buildCollisions places station labels left of the plot, reserves the top and
// bottom bands, and reserves a train label box at each end of every polyline.
func buildCollisions(ladder *Ladder, width float64, trains []TrainPath, opts *DiagramOptions, m LabelMeasurer) *Collisions {
	c := &collisionBuilder{}
	pad := opts.LabelPadding

	for _, st := range ladder.Stations() {
		size := stationLabel(st.ID, opts, m)
		c.add(boxAround(-pad-size.Width, st.DrawHeight-size.Height/2, size.Width, size.Height))
	}

	top, bottom := ladder.Extent()
	band := opts.bandHeight()
	c.add(boxAround(0, top-pad-band, width, band))
	c.add(boxAround(0, bottom+pad, width, band))

	for _, tr := range trains {
		size := opts.TrainLabel
		if size.Width == 0 || size.Height == 0 {
			size = m.Measure(string(tr.ID))
		}
		for _, line := range tr.Lines {
			first, last := line[0], line[len(line)-1]
			c.add(boxAround(first.X()-size.Width, first.Y()-size.Height, size.Width, size.Height))
			c.add(boxAround(last.X(), last.Y()-size.Height, size.Width, size.Height))
		}
	}
	return c.result()
}

func stationLabel(id network.StationID, opts *DiagramOptions, m LabelMeasurer) LabelSize {
	if size, ok := opts.StationLabels[id]; ok {
		return size
	}
	return m.Measure(string(id))
}
