package diagram

import (
	"math"

	"github.com/theoremus-urban-solutions/marey/network"
	"github.com/theoremus-urban-solutions/marey/scale"
)

// gridLengths returns the scaled drawing length of each requested interval.
// A reversed request averages both directions when the opposite one exists.
// Lengths never drop below one unit.
func gridLengths(net *network.Network, reqs []IntervalRequest, mode scale.Mode, positionScale, unitLength float64) ([]float64, error) {
	out := make([]float64, 0, len(reqs))
	for _, r := range reqs {
		fwd, ok := net.IntervalLength(r.ID.From, r.ID.To)
		if !ok {
			return nil, &network.MissingEntityError{Kind: "interval", ID: r.ID.String()}
		}
		length := scale.Length(fwd, mode, positionScale) * unitLength
		if r.Reverse {
			if back, ok := net.IntervalLength(r.ID.To, r.ID.From); ok {
				length = (length + scale.Length(back, mode, positionScale)*unitLength) / 2
			}
		}
		out = append(out, math.Max(length, unitLength))
	}
	return out, nil
}
