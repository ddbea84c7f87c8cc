package formatter

import (
	"strings"

	"github.com/theoremus-urban-solutions/marey/diagram"
)

// FilterTrains returns a copy of d keeping trains whose id contains trainRef,
// case-insensitively. Collision boxes are dropped when trains are removed since
// they include train label boxes.
func FilterTrains(d *diagram.Diagram, trainRef string) *diagram.Diagram {
	trainRef = strings.ToLower(strings.TrimSpace(trainRef))
	if trainRef == "" {
		return d
	}

	filtered := *d
	filtered.Trains = []diagram.TrainPath{}
	for _, t := range d.Trains {
		if strings.Contains(strings.ToLower(string(t.ID)), trainRef) {
			filtered.Trains = append(filtered.Trains, t)
		}
	}
	if len(filtered.Trains) != len(d.Trains) {
		filtered.Collisions = nil
	}
	return &filtered
}
