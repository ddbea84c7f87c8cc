package formatter

import (
	"encoding/json"
	"fmt"

	"github.com/liip/sheriff"

	"github.com/theoremus-urban-solutions/marey/diagram"
)

// Field groups understood by BuildJSON
const (
	GroupSummary  = "summary"
	GroupGeometry = "geometry"
)

type responseBuilder struct{}

func newResponseBuilder() *responseBuilder { return &responseBuilder{} }

// NewResponseBuilder creates a new response builder for formatting diagrams
func NewResponseBuilder() *responseBuilder {
	return newResponseBuilder()
}

// BuildJSON serializes a diagram to JSON, keeping the fields of group.
// An empty group means GroupGeometry.
func (rb *responseBuilder) BuildJSON(d *diagram.Diagram, group string) ([]byte, error) {
	if group == "" {
		group = GroupGeometry
	}
	if group != GroupSummary && group != GroupGeometry {
		return nil, fmt.Errorf("unknown field group %q", group)
	}
	reduced, err := sheriff.Marshal(&sheriff.Options{Groups: []string{group}}, d)
	if err != nil {
		return nil, fmt.Errorf("reduce diagram: %w", err)
	}
	return json.Marshal(reduced)
}
