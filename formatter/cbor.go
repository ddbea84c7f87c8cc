package formatter

import (
	"fmt"

	"github.com/theoremus-urban-solutions/marey/diagram"
	"github.com/theoremus-urban-solutions/marey/wire"
)

// BuildCBOR serializes a diagram to canonical CBOR
func (rb *responseBuilder) BuildCBOR(d *diagram.Diagram) ([]byte, error) {
	b, err := wire.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode diagram: %w", err)
	}
	return b, nil
}

// Build serializes d in the named format: "cbor" (default) or "json"
func (rb *responseBuilder) Build(d *diagram.Diagram, format, group string) ([]byte, string, error) {
	switch format {
	case "", "cbor":
		b, err := rb.BuildCBOR(d)
		return b, "application/cbor", err
	case "json":
		b, err := rb.BuildJSON(d, group)
		return b, "application/json", err
	}
	return nil, "", fmt.Errorf("unknown format %q", format)
}
