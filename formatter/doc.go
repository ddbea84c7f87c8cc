// Package formatter serializes generated diagrams for callers.
//
// This package is organized into:
// - cbor.go: canonical CBOR, the primary output format
// - json.go: JSON reduced to a field group with sheriff
// - filter.go: narrowing a diagram to a subset of trains
//
// The "summary" group drops polyline coordinates and collision boxes, leaving the
// ladder, axis widths and train list. The "geometry" group carries everything.
package formatter
