package network

import "fmt"

// ConstructionError reports an input network that cannot be built
type ConstructionError struct {
	Kind   string // "station", "interval", "train"
	ID     string
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.ID, e.Reason)
}

// MissingEntityError reports a requested interval or station absent from the network
type MissingEntityError struct {
	Kind string // "station", "interval"
	ID   string
}

func (e *MissingEntityError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}
