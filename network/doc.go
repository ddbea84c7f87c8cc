// Package network holds the validated railway network a diagram is drawn from.
//
// A Network is built in two phases. Build first checks the raw station, interval
// and train records for referential integrity (every interval endpoint and schedule
// stop must name a known station, every station has at least one track), then walks
// each schedule to fill in which trains call at a station and which trains run over
// an interval.
//
// # Index
//
// The Index answers the adjacency questions the diagram needs:
//
//	idx := net.Index()
//	idx.Neighbors("B")                              // stations one interval away
//	idx.IntervalTrains(network.IntervalID{"A", "B"}) // trains running A directly to B
//
// Interval-train relations are keyed by consecutive schedule pairs, so a train
// running B->A is found by looking up the reversed id.
//
// # Filtering
//
// FilterTo narrows a network to the region a diagram shows plus one hop of
// neighboring stations. The hop lets a train leaving the drawn region still be
// clipped at the neighboring station rather than vanish at the boundary.
// Requesting an unknown interval or station returns a *MissingEntityError.
//
// # Time
//
// Times are seconds since midnight, normalized into a single day. A schedule whose
// times decrease has crossed midnight; consumers unwrap it when they need a
// monotonic timeline.
package network
