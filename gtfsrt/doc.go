// Package gtfsrt overlays GTFS-Realtime trip updates on a network imported
// from GTFS static data, so a diagram can show predicted rather than planned
// running.
package gtfsrt
