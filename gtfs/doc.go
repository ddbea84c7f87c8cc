/*
Package gtfs imports a GTFS static feed as a network document.

The package is data-source agnostic: it accepts the raw zip bytes and leaves
downloading to the caller.

# Basic Usage

	feed, err := gtfs.ParseZip(zipBytes)
	if err != nil {
	    return err
	}
	rec, err := feed.Network(gtfs.ImportOptions{RouteIDs: []string{"S1"}})
	if err != nil {
	    return err
	}
	data, err := wire.Marshal(rec)

# Mapping

  - A stop with a parent station is drawn as that station; its platforms, ordered
    by platform_code, become the station's tracks.
  - Every trip becomes a train named by trip_short_name, prefixed with the route
    short name, or by trip_id when it has no name.
  - Consecutive stops of a trip define an interval. Its length is the
    great-circle distance in kilometres, or 0 without coordinates.
  - Times past 24:00:00 wrap into the next day.

Stations carry no position, so the diagram lays them out from the drawn
intervals.
*/
package gtfs
