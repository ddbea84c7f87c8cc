package gtfs

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"github.com/theoremus-urban-solutions/marey/network"
	"github.com/theoremus-urban-solutions/marey/utils"
	"github.com/theoremus-urban-solutions/marey/wire"
)

// ImportOptions narrows the trips turned into trains. Empty lists keep everything.
type ImportOptions struct {
	RouteIDs   []string
	ServiceIDs []string
}

type importer struct {
	feed      *Feed
	stops     map[string]*Stop
	platforms map[string][]string // parent station -> child stop ids in track order
}

// Import is a converted feed together with the identifiers needed to match
// realtime updates against it
type Import struct {
	Network  *wire.NetworkRecord
	Trains   map[string]string // trip_id -> train id
	Stations map[string]string // stop_id -> station id
}

// Network converts the feed into a network document
func (f *Feed) Network(opts ImportOptions) (*wire.NetworkRecord, error) {
	imp, err := f.Import(opts)
	if err != nil {
		return nil, err
	}
	return imp.Network, nil
}

// Import converts the feed. Platforms sharing a parent station become tracks of
// that station, consecutive stops of a trip define an interval whose length is
// the great-circle distance in kilometres.
func (f *Feed) Import(opts ImportOptions) (*Import, error) {
	im := &importer{feed: f, stops: map[string]*Stop{}, platforms: map[string][]string{}}
	for i := range f.Stops {
		im.stops[f.Stops[i].ID] = &f.Stops[i]
	}
	im.indexPlatforms()

	routes := map[string]*Route{}
	for i := range f.Routes {
		routes[f.Routes[i].ID] = &f.Routes[i]
	}

	stopTimes := map[string][]StopTime{}
	for _, st := range f.StopTimes {
		stopTimes[st.TripID] = append(stopTimes[st.TripID], st)
	}

	rec := &wire.NetworkRecord{}
	imp := &Import{Network: rec, Trains: map[string]string{}, Stations: map[string]string{}}
	for id := range im.stops {
		imp.Stations[id], _ = im.station(id)
	}
	usedStations := map[string]bool{}
	intervals := map[network.IntervalID]bool{}
	trainIDs := map[string]bool{}

	for _, trip := range f.Trips {
		if !keep(opts.RouteIDs, trip.RouteID) || !keep(opts.ServiceIDs, trip.ServiceID) {
			continue
		}
		rows := stopTimes[trip.ID]
		slices.SortStableFunc(rows, func(a, b StopTime) int { return a.StopSequence - b.StopSequence })

		schedule, err := im.schedule(trip.ID, rows)
		if err != nil {
			return nil, err
		}
		if len(schedule) == 0 {
			log.Debug().Str("trip", trip.ID).Msg("trip has no timed stops, skipped")
			continue
		}

		id := trainName(trip, routes[trip.RouteID])
		if trainIDs[id] {
			id = trip.ID
		}
		trainIDs[id] = true
		imp.Trains[trip.ID] = id
		rec.Trains = append(rec.Trains, wire.TrainRecord{ID: id, Schedule: schedule})

		for i, e := range schedule {
			usedStations[e.Station] = true
			if i > 0 {
				intervals[network.IntervalID{
					From: network.StationID(schedule[i-1].Station),
					To:   network.StationID(e.Station),
				}] = true
			}
		}
	}
	if len(rec.Trains) == 0 {
		return nil, fmt.Errorf("no trips matched the import options")
	}

	stationIDs := make([]string, 0, len(usedStations))
	for id := range usedStations {
		stationIDs = append(stationIDs, id)
	}
	slices.Sort(stationIDs)
	for _, id := range stationIDs {
		tracks := uint16(1)
		if n := len(im.platforms[id]); n > 1 {
			tracks = uint16(n)
		}
		rec.Stations = append(rec.Stations, wire.StationRecord{ID: id, Tracks: &tracks})
	}

	ids := make([]network.IntervalID, 0, len(intervals))
	for id := range intervals {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b network.IntervalID) int { return strings.Compare(a.String(), b.String()) })
	for _, id := range ids {
		length := im.distanceKM(string(id.From), string(id.To))
		rec.Intervals = append(rec.Intervals, wire.IntervalRecord{From: string(id.From), To: string(id.To), Length: &length})
	}

	log.Debug().
		Int("stations", len(rec.Stations)).
		Int("intervals", len(rec.Intervals)).
		Int("trains", len(rec.Trains)).
		Msg("gtfs feed imported")
	return imp, nil
}

// indexPlatforms orders the child stops of every parent station by platform code
func (im *importer) indexPlatforms() {
	for _, s := range im.feed.Stops {
		if s.Parent == "" || (s.Type != "" && s.Type != "0") {
			continue
		}
		if _, ok := im.stops[s.Parent]; !ok {
			continue
		}
		im.platforms[s.Parent] = append(im.platforms[s.Parent], s.ID)
	}
	for parent, children := range im.platforms {
		slices.SortFunc(children, func(a, b string) int {
			if c := strings.Compare(im.stops[a].PlatformCode, im.stops[b].PlatformCode); c != 0 {
				return c
			}
			return strings.Compare(a, b)
		})
		im.platforms[parent] = children
	}
}

// station resolves a stop to the station drawn for it and the track it uses
func (im *importer) station(stopID string) (string, *uint16) {
	s := im.stops[stopID]
	if s.Parent == "" {
		return stopID, nil
	}
	if _, ok := im.stops[s.Parent]; !ok {
		return stopID, nil
	}
	if idx := slices.Index(im.platforms[s.Parent], stopID); idx >= 0 {
		track := uint16(idx)
		return s.Parent, &track
	}
	return s.Parent, nil
}

// schedule builds the timed stops of one trip. A missing arrival or departure
// copies the other one; stops with neither are skipped. Consecutive stops at the
// same station are merged into one visit.
func (im *importer) schedule(tripID string, rows []StopTime) ([]wire.ScheduleRecord, error) {
	var out []wire.ScheduleRecord
	for _, row := range rows {
		if _, ok := im.stops[row.StopID]; !ok {
			return nil, fmt.Errorf("trip %q references unknown stop %q", tripID, row.StopID)
		}
		arrText, depText := strings.TrimSpace(row.ArrivalTime), strings.TrimSpace(row.DepartureTime)
		if arrText == "" && depText == "" {
			continue
		}
		if arrText == "" {
			arrText = depText
		}
		if depText == "" {
			depText = arrText
		}
		arr, err := utils.ParseClock(arrText)
		if err != nil {
			return nil, fmt.Errorf("trip %q: %w", tripID, err)
		}
		dep, err := utils.ParseClock(depText)
		if err != nil {
			return nil, fmt.Errorf("trip %q: %w", tripID, err)
		}

		station, track := im.station(row.StopID)
		arrSec, depSec := uint32(arr), uint32(dep)
		if n := len(out); n > 0 && out[n-1].Station == station {
			out[n-1].Dep = &depSec
			continue
		}
		out = append(out, wire.ScheduleRecord{Station: station, Arr: &arrSec, Dep: &depSec, Track: track})
	}
	return out, nil
}

// distanceKM is the great-circle distance between two stations, or 0 when either
// has no coordinates
func (im *importer) distanceKM(from, to string) float64 {
	a, okA := im.coordinates(from)
	b, okB := im.coordinates(to)
	if !okA || !okB {
		return 0
	}
	return geo.Distance(a, b) / 1000
}

// coordinates of a station, falling back to its first platform
func (im *importer) coordinates(stationID string) (orb.Point, bool) {
	candidates := append([]string{stationID}, im.platforms[stationID]...)
	for _, id := range candidates {
		if s := im.stops[id]; s != nil && (s.Latitude != 0 || s.Longitude != 0) {
			return orb.Point{s.Longitude, s.Latitude}, true
		}
	}
	return orb.Point{}, false
}

func trainName(trip Trip, route *Route) string {
	name := strings.TrimSpace(trip.Name)
	if name == "" {
		return trip.ID
	}
	if route != nil && route.ShortName != "" && !strings.HasPrefix(name, route.ShortName) {
		return route.ShortName + " " + name
	}
	return name
}

func keep(allowed []string, id string) bool {
	return len(allowed) == 0 || slices.Contains(allowed, id)
}
