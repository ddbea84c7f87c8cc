package gtfsrt

import (
	"fmt"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/rs/zerolog/log"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/marey/gtfs"
	"github.com/theoremus-urban-solutions/marey/network"
	"github.com/theoremus-urban-solutions/marey/wire"
)

// ParseFeed decodes a GTFS-Realtime protobuf message
func ParseFeed(data []byte) (*gtfsrtpb.FeedMessage, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("parse gtfs-rt feed: %w", err)
	}
	return &fm, nil
}

// ApplyTripUpdates replaces scheduled times of imported trains with the predicted
// times of a TripUpdates feed. Absolute times are read in loc. A delay carries
// over to the following stops until the next update, as GTFS-Realtime
// prescribes. It returns the number of trains changed.
func ApplyTripUpdates(imp *gtfs.Import, fm *gtfsrtpb.FeedMessage, loc *time.Location) int {
	trains := map[string]*wire.TrainRecord{}
	for i := range imp.Network.Trains {
		trains[imp.Network.Trains[i].ID] = &imp.Network.Trains[i]
	}

	updated := 0
	for _, e := range fm.GetEntity() {
		tu := e.GetTripUpdate()
		if tu == nil {
			continue
		}
		trainID, ok := imp.Trains[tu.GetTrip().GetTripId()]
		if !ok {
			continue
		}
		if applyTripUpdate(trains[trainID], imp.Stations, tu, loc) {
			updated++
		}
	}

	log.Debug().Int("trains", updated).Msg("trip updates applied")
	return updated
}

func applyTripUpdate(train *wire.TrainRecord, stations map[string]string, tu *gtfsrtpb.TripUpdate, loc *time.Location) bool {
	changed := false
	next := 0
	var delay int64
	var haveDelay bool

	for _, stu := range tu.GetStopTimeUpdate() {
		station, ok := stations[stu.GetStopId()]
		if !ok {
			continue
		}
		idx := findVisit(train.Schedule, station, next)
		if idx < 0 {
			continue
		}
		if haveDelay {
			for i := next; i < idx; i++ {
				shift(&train.Schedule[i], delay)
			}
		}

		entry := &train.Schedule[idx]
		scheduledArr, scheduledDep := int64(*entry.Arr), int64(*entry.Dep)
		arr, arrOK := predicted(stu.GetArrival(), scheduledArr, loc)
		dep, depOK := predicted(stu.GetDeparture(), scheduledDep, loc)
		switch {
		case arrOK && !depOK:
			dep = scheduledDep + (arr - scheduledArr)
		case depOK && !arrOK:
			arr = scheduledArr + (dep - scheduledDep)
		case !arrOK && !depOK:
			arr, dep = scheduledArr+delay, scheduledDep+delay
		}
		if stu.GetScheduleRelationship() == gtfsrtpb.TripUpdate_StopTimeUpdate_SKIPPED {
			arr = dep
		}

		setTimes(entry, arr, dep)
		delay, haveDelay = dep-scheduledDep, true
		changed = true
		next = idx + 1
	}

	if haveDelay {
		for i := next; i < len(train.Schedule); i++ {
			shift(&train.Schedule[i], delay)
		}
	}
	return changed
}

// findVisit returns the first visit of station at or after from
func findVisit(schedule []wire.ScheduleRecord, station string, from int) int {
	for i := from; i < len(schedule); i++ {
		if schedule[i].Station == station {
			return i
		}
	}
	return -1
}

// predicted is the seconds-of-day time of a stop time event: its absolute time
// in loc, or the scheduled time plus its delay
func predicted(ev *gtfsrtpb.TripUpdate_StopTimeEvent, scheduled int64, loc *time.Location) (int64, bool) {
	if ev == nil {
		return 0, false
	}
	if ev.Time != nil {
		t := time.Unix(ev.GetTime(), 0).In(loc)
		return int64(t.Hour()*3600 + t.Minute()*60 + t.Second()), true
	}
	if ev.Delay != nil {
		return scheduled + int64(ev.GetDelay()), true
	}
	return 0, false
}

func shift(entry *wire.ScheduleRecord, delay int64) {
	setTimes(entry, int64(*entry.Arr)+delay, int64(*entry.Dep)+delay)
}

func setTimes(entry *wire.ScheduleRecord, arr, dep int64) {
	a, d := wrap(arr), wrap(dep)
	entry.Arr, entry.Dep = &a, &d
}

func wrap(seconds int64) uint32 {
	day := int64(network.SecondsPerDay)
	return uint32(((seconds % day) + day) % day)
}
