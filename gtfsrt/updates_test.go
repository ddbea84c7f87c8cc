package gtfsrt

import (
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/marey/gtfs"
	"github.com/theoremus-urban-solutions/marey/wire"
)

func u32(v uint32) *uint32 { return &v }

func sampleImport() *gtfs.Import {
	stop := func(station string, arr, dep uint32) wire.ScheduleRecord {
		return wire.ScheduleRecord{Station: station, Arr: u32(arr), Dep: u32(dep)}
	}
	return &gtfs.Import{
		Network: &wire.NetworkRecord{
			Trains: []wire.TrainRecord{
				{ID: "RE 1", Schedule: []wire.ScheduleRecord{
					stop("A", 28800, 28860),
					stop("B", 29400, 29460),
					stop("C", 30000, 30060),
					stop("D", 30600, 30600),
				}},
				{ID: "RE 2", Schedule: []wire.ScheduleRecord{
					stop("A", 86000, 86100),
					stop("B", 86300, 86300),
				}},
			},
		},
		Trains:   map[string]string{"t1": "RE 1", "t2": "RE 2"},
		Stations: map[string]string{"A": "A", "B:1": "B", "C": "C", "D": "D"},
	}
}

func stopUpdate(stopID string, arrDelay, depDelay *int32) *gtfsrtpb.TripUpdate_StopTimeUpdate {
	stu := &gtfsrtpb.TripUpdate_StopTimeUpdate{StopId: proto.String(stopID)}
	if arrDelay != nil {
		stu.Arrival = &gtfsrtpb.TripUpdate_StopTimeEvent{Delay: arrDelay}
	}
	if depDelay != nil {
		stu.Departure = &gtfsrtpb.TripUpdate_StopTimeEvent{Delay: depDelay}
	}
	return stu
}

func tripUpdate(tripID string, updates ...*gtfsrtpb.TripUpdate_StopTimeUpdate) *gtfsrtpb.FeedEntity {
	return &gtfsrtpb.FeedEntity{
		Id: proto.String(tripID),
		TripUpdate: &gtfsrtpb.TripUpdate{
			Trip:           &gtfsrtpb.TripDescriptor{TripId: proto.String(tripID)},
			StopTimeUpdate: updates,
		},
	}
}

func times(tr wire.TrainRecord) [][2]uint32 {
	out := make([][2]uint32, 0, len(tr.Schedule))
	for _, e := range tr.Schedule {
		out = append(out, [2]uint32{*e.Arr, *e.Dep})
	}
	return out
}

func TestApplyTripUpdates_DelayPropagation(t *testing.T) {
	imp := sampleImport()
	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{GtfsRealtimeVersion: proto.String("2.0")},
		Entity: []*gtfsrtpb.FeedEntity{
			tripUpdate("t1",
				stopUpdate("B:1", proto.Int32(120), proto.Int32(180)),
				stopUpdate("D", proto.Int32(60), nil),
			),
			tripUpdate("unknown", stopUpdate("A", proto.Int32(600), nil)),
		},
	}

	data, err := proto.Marshal(fm)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	parsed, err := ParseFeed(data)
	if err != nil {
		t.Fatalf("ParseFeed failed: %v", err)
	}

	if n := ApplyTripUpdates(imp, parsed, time.UTC); n != 1 {
		t.Errorf("Expected 1 updated train, got %d", n)
	}

	got := times(imp.Network.Trains[0])
	want := [][2]uint32{
		{28800, 28860},
		{29520, 29640},
		{30180, 30240},
		{30660, 30660},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stop %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if times(imp.Network.Trains[1])[0] != [2]uint32{86000, 86100} {
		t.Error("Train without updates should keep its schedule")
	}
}

func TestApplyTripUpdates_AbsoluteTimes(t *testing.T) {
	imp := sampleImport()
	loc := time.FixedZone("CET", 3600)
	// three minutes late out of A, arriving at B after midnight
	depA := time.Date(2026, 3, 1, 23, 58, 0, 0, loc).Unix()
	arrB := time.Date(2026, 3, 2, 0, 2, 0, 0, loc).Unix()

	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{GtfsRealtimeVersion: proto.String("2.0")},
		Entity: []*gtfsrtpb.FeedEntity{{
			Id: proto.String("e1"),
			TripUpdate: &gtfsrtpb.TripUpdate{
				Trip: &gtfsrtpb.TripDescriptor{TripId: proto.String("t2")},
				StopTimeUpdate: []*gtfsrtpb.TripUpdate_StopTimeUpdate{
					{StopId: proto.String("A"), Departure: &gtfsrtpb.TripUpdate_StopTimeEvent{Time: proto.Int64(depA)}},
					{StopId: proto.String("B:1"), Arrival: &gtfsrtpb.TripUpdate_StopTimeEvent{Time: proto.Int64(arrB)}},
				},
			},
		}},
	}

	ApplyTripUpdates(imp, fm, loc)

	got := times(imp.Network.Trains[1])
	if got[0] != [2]uint32{86180, 86280} {
		t.Errorf("A: got %v", got[0])
	}
	if got[1] != [2]uint32{120, 120} {
		t.Errorf("B should wrap past midnight, got %v", got[1])
	}
}

func TestApplyTripUpdates_Skipped(t *testing.T) {
	imp := sampleImport()
	skipped := stopUpdate("C", nil, proto.Int32(0))
	skipped.ScheduleRelationship = gtfsrtpb.TripUpdate_StopTimeUpdate_SKIPPED.Enum()

	fm := &gtfsrtpb.FeedMessage{Entity: []*gtfsrtpb.FeedEntity{tripUpdate("t1", skipped)}}
	ApplyTripUpdates(imp, fm, time.UTC)

	if got := times(imp.Network.Trains[0])[2]; got != [2]uint32{30060, 30060} {
		t.Errorf("Skipped stop should be passed without dwell, got %v", got)
	}
}

func TestParseFeed_Invalid(t *testing.T) {
	if _, err := ParseFeed([]byte{0xff, 0xff, 0xff}); err == nil {
		t.Error("Garbage should fail to parse")
	}
}
