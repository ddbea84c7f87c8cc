package density

import (
	"reflect"
	"testing"

	"github.com/theoremus-urban-solutions/marey/network"
)

func buildNetwork(t *testing.T, trains ...network.Train) *network.Network {
	t.Helper()
	n, err := network.Build(
		[]network.Station{{ID: "A", Tracks: 1}, {ID: "B", Tracks: 1}, {ID: "C", Tracks: 1}},
		[]network.Interval{
			{ID: network.IntervalID{From: "A", To: "B"}, Length: 10},
			{ID: network.IntervalID{From: "B", To: "C"}, Length: 10},
		},
		trains,
	)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return n
}

func stop(station network.StationID, arr, dep network.Time) network.ScheduleEntry {
	return network.ScheduleEntry{Station: station, Arrival: arr, Departure: dep}
}

func run(id network.TrainID, stops ...network.ScheduleEntry) network.Train {
	return network.Train{ID: id, Schedule: stops}
}

func TestTravelSlots(t *testing.T) {
	tests := []struct {
		name     string
		dep, arr network.Time
		expected []int
	}{
		{name: "within one slot", dep: network.Clock(8, 1, 0), arr: network.Clock(8, 9, 0), expected: []int{48}},
		{name: "two slots", dep: network.Clock(8, 0, 0), arr: network.Clock(8, 15, 0), expected: []int{48, 49}},
		{name: "ends on slot boundary", dep: network.Clock(8, 0, 0), arr: network.Clock(8, 20, 0), expected: []int{48, 49}},
		{name: "zero duration", dep: network.Clock(8, 5, 0), arr: network.Clock(8, 5, 0), expected: []int{48}},
		{name: "across midnight", dep: network.Clock(23, 55, 0), arr: network.Clock(0, 5, 0), expected: []int{143, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := travelSlots(uint32(tt.dep), uint32(tt.arr))
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestEstimate_AttributesToDepartureStation(t *testing.T) {
	n := buildNetwork(t,
		run("T1",
			stop("A", network.Clock(8, 0, 0), network.Clock(8, 0, 0)),
			stop("B", network.Clock(8, 15, 0), network.Clock(8, 21, 0)),
			stop("C", network.Clock(8, 25, 0), network.Clock(8, 25, 0)),
		),
	)

	occ := Estimate(n)

	if got := occ.Stations["A"].Hour(8); got != 2 {
		t.Errorf("station A hour 8 = %d, want 2", got)
	}
	if got := occ.Stations["B"].Hour(8); got != 1 {
		t.Errorf("station B hour 8 = %d, want 1", got)
	}
	if _, ok := occ.Stations["C"]; ok {
		t.Error("terminal station departs nowhere and should have no bins")
	}
	if got := occ.Intervals[network.IntervalID{From: "A", To: "B"}].Total(); got != 2 {
		t.Errorf("interval A->B total = %d, want 2", got)
	}
	if occ.Hours[8] != 3 {
		t.Errorf("hour 8 total = %d, want 3", occ.Hours[8])
	}
}

func TestEstimate_ReverseTravelUsesDefinedInterval(t *testing.T) {
	n := buildNetwork(t,
		run("T1",
			stop("B", network.Clock(9, 0, 0), network.Clock(9, 0, 0)),
			stop("A", network.Clock(9, 5, 0), network.Clock(9, 5, 0)),
		),
	)
	occ := Estimate(n)
	if got := occ.Intervals[network.IntervalID{From: "A", To: "B"}].Total(); got != 1 {
		t.Errorf("B->A travel should count against A->B, got %d", got)
	}
}

func TestEstimate_SkipsNonAdjacentPairs(t *testing.T) {
	n := buildNetwork(t,
		run("T1",
			stop("A", network.Clock(9, 0, 0), network.Clock(9, 0, 0)),
			stop("C", network.Clock(9, 30, 0), network.Clock(9, 30, 0)),
		),
	)
	if total := Estimate(n).Hours; total != [HoursPerDay]int{} {
		t.Errorf("A and C are not adjacent, expected no occupancy, got %v", total)
	}
}

func TestHourFactors(t *testing.T) {
	two := func(id network.TrainID) network.Train {
		return run(id,
			stop("A", network.Clock(8, 0, 0), network.Clock(8, 0, 0)),
			stop("B", network.Clock(8, 15, 0), network.Clock(8, 15, 0)),
		)
	}

	single := Estimate(buildNetwork(t, two("T1"))).HourFactors(1)
	double := Estimate(buildNetwork(t, two("T1"), two("T2"))).HourFactors(1)

	if single[8] != 1 {
		t.Errorf("single train factor = %v, want 1", single[8])
	}
	if double[8] != 2 {
		t.Errorf("two trains factor = %v, want 2", double[8])
	}
	if double[8] <= single[8] {
		t.Error("busier hour should be wider")
	}
	if double[7] != 1 {
		t.Errorf("quiet hour factor = %v, want 1", double[7])
	}

	scaled := Estimate(buildNetwork(t, two("T1"), two("T2"))).HourFactors(0.5)
	if scaled[8] != 1 || scaled[3] != 0.5 {
		t.Errorf("time scale not applied: %v %v", scaled[8], scaled[3])
	}

	t.Logf("✓ hour 8 factor: single=%v double=%v", single[8], double[8])
}
