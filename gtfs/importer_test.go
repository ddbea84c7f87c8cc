package gtfs

import (
	"archive/zip"
	"bytes"
	"math"
	"sync"
	"testing"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func sampleFeed() map[string]string {
	return map[string]string{
		"stops.txt": "\xef\xbb\xbfstop_id,stop_name,stop_lat,stop_lon,location_type,parent_station,platform_code\n" +
			"NORTH,North,52.0,13.0,1,,\n" +
			"NORTH:2,North 2,52.0,13.0,0,NORTH,2\n" +
			"NORTH:1,North 1,52.0,13.0,0,NORTH,1\n" +
			"MID,Mid,52.1,13.0,,,\n" +
			"SOUTH,South,,,\n",
		"routes.txt": "route_id,route_short_name,route_type\n" +
			"R1,RE,2\n" +
			"R2,S,2\n",
		"trips.txt": "route_id,service_id,trip_id,trip_short_name\n" +
			"R1,WD,t1,4711\n" +
			"R2,WE,t2,\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
			"t1,08:12:00,08:13:00,MID,2\n" +
			"t1,08:00:00,08:02:00,NORTH:2,1\n" +
			"t1,08:30:00,,SOUTH,3\n" +
			"t2,24:50:00,24:51:00,MID,1\n" +
			"t2,,,NORTH:1,2\n" +
			"t2,25:05:00,25:05:00,NORTH,3\n",
		"calendar.txt": "service_id\nWD\n",
	}
}

func TestParseZip(t *testing.T) {
	feed, err := ParseZip(buildZip(t, sampleFeed()))
	if err != nil {
		t.Fatalf("ParseZip failed: %v", err)
	}
	if len(feed.Stops) != 5 || len(feed.Trips) != 2 || len(feed.StopTimes) != 6 {
		t.Errorf("Unexpected table sizes: %d stops, %d trips, %d stop times",
			len(feed.Stops), len(feed.Trips), len(feed.StopTimes))
	}
	if feed.Stops[0].ID != "NORTH" {
		t.Errorf("Byte order mark should be stripped, got %q", feed.Stops[0].ID)
	}

	files := sampleFeed()
	delete(files, "stop_times.txt")
	if _, err := ParseZip(buildZip(t, files)); err == nil {
		t.Error("Missing stop_times.txt should fail")
	}
	if _, err := ParseZip([]byte("not a zip")); err == nil {
		t.Error("Garbage should fail")
	}

	t.Logf("✓ Parsed %d stop times", len(feed.StopTimes))
}

func TestParseZip_Concurrent(t *testing.T) {
	data := buildZip(t, sampleFeed())

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	sizes := make(chan int, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			feed, err := ParseZip(data)
			if err != nil {
				errs <- err
				return
			}
			sizes <- len(feed.StopTimes)
		}()
	}
	wg.Wait()
	close(errs)
	close(sizes)

	for err := range errs {
		t.Errorf("ParseZip failed: %v", err)
	}
	for n := range sizes {
		if n != 6 {
			t.Errorf("Expected 6 stop times, got %d", n)
		}
	}
}

func TestFeedNetwork(t *testing.T) {
	feed, err := ParseZip(buildZip(t, sampleFeed()))
	if err != nil {
		t.Fatalf("ParseZip failed: %v", err)
	}
	rec, err := feed.Network(ImportOptions{})
	if err != nil {
		t.Fatalf("Network failed: %v", err)
	}

	if len(rec.Stations) != 3 {
		t.Fatalf("Expected 3 stations, got %+v", rec.Stations)
	}
	north := rec.Stations[1]
	if north.ID != "NORTH" || *north.Tracks != 2 {
		t.Errorf("Expected NORTH with 2 tracks, got %+v", north)
	}

	if len(rec.Trains) != 2 {
		t.Fatalf("Expected 2 trains, got %d", len(rec.Trains))
	}
	re := rec.Trains[0]
	if re.ID != "RE 4711" {
		t.Errorf("Expected named train, got %s", re.ID)
	}
	if re.Schedule[0].Station != "NORTH" || *re.Schedule[0].Track != 1 {
		t.Errorf("Platform 2 should map to track 1 of NORTH, got %+v", re.Schedule[0])
	}
	if *re.Schedule[2].Dep != *re.Schedule[2].Arr {
		t.Error("Missing departure should copy the arrival")
	}

	s := rec.Trains[1]
	if s.ID != "t2" {
		t.Errorf("Unnamed trip should use its id, got %s", s.ID)
	}
	if len(s.Schedule) != 2 {
		t.Fatalf("Untimed stop should be skipped and visits merged, got %+v", s.Schedule)
	}
	if *s.Schedule[0].Arr != 50*60 || *s.Schedule[1].Dep != 3600+5*60 {
		t.Errorf("Times past midnight should wrap, got %d and %d", *s.Schedule[0].Arr, *s.Schedule[1].Dep)
	}

	lengths := map[string]float64{}
	for _, iv := range rec.Intervals {
		lengths[iv.From+"->"+iv.To] = *iv.Length
	}
	if got := lengths["NORTH->MID"]; math.Abs(got-11.1) > 0.2 {
		t.Errorf("Expected about 11.1 km NORTH->MID, got %v", got)
	}
	if got, ok := lengths["MID->SOUTH"]; !ok || got != 0 {
		t.Errorf("Interval without coordinates should have length 0, got %v (%v)", got, ok)
	}
	if _, ok := lengths["MID->NORTH"]; !ok {
		t.Error("Reverse travel should define its own interval")
	}

	if _, err := rec.Build(); err != nil {
		t.Errorf("Imported network should build: %v", err)
	}
}

func TestFeedNetwork_Options(t *testing.T) {
	feed, err := ParseZip(buildZip(t, sampleFeed()))
	if err != nil {
		t.Fatalf("ParseZip failed: %v", err)
	}

	tests := []struct {
		name   string
		opts   ImportOptions
		trains int
	}{
		{name: "route filter", opts: ImportOptions{RouteIDs: []string{"R2"}}, trains: 1},
		{name: "service filter", opts: ImportOptions{ServiceIDs: []string{"WD"}}, trains: 1},
		{name: "both", opts: ImportOptions{RouteIDs: []string{"R1", "R2"}, ServiceIDs: []string{"WD", "WE"}}, trains: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := feed.Network(tt.opts)
			if err != nil {
				t.Fatalf("Network failed: %v", err)
			}
			if len(rec.Trains) != tt.trains {
				t.Errorf("Expected %d trains, got %d", tt.trains, len(rec.Trains))
			}
		})
	}

	if _, err := feed.Network(ImportOptions{RouteIDs: []string{"R9"}}); err == nil {
		t.Error("No matching trips should fail")
	}
}

func TestFeedNetwork_UnknownStop(t *testing.T) {
	files := sampleFeed()
	files["stop_times.txt"] += "t1,09:00:00,09:00:00,NOWHERE,4\n"
	feed, err := ParseZip(buildZip(t, files))
	if err != nil {
		t.Fatalf("ParseZip failed: %v", err)
	}
	if _, err := feed.Network(ImportOptions{}); err == nil {
		t.Error("Unknown stop should fail")
	}
}
