package gtfs

// Stop is a row of stops.txt
type Stop struct {
	ID           string  `csv:"stop_id"`
	Name         string  `csv:"stop_name"`
	Latitude     float64 `csv:"stop_lat"`
	Longitude    float64 `csv:"stop_lon"`
	Type         string  `csv:"location_type"`
	Parent       string  `csv:"parent_station"`
	PlatformCode string  `csv:"platform_code"`
}

// Route is a row of routes.txt
type Route struct {
	ID        string `csv:"route_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
	Type      int    `csv:"route_type"`
}

// Trip is a row of trips.txt
type Trip struct {
	RouteID   string `csv:"route_id"`
	ServiceID string `csv:"service_id"`
	ID        string `csv:"trip_id"`
	Name      string `csv:"trip_short_name"`
}

// StopTime is a row of stop_times.txt
type StopTime struct {
	TripID        string `csv:"trip_id"`
	ArrivalTime   string `csv:"arrival_time"`
	DepartureTime string `csv:"departure_time"`
	StopID        string `csv:"stop_id"`
	StopSequence  int    `csv:"stop_sequence"`
}

// Feed holds the tables of a GTFS static feed needed to build a network
type Feed struct {
	Stops     []Stop
	Routes    []Route
	Trips     []Trip
	StopTimes []StopTime
}
