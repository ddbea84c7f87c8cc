package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/theoremus-urban-solutions/marey"
	"github.com/theoremus-urban-solutions/marey/config"
	"github.com/theoremus-urban-solutions/marey/density"
	"github.com/theoremus-urban-solutions/marey/gtfs"
	"github.com/theoremus-urban-solutions/marey/gtfsrt"
	"github.com/theoremus-urban-solutions/marey/network"
	"github.com/theoremus-urban-solutions/marey/utils"
	"github.com/theoremus-urban-solutions/marey/wire"
)

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "render a diagram once",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "network", Aliases: []string{"n"}, Required: true, Usage: "network document (file, URL or -)"},
			&cli.StringFlag{Name: "request", Aliases: []string{"r"}, Required: true, Usage: "request document (file, URL or -)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, stdout when empty"},
			&cli.StringFlag{Name: "format", Value: "cbor", Usage: "cbor|json"},
			&cli.StringFlag{Name: "group", Usage: "JSON field group: summary|geometry"},
			&cli.StringFlag{Name: "train", Usage: "keep only trains whose id contains this text"},
			&cli.StringFlag{Name: "begin", Usage: "override the window start, hh:mm:ss"},
			&cli.StringFlag{Name: "end", Usage: "override the window end, hh:mm:ss"},
		},
		Action: func(c *cli.Context) error {
			netData, reqData, err := newFetcher().fetchPair(c.String("network"), c.String("request"))
			if err != nil {
				return err
			}
			reqData, err = overrideWindow(reqData, c.String("begin"), c.String("end"))
			if err != nil {
				return err
			}

			engine := marey.NewEngine(config.Config.Drawing, 0)
			body, _, err := engine.Render(netData, reqData, marey.Output{
				Format: c.String("format"),
				Group:  c.String("group"),
				Train:  c.String("train"),
			})
			if err != nil {
				return err
			}
			return writeOutput(c.String("out"), body)
		},
	}
}

// overrideWindow replaces the request hours with the given clock times. The
// window starts and ends on whole hours, so minutes and seconds are dropped.
func overrideWindow(reqData []byte, begin, end string) ([]byte, error) {
	if begin == "" && end == "" {
		return reqData, nil
	}
	var req wire.RequestRecord
	if err := cbor.Unmarshal(reqData, &req); err != nil {
		return nil, fmt.Errorf("%w: request: %v", wire.ErrMalformed, err)
	}

	for _, o := range []struct {
		clock string
		hour  **uint8
	}{{begin, &req.BegHour}, {end, &req.EndHour}} {
		if o.clock == "" {
			continue
		}
		t, err := utils.ParseClock(o.clock)
		if err != nil {
			return nil, err
		}
		if t.Minute() != 0 || t.Second() != 0 {
			log.Warn().Str("clock", o.clock).Msg("window bounds are whole hours, truncating")
		}
		h := uint8(t.Hour())
		*o.hour = &h
	}
	return wire.Marshal(&req)
}

type networkSummary struct {
	Stations      int
	Intervals     int
	Trains        int
	TrafficByHour [density.HoursPerDay]int
	Busiest       network.StationID
}

type scheduleRow struct {
	Station   network.StationID
	Arrival   string
	Departure string
	Track     string
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "print a summary of a network document",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "network", Aliases: []string{"n"}, Required: true, Usage: "network document (file, URL or -)"},
			&cli.StringFlag{Name: "train", Usage: "print the schedule of this train"},
			&cli.StringFlag{Name: "station", Usage: "print hourly occupancy of this station"},
		},
		Action: func(c *cli.Context) error {
			data, err := newFetcher().fetch(c.String("network"))
			if err != nil {
				return err
			}
			rec, err := wire.DecodeNetwork(data)
			if err != nil {
				return err
			}
			net, err := rec.Build()
			if err != nil {
				return err
			}
			occ := density.Estimate(net)

			if id := c.String("train"); id != "" {
				rows, err := trainSchedule(net, network.TrainID(id))
				if err != nil {
					return err
				}
				pretty.Println(rows)
				return nil
			}
			if id := c.String("station"); id != "" {
				if _, ok := net.Station(network.StationID(id)); !ok {
					return &network.MissingEntityError{Kind: "station", ID: id}
				}
				var hours [density.HoursPerDay]int
				if bins, ok := occ.Stations[network.StationID(id)]; ok {
					for h := range hours {
						hours[h] = bins.Hour(h)
					}
				}
				pretty.Println(hours)
				return nil
			}

			pretty.Println(summarize(net, occ))
			return nil
		},
	}
}

func summarize(net *network.Network, occ *density.Occupancy) networkSummary {
	s := networkSummary{
		Stations:      len(net.Stations()),
		Intervals:     len(net.Intervals()),
		Trains:        len(net.Trains()),
		TrafficByHour: occ.Hours,
	}
	best := -1
	for _, st := range net.Stations() {
		bins, ok := occ.Stations[st.ID]
		if !ok {
			continue
		}
		if total := bins.Total(); total > best {
			best, s.Busiest = total, st.ID
		}
	}
	return s
}

func trainSchedule(net *network.Network, id network.TrainID) ([]scheduleRow, error) {
	t, ok := net.Train(id)
	if !ok {
		return nil, &network.MissingEntityError{Kind: "train", ID: string(id)}
	}
	rows := make([]scheduleRow, 0, len(t.Schedule))
	for _, e := range t.Schedule {
		row := scheduleRow{
			Station:   e.Station,
			Arrival:   utils.FormatClock(uint32(e.Arrival)),
			Departure: utils.FormatClock(uint32(e.Departure)),
		}
		if e.Track != nil {
			row.Track = fmt.Sprint(*e.Track)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "encode",
		Usage: "convert a JSON network or request into CBOR",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Value: "network", Usage: "network|request"},
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Required: true, Usage: "JSON document (file, URL or -)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, stdout when empty"},
		},
		Action: func(c *cli.Context) error {
			data, err := newFetcher().fetch(c.String("in"))
			if err != nil {
				return err
			}
			out, err := encodeJSON(c.String("kind"), data)
			if err != nil {
				return err
			}
			return writeOutput(c.String("out"), out)
		},
	}
}

// encodeJSON re-encodes a JSON document as CBOR, checking it decodes back as kind
func encodeJSON(kind string, data []byte) ([]byte, error) {
	var doc any
	switch kind {
	case "network":
		doc = &wire.NetworkRecord{}
	case "request":
		doc = &wire.RequestRecord{}
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", wire.ErrMalformed, err)
	}
	out, err := wire.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if err := wire.Unmarshal(out, doc); err != nil {
		return nil, err
	}
	return out, nil
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-gtfs",
		Usage: "build a network document from a GTFS static feed",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "feed", Aliases: []string{"f"}, Required: true, Usage: "GTFS zip (file, URL or -)"},
			&cli.StringSliceFlag{Name: "route", Usage: "keep trips of this route_id, repeatable"},
			&cli.StringSliceFlag{Name: "service", Usage: "keep trips of this service_id, repeatable"},
			&cli.StringFlag{Name: "realtime", Usage: "GTFS-RT TripUpdates feed to apply (file or URL)"},
			&cli.StringFlag{Name: "timezone", Value: "UTC", Usage: "agency timezone for realtime timestamps"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, stdout when empty"},
		},
		Action: func(c *cli.Context) error {
			f := newFetcher()
			data, err := f.fetch(c.String("feed"))
			if err != nil {
				return err
			}
			feed, err := gtfs.ParseZip(data)
			if err != nil {
				return err
			}
			imp, err := feed.Import(gtfs.ImportOptions{
				RouteIDs:   c.StringSlice("route"),
				ServiceIDs: c.StringSlice("service"),
			})
			if err != nil {
				return err
			}
			if rt := c.String("realtime"); rt != "" {
				loc, err := time.LoadLocation(c.String("timezone"))
				if err != nil {
					return err
				}
				data, err := f.fetch(rt)
				if err != nil {
					return fmt.Errorf("realtime: %w", err)
				}
				fm, err := gtfsrt.ParseFeed(data)
				if err != nil {
					return err
				}
				n := gtfsrt.ApplyTripUpdates(imp, fm, loc)
				log.Info().Int("trains", n).Msg("realtime predictions applied")
			}

			rec := imp.Network
			out, err := wire.Marshal(rec)
			if err != nil {
				return err
			}
			log.Info().
				Int("stations", len(rec.Stations)).
				Int("trains", len(rec.Trains)).
				Msg("network imported")
			return writeOutput(c.String("out"), out)
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "listen port, overrides server.port"},
		},
		Action: func(c *cli.Context) error {
			port := config.Config.Server.Port
			if c.IsSet("port") {
				port = c.Int("port")
			}
			s := marey.StartServer(marey.NewEngineFromConfig(), port)
			marey.HandleGracefulShutdown(s)
			return nil
		},
	}
}
