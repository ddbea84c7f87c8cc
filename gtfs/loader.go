package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

// ParseZip reads stops, routes, trips and stop times from a GTFS zip archive.
// Other files are ignored.
func ParseZip(data []byte) (*Feed, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open gtfs archive: %w", err)
	}

	feed := &Feed{}
	fileMap := map[string]any{
		"stops.txt":      &feed.Stops,
		"routes.txt":     &feed.Routes,
		"trips.txt":      &feed.Trips,
		"stop_times.txt": &feed.StopTimes,
	}

	for _, zipFile := range archive.File {
		name := strings.ToLower(path.Base(zipFile.Name))
		destination, ok := fileMap[name]
		if !ok {
			continue
		}
		if err := consumeCSV(zipFile, destination); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		delete(fileMap, name)
		log.Debug().Str("file", name).Msg("loaded gtfs file")
	}

	for _, required := range []string{"stops.txt", "trips.txt", "stop_times.txt"} {
		if _, missing := fileMap[required]; missing {
			return nil, fmt.Errorf("gtfs archive has no %s", required)
		}
	}
	return feed, nil
}

func consumeCSV(f *zip.File, destination any) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))

	// Tolerate rows with missing trailing columns
	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1
	return gocsv.UnmarshalCSV(reader, destination)
}
