package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/marey/network"
)

// ParseClock converts "hh:mm:ss" into a time of day. Hours past 23 are accepted
// and wrap into the following day, as timetables write 25:10:00 for 01:10 the
// next morning.
func ParseClock(hhmmss string) (network.Time, error) {
	parts := strings.Split(strings.TrimSpace(hhmmss), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time format: expected hh:mm:ss, got %q", hhmmss)
	}

	var fields [3]uint32
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", hhmmss, err)
		}
		fields[i] = uint32(v)
	}
	if fields[1] > 59 || fields[2] > 59 {
		return 0, fmt.Errorf("invalid time %q: minutes and seconds must be below 60", hhmmss)
	}
	return network.Clock(fields[0], fields[1], fields[2]), nil
}

// FormatClock renders raw schedule seconds as "hh:mm:ss" without wrapping at
// midnight, so 91800 prints as 25:30:00.
func FormatClock(seconds uint32) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}
