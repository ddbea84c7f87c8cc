package internal

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogging configures the global zerolog logger. The environment wins over
// configuration: MAREY_LOG_FORMAT=JSON forces JSON output and MAREY_DEBUG=YES
// forces debug level.
func InitLogging(level, format string) {
	if os.Getenv("MAREY_LOG_FORMAT") != "JSON" && !strings.EqualFold(format, "json") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	log.Logger = log.Logger.Level(ParseLevel(level))
	if os.Getenv("MAREY_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}
}

// ParseLevel maps a configured level name to zerolog, defaulting to info
func ParseLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.InfoLevel
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}
