package internal

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{in: "", want: zerolog.InfoLevel},
		{in: "debug", want: zerolog.DebugLevel},
		{in: "WARN", want: zerolog.WarnLevel},
		{in: "nonsense", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInitLogging(t *testing.T) {
	orig := log.Logger
	defer func() { log.Logger = orig }()

	t.Setenv("MAREY_DEBUG", "")
	InitLogging("error", "json")
	if log.Logger.GetLevel() != zerolog.ErrorLevel {
		t.Errorf("expected error level, got %v", log.Logger.GetLevel())
	}

	t.Setenv("MAREY_DEBUG", "YES")
	InitLogging("error", "console")
	if log.Logger.GetLevel() != zerolog.DebugLevel {
		t.Errorf("MAREY_DEBUG should force debug, got %v", log.Logger.GetLevel())
	}
}
