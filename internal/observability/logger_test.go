package observability

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestSetupLoggerReturnsNonNilAndSetsDefault(t *testing.T) {
	logger := SetupLogger("debug", "text")
	if logger == nil {
		t.Fatal("SetupLogger returned nil")
	}
	if slog.Default() != logger {
		t.Error("SetupLogger did not install its logger as the default")
	}
}
