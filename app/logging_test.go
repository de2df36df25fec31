package app

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/Randy420Marsh/Chess-Analyzer/app/config"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tc := range tests {
		logger := NewLogger(config.LogConfig{Style: "json", Level: tc.level})
		if logger.GetLevel() != tc.want {
			t.Fatalf("NewLogger(%q) level = %v, want %v", tc.level, logger.GetLevel(), tc.want)
		}
	}
}
