package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"INFO", zerolog.InfoLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"WARNING", zerolog.WarnLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"ERROR", zerolog.ErrorLevel, false},
		{"CRITICAL", zerolog.FatalLevel, false},
		{"verbose", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewLogger_LevelAndTags(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, zerolog.WarnLevel, map[string]string{"connector": "lobo-guara"})

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message must be filtered at warn level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, `"connector":"lobo-guara"`) {
		t.Errorf("expected tagged warn message, got %s", out)
	}
}
