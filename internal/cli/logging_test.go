package cli

import (
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/amterp/tack/internal/model"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		settings string
		flag     string
		want     log.Level
	}{
		{"default", "", "", defaultLogLevel},
		{"from settings", "debug", "", log.DebugLevel},
		{"flag wins", "debug", "error", log.ErrorLevel},
		{"unknown flag falls back", "debug", "loud", defaultLogLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logLevel(&model.Settings{LogLevel: tt.settings}, tt.flag)
			if got != tt.want {
				t.Errorf("logLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}
