package cli

import (
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/amterp/tack/internal/model"
)

const defaultLogLevel = log.WarnLevel

// logLevel picks the level from the flag, then settings (which already
// carry TACK_LOG_LEVEL), then the default.
func logLevel(settings *model.Settings, flag string) log.Level {
	for _, candidate := range []string{flag, settings.LogLevel} {
		if candidate == "" {
			continue
		}
		if lvl, err := log.ParseLevel(candidate); err == nil {
			return lvl
		}
		PrintWarning("unknown log level %q, using %s", candidate, defaultLogLevel)
		return defaultLogLevel
	}
	return defaultLogLevel
}

// setupLogging configures the standard logger, which every component
// logs through.
func setupLogging(settings *model.Settings, flag string, out io.Writer) {
	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(logLevel(settings, flag))
}
