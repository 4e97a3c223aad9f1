package config

import (
	"os"
	"strconv"

	"github.com/amterp/tack/internal/model"
)

// Environment variables that override settings from config.toml.
const (
	EnvServer   = "TACK_SERVER"
	EnvRedisURL = "TACK_REDIS_URL"
	EnvLogLevel = "TACK_LOG_LEVEL"
	EnvRetries  = "TACK_RETRIES"

	// EnvAccessible switches prompts to plain text, as in other charm tools.
	EnvAccessible = "ACCESSIBLE"
)

// ApplyEnv overlays environment overrides onto settings. Unset or empty
// variables leave the stored value alone.
func ApplyEnv(s *model.Settings, getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvServer); v != "" {
		s.Server = v
	}
	if v := getenv(EnvRedisURL); v != "" {
		s.RedisURL = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		s.LogLevel = v
	}
	if v := getenv(EnvRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			s.Retries = &n
		}
	}
	if v := getenv(EnvAccessible); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			s.Accessible = on
		}
	}
}
