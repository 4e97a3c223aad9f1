package model

import "time"

// Settings is the user's tack configuration, stored at
// ~/.config/tack/config.toml.
type Settings struct {
	TackSchema     string `toml:"tack_schema"`
	Server         string `toml:"server,omitempty"`
	DefaultBoard   string `toml:"default_board,omitempty"`
	LogLevel       string `toml:"log_level,omitempty"`
	RequestTimeout string `toml:"request_timeout,omitempty"` // Go duration, e.g. "10s"
	Retries        *int   `toml:"retries,omitempty"`
	RedisURL       string `toml:"redis_url,omitempty"`
	Accessible     bool   `toml:"accessible,omitempty"` // plain prompts for screen readers
}

const (
	DefaultServer         = "http://localhost:5260"
	DefaultRequestTimeout = 10 * time.Second
	DefaultRetries        = 2
)

// ServerURL returns the configured server, falling back to the default.
func (s *Settings) ServerURL() string {
	if s.Server != "" {
		return s.Server
	}
	return DefaultServer
}

// Timeout parses RequestTimeout, falling back to the default when it is
// unset or unparseable.
func (s *Settings) Timeout() time.Duration {
	if s.RequestTimeout == "" {
		return DefaultRequestTimeout
	}
	d, err := time.ParseDuration(s.RequestTimeout)
	if err != nil || d <= 0 {
		return DefaultRequestTimeout
	}
	return d
}

// RetryCount returns how many times a failed request is retried.
func (s *Settings) RetryCount() int {
	if s.Retries == nil || *s.Retries < 0 {
		return DefaultRetries
	}
	return *s.Retries
}
