package config

import (
	"path/filepath"
	"testing"

	"github.com/amterp/tack/internal/model"
)

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvServer:   "http://board.internal:9000",
		EnvLogLevel: "debug",
		EnvRetries:  "5",
	}
	s := &model.Settings{Server: "http://localhost:1", RedisURL: "redis://keep"}

	ApplyEnv(s, func(k string) string { return env[k] })

	if s.Server != "http://board.internal:9000" {
		t.Errorf("Server = %q", s.Server)
	}
	if s.RedisURL != "redis://keep" {
		t.Errorf("RedisURL should be untouched, got %q", s.RedisURL)
	}
	if s.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", s.LogLevel)
	}
	if s.RetryCount() != 5 {
		t.Errorf("RetryCount() = %d", s.RetryCount())
	}
}

func TestApplyEnv_Accessible(t *testing.T) {
	s := &model.Settings{}
	ApplyEnv(s, func(k string) string {
		if k == EnvAccessible {
			return "true"
		}
		return ""
	})
	if !s.Accessible {
		t.Error("expected Accessible to be set")
	}

	ApplyEnv(s, func(k string) string {
		if k == EnvAccessible {
			return "maybe"
		}
		return ""
	})
	if !s.Accessible {
		t.Error("an unparseable value should leave Accessible alone")
	}
}

func TestApplyEnv_IgnoresBadRetries(t *testing.T) {
	s := &model.Settings{}
	ApplyEnv(s, func(k string) string {
		if k == EnvRetries {
			return "lots"
		}
		return ""
	})
	if s.Retries != nil {
		t.Errorf("expected Retries to stay nil, got %d", *s.Retries)
	}
}

func TestPaths(t *testing.T) {
	p := NewPaths("/work/proj")
	if got := p.BoardConfigPath("main"); got != filepath.Join("/work/proj", ".tack", "boards", "main", "config.toml") {
		t.Errorf("BoardConfigPath = %q", got)
	}
	if got := p.CardPath("main", "c_1"); got != filepath.Join("/work/proj", ".tack", "boards", "main", "cards", "c_1.json") {
		t.Errorf("CardPath = %q", got)
	}
}
