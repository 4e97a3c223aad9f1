package store

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/amterp/tack/internal/model"
	"github.com/amterp/tack/internal/version"
)

// FileSettingsStore implements SettingsStore on a TOML file.
type FileSettingsStore struct {
	path string
}

// NewSettingsStore creates a settings store at path. An empty path yields a
// store that loads defaults and never writes.
func NewSettingsStore(path string) *FileSettingsStore {
	return &FileSettingsStore{path: path}
}

// Load reads the settings file. A missing file yields empty settings.
func (s *FileSettingsStore) Load() (*model.Settings, error) {
	if s.path == "" {
		return &model.Settings{}, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.Settings{}, nil
		}
		return nil, err
	}

	var cfg model.Settings
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := version.CheckSettingsSchema(s.path, cfg.TackSchema); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the settings file, creating its directory if needed.
func (s *FileSettingsStore) Save(cfg *model.Settings) error {
	cfg.TackSchema = version.CurrentSettingsSchema()
	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	return writeAtomic(s.path, buf.Bytes())
}
