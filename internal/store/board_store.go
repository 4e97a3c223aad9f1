package store

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/amterp/tack/internal/config"
	tackerr "github.com/amterp/tack/internal/errors"
	"github.com/amterp/tack/internal/model"
	"github.com/amterp/tack/internal/version"
)

// FileBoardStore implements BoardStore using the filesystem.
type FileBoardStore struct {
	paths *config.Paths
}

// NewBoardStore creates a new board store.
func NewBoardStore(paths *config.Paths) *FileBoardStore {
	return &FileBoardStore{paths: paths}
}

// Create creates the board directory and writes its config.
func (s *FileBoardStore) Create(cfg *model.BoardConfig) error {
	if s.Exists(cfg.Name) {
		return tackerr.BoardAlreadyExists(cfg.Name)
	}

	if err := os.MkdirAll(s.paths.CardsDir(cfg.Name), 0755); err != nil {
		return fmt.Errorf("failed to create board directory: %w", err)
	}

	if err := s.writeConfig(cfg); err != nil {
		return fmt.Errorf("failed to write board config: %w", err)
	}
	return nil
}

// Get reads the board config from disk.
func (s *FileBoardStore) Get(boardName string) (*model.BoardConfig, error) {
	path := s.paths.BoardConfigPath(boardName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, tackerr.BoardNotFound(boardName)
		}
		return nil, fmt.Errorf("failed to read board config: %w", err)
	}

	var cfg model.BoardConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid board config: %w", err)
	}

	if err := version.CheckBoardSchema(path, cfg.TackSchema); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Update writes the board config to disk.
func (s *FileBoardStore) Update(cfg *model.BoardConfig) error {
	if err := s.writeConfig(cfg); err != nil {
		return fmt.Errorf("failed to update board config: %w", err)
	}
	return nil
}

// Delete removes the board directory and all of its cards.
func (s *FileBoardStore) Delete(boardName string) error {
	if !s.Exists(boardName) {
		return tackerr.BoardNotFound(boardName)
	}
	if err := os.RemoveAll(s.paths.BoardDir(boardName)); err != nil {
		return fmt.Errorf("failed to delete board %s: %w", boardName, err)
	}
	return nil
}

// List returns the names of all boards.
func (s *FileBoardStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.paths.BoardsRoot())
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read boards directory: %w", err)
	}

	boards := []string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(s.paths.BoardConfigPath(entry.Name())); err == nil {
			boards = append(boards, entry.Name())
		}
	}
	return boards, nil
}

// Exists returns true if the board exists.
func (s *FileBoardStore) Exists(boardName string) bool {
	return exists(s.paths.BoardConfigPath(boardName))
}

// writeConfig stamps the current schema and writes the config atomically.
func (s *FileBoardStore) writeConfig(cfg *model.BoardConfig) error {
	cfg.TackSchema = version.CurrentBoardSchema()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	return writeAtomic(s.paths.BoardConfigPath(cfg.Name), buf.Bytes())
}
