package config

import (
	"os"
	"path/filepath"
)

const (
	DataDirName      = ".tack"
	BoardsDir        = "boards"
	CardsDir         = "cards"
	ConfigFileName   = "config.toml"
	LogFileName      = "tack.log"
	SettingsDirName  = ".config/tack"
	DefaultBoardName = "main"
)

// Paths resolves where a project's tack data lives on disk.
type Paths struct {
	projectRoot string
}

// NewPaths creates a Paths resolver rooted at the project directory (the
// directory holding .tack/).
func NewPaths(projectRoot string) *Paths {
	return &Paths{projectRoot: projectRoot}
}

// ProjectRoot returns the directory containing .tack/.
func (p *Paths) ProjectRoot() string {
	return p.projectRoot
}

// DataRoot returns the .tack directory.
func (p *Paths) DataRoot() string {
	return filepath.Join(p.projectRoot, DataDirName)
}

// BoardsRoot returns the boards directory.
func (p *Paths) BoardsRoot() string {
	return filepath.Join(p.DataRoot(), BoardsDir)
}

// BoardDir returns the directory for a specific board.
func (p *Paths) BoardDir(boardName string) string {
	return filepath.Join(p.BoardsRoot(), boardName)
}

// BoardConfigPath returns the config file path for a board.
func (p *Paths) BoardConfigPath(boardName string) string {
	return filepath.Join(p.BoardDir(boardName), ConfigFileName)
}

// CardsDir returns the cards directory for a board.
func (p *Paths) CardsDir(boardName string) string {
	return filepath.Join(p.BoardDir(boardName), CardsDir)
}

// CardPath returns the file path for a specific card.
func (p *Paths) CardPath(boardName, cardID string) string {
	return filepath.Join(p.CardsDir(boardName), cardID+".json")
}

// LogPath returns the project-local log file used by the terminal UI.
func (p *Paths) LogPath() string {
	return filepath.Join(p.DataRoot(), LogFileName)
}

// SettingsDir returns ~/.config/tack, or "" if the home directory is unknown.
func SettingsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, SettingsDirName)
}

// SettingsPath returns ~/.config/tack/config.toml.
func SettingsPath() string {
	dir := SettingsDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, ConfigFileName)
}
