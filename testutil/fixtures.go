package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amterp/tack/internal/config"
	"github.com/amterp/tack/internal/model"
	"github.com/amterp/tack/internal/store"
)

// BoardName is the board SeedProject creates.
const BoardName = "main"

// SeedList describes one list of a seeded board.
type SeedList struct {
	ID    string
	Title string
	Cards []string // card IDs, in order
}

// TestCard returns a card with sensible test defaults.
func TestCard(id, title string) *model.Card {
	now := time.Now().UnixMilli()
	return &model.Card{
		ID:              id,
		Title:           title,
		CreatedAtMillis: now,
		UpdatedAtMillis: now,
	}
}

// TempTackDir creates a temporary project directory with an empty
// .tack/boards structure. It is removed when the test ends.
func TempTackDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, config.DataDirName, config.BoardsDir), 0755); err != nil {
		t.Fatalf("failed to create boards dir: %v", err)
	}
	return dir
}

// SeedProject creates a project holding one board with the given lists and
// a card file for every card ID. Card titles are "Card <id>". It returns
// the project root.
func SeedProject(t *testing.T, lists ...SeedList) string {
	t.Helper()

	root := TempTackDir(t)
	paths := config.NewPaths(root)
	cardStore := store.NewCardStore(paths)

	cfg := &model.BoardConfig{ID: "b_test", Name: BoardName}
	for _, l := range lists {
		title := l.Title
		if title == "" {
			title = "List " + l.ID
		}
		cfg.Lists = append(cfg.Lists, model.List{
			ID:      l.ID,
			Title:   title,
			CardIDs: append([]string(nil), l.Cards...),
		})
	}
	if err := store.NewBoardStore(paths).Create(cfg); err != nil {
		t.Fatalf("failed to create board: %v", err)
	}

	for _, l := range lists {
		for _, cardID := range l.Cards {
			if err := cardStore.Create(BoardName, TestCard(cardID, "Card "+cardID)); err != nil {
				t.Fatalf("failed to create card %s: %v", cardID, err)
			}
		}
	}
	return root
}

// ReadBoard reads the seeded board's config straight from disk.
func ReadBoard(t *testing.T, root string) *model.BoardConfig {
	t.Helper()
	cfg, err := store.NewBoardStore(config.NewPaths(root)).Get(BoardName)
	if err != nil {
		t.Fatalf("failed to read board: %v", err)
	}
	return cfg
}

// WriteBoard writes cfg straight to disk, bypassing any cache.
func WriteBoard(t *testing.T, root string, cfg *model.BoardConfig) {
	t.Helper()
	if err := store.NewBoardStore(config.NewPaths(root)).Update(cfg); err != nil {
		t.Fatalf("failed to write board: %v", err)
	}
}
