package service

import (
	"context"
	"fmt"
	"os"

	"github.com/amterp/tack/internal/config"
	"github.com/amterp/tack/internal/git"
	"github.com/amterp/tack/internal/store"
)

// InitService sets up a .tack directory with a default board.
type InitService struct {
	gitClient *git.Client
}

// NewInitService creates a new init service. gitClient may be nil.
func NewInitService(gitClient *git.Client) *InitService {
	return &InitService{gitClient: gitClient}
}

// Root picks where .tack should live: the git repository root when dir is
// inside one, otherwise dir itself.
func (s *InitService) Root(ctx context.Context, dir string) string {
	if s.gitClient != nil {
		if root, err := s.gitClient.RepoRoot(ctx); err == nil && root != "" {
			return root
		}
	}
	return dir
}

// Initialize creates .tack/boards under root and the default board. It
// returns false when the project was already initialized.
func (s *InitService) Initialize(root string) (bool, error) {
	paths := config.NewPaths(root)
	if _, err := os.Stat(paths.BoardsRoot()); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(paths.BoardsRoot(), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}

	boards := NewBoardService(store.NewBoardStore(paths), store.NewCardStore(paths), nil)
	if _, err := boards.Create(config.DefaultBoardName); err != nil {
		return false, fmt.Errorf("failed to create default board: %w", err)
	}
	return true, nil
}
