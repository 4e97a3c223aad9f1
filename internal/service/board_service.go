package service

import (
	"strings"

	tackerr "github.com/amterp/tack/internal/errors"
	"github.com/amterp/tack/internal/id"
	"github.com/amterp/tack/internal/model"
	"github.com/amterp/tack/internal/store"
	"github.com/amterp/tack/internal/util"
)

// BoardService handles board and list operations.
type BoardService struct {
	boardStore store.BoardStore
	cardStore  store.CardStore
	locks      *BoardLocks
}

// NewBoardService creates a new board service.
func NewBoardService(boardStore store.BoardStore, cardStore store.CardStore, locks *BoardLocks) *BoardService {
	return &BoardService{
		boardStore: boardStore,
		cardStore:  cardStore,
		locks:      locks,
	}
}

// Create creates a new board with the default lists. The display name is
// slugified into the board's directory name, which is returned.
func (s *BoardService) Create(displayName string) (string, error) {
	name := util.Slugify(displayName)
	if name == "" {
		return "", tackerr.InvalidField("board name", "must contain at least one letter or digit")
	}

	lists := model.DefaultLists()
	for i := range lists {
		lists[i].ID = id.Generate(id.List)
	}

	cfg := &model.BoardConfig{
		ID:    id.Generate(id.Board),
		Name:  name,
		Lists: lists,
	}
	if err := s.boardStore.Create(cfg); err != nil {
		return "", err
	}
	return name, nil
}

// List returns the names of all boards.
func (s *BoardService) List() ([]string, error) {
	return s.boardStore.List()
}

// Get returns the board configuration.
func (s *BoardService) Get(name string) (*model.BoardConfig, error) {
	return s.boardStore.Get(name)
}

// Exists returns true if the board exists.
func (s *BoardService) Exists(name string) bool {
	return s.boardStore.Exists(name)
}

// Delete removes a board and all its cards.
func (s *BoardService) Delete(name string) error {
	defer s.locks.Lock(name)()
	return s.boardStore.Delete(name)
}

// ListOrder returns the board's lists in display order.
func (s *BoardService) ListOrder(boardName string) ([]model.List, error) {
	cfg, err := s.boardStore.Get(boardName)
	if err != nil {
		return nil, err
	}
	return cfg.Lists, nil
}

// FindList resolves a list by ID, or by case-insensitive title.
func (s *BoardService) FindList(boardName, idOrTitle string) (*model.List, error) {
	cfg, err := s.boardStore.Get(boardName)
	if err != nil {
		return nil, err
	}
	return findList(cfg, idOrTitle, boardName)
}

func findList(cfg *model.BoardConfig, idOrTitle, boardName string) (*model.List, error) {
	if l, ok := cfg.List(idOrTitle); ok {
		return l, nil
	}
	for i := range cfg.Lists {
		if strings.EqualFold(cfg.Lists[i].Title, idOrTitle) {
			return &cfg.Lists[i], nil
		}
	}
	return nil, tackerr.ListNotFound(idOrTitle, boardName)
}

// AddList adds a list to a board at position (-1 appends) and returns it.
func (s *BoardService) AddList(boardName, title string, position int) (*model.List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, tackerr.InvalidField("list title", "cannot be empty")
	}

	defer s.locks.Lock(boardName)()
	cfg, err := s.boardStore.Get(boardName)
	if err != nil {
		return nil, err
	}
	if cfg.HasListTitle(title) {
		return nil, tackerr.ListAlreadyExists(title, boardName)
	}

	l := model.List{
		ID:    id.Generate(id.List),
		Title: title,
		Color: cfg.NextListColor(),
	}
	cfg.Lists = model.InsertAt(cfg.Lists, l, position)

	if err := s.boardStore.Update(cfg); err != nil {
		return nil, err
	}
	return &l, nil
}

// RenameList changes a list's title.
func (s *BoardService) RenameList(boardName, listID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return tackerr.InvalidField("list title", "cannot be empty")
	}

	defer s.locks.Lock(boardName)()
	cfg, err := s.boardStore.Get(boardName)
	if err != nil {
		return err
	}
	l, ok := cfg.List(listID)
	if !ok {
		return tackerr.ListNotFound(listID, boardName)
	}
	if l.Title == title {
		return nil
	}
	if cfg.HasListTitle(title) {
		return tackerr.ListAlreadyExists(title, boardName)
	}
	l.Title = title
	return s.boardStore.Update(cfg)
}

// DeleteList removes a list and all of its cards. Returns the number of
// cards deleted.
func (s *BoardService) DeleteList(boardName, listID string) (int, error) {
	defer s.locks.Lock(boardName)()
	cfg, err := s.boardStore.Get(boardName)
	if err != nil {
		return 0, err
	}
	idx := cfg.ListIndex(listID)
	if idx < 0 {
		return 0, tackerr.ListNotFound(listID, boardName)
	}
	if len(cfg.Lists) <= 1 {
		return 0, tackerr.InvalidField("list", "cannot delete the last remaining list")
	}

	cardIDs := cfg.Lists[idx].CardIDs
	for _, cardID := range cardIDs {
		// A missing card file is already the state we want.
		_ = s.cardStore.Delete(boardName, cardID)
	}
	cfg.Lists = model.RemoveAt(cfg.Lists, idx)

	if err := s.boardStore.Update(cfg); err != nil {
		return len(cardIDs), err
	}
	return len(cardIDs), nil
}

// ReorderList moves a list to position (0-indexed final index).
func (s *BoardService) ReorderList(boardName, listID string, position int) error {
	defer s.locks.Lock(boardName)()
	cfg, err := s.boardStore.Get(boardName)
	if err != nil {
		return err
	}
	from := cfg.ListIndex(listID)
	if from < 0 {
		return tackerr.ListNotFound(listID, boardName)
	}
	if position < 0 || position >= len(cfg.Lists) {
		return tackerr.InvalidField("position", "must be between 0 and number of lists minus 1")
	}
	if from == position {
		return nil
	}

	cfg.MoveList(listID, position)
	return s.boardStore.Update(cfg)
}
