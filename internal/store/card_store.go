package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/amterp/tack/internal/config"
	tackerr "github.com/amterp/tack/internal/errors"
	"github.com/amterp/tack/internal/id"
	"github.com/amterp/tack/internal/model"
	"github.com/amterp/tack/internal/version"
)

const cardExt = ".json"

// FileCardStore keeps one JSON file per card under the board's cards
// directory. A card's list is not part of the file; the board config owns
// membership and order.
type FileCardStore struct {
	paths *config.Paths
}

func NewCardStore(paths *config.Paths) *FileCardStore {
	return &FileCardStore{paths: paths}
}

func (s *FileCardStore) Create(boardName string, card *model.Card) error {
	path := s.paths.CardPath(boardName, card.ID)
	if exists(path) {
		return &tackerr.AlreadyExistsError{Resource: "card", ID: card.ID}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cards directory: %w", err)
	}
	if err := writeCard(path, card); err != nil {
		return fmt.Errorf("failed to create card %s: %w", card.ID, err)
	}
	return nil
}

func (s *FileCardStore) Get(boardName, cardID string) (*model.Card, error) {
	if !id.WellFormed(cardID) {
		return nil, tackerr.CardNotFound(cardID)
	}
	card, err := readCard(s.paths.CardPath(boardName, cardID))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, tackerr.CardNotFound(cardID)
	case err != nil:
		return nil, fmt.Errorf("failed to read card %s: %w", cardID, err)
	}
	return card, nil
}

// Update overwrites an existing card. It never creates one.
func (s *FileCardStore) Update(boardName string, card *model.Card) error {
	path := s.paths.CardPath(boardName, card.ID)
	if !exists(path) {
		return tackerr.CardNotFound(card.ID)
	}
	if err := writeCard(path, card); err != nil {
		return fmt.Errorf("failed to update card %s: %w", card.ID, err)
	}
	return nil
}

func (s *FileCardStore) Delete(boardName, cardID string) error {
	err := os.Remove(s.paths.CardPath(boardName, cardID))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return tackerr.CardNotFound(cardID)
	case err != nil:
		return fmt.Errorf("failed to delete card %s: %w", cardID, err)
	}
	return nil
}

// List reads every card of a board in no particular order. Files that
// don't decode, or carry an unsupported version, are skipped with a
// warning so one bad file doesn't hide the board.
func (s *FileCardStore) List(boardName string) ([]*model.Card, error) {
	dir := s.paths.CardsDir(boardName)
	entries, err := os.ReadDir(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return []*model.Card{}, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read cards directory: %w", err)
	}

	cards := make([]*model.Card, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != cardExt {
			continue
		}
		card, err := readCard(filepath.Join(dir, name))
		if err != nil {
			log.WithError(err).WithFields(log.Fields{"board": boardName, "file": name}).
				Warn("skipping unreadable card file")
			continue
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func readCard(path string) (*model.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var card model.Card
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if card.Version != version.CurrentCardVersion {
		return nil, version.InvalidCardVersion(path, card.Version)
	}
	card.ListID = ""
	return &card, nil
}

func writeCard(path string, card *model.Card) error {
	onDisk := *card
	onDisk.Version = version.CurrentCardVersion
	onDisk.ListID = ""

	data, err := json.MarshalIndent(onDisk, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal card: %w", err)
	}
	return writeAtomic(path, append(data, '\n'))
}
