package service

import (
	"strings"

	tackerr "github.com/amterp/tack/internal/errors"
	"github.com/amterp/tack/internal/id"
	"github.com/amterp/tack/internal/model"
	"github.com/amterp/tack/internal/store"
	"github.com/amterp/tack/internal/util"
)

// CardService handles card operations. List membership and card order live
// in the board config; card files hold only the card payload.
type CardService struct {
	cardStore  store.CardStore
	boardStore store.BoardStore
	locks      *BoardLocks
}

// NewCardService creates a new card service.
func NewCardService(cardStore store.CardStore, boardStore store.BoardStore, locks *BoardLocks) *CardService {
	return &CardService{
		cardStore:  cardStore,
		boardStore: boardStore,
		locks:      locks,
	}
}

// AddCardInput contains the input for adding a card.
type AddCardInput struct {
	BoardName   string
	ListID      string // empty = first list
	Title       string
	Description string
	Assignees   []string
	Labels      []string
	DueAtMillis int64
	Position    int // -1 appends
}

// EditCardInput contains the input for editing a card.
// Pointer fields indicate "set this field"; nil means "don't change".
type EditCardInput struct {
	BoardName   string
	CardID      string
	Title       *string
	Description *string
	Progress    *int
	DueAtMillis *int64
	Assignees   []string // nil = no change
	Labels      []string // nil = no change
}

// Add creates a card and places it in a list.
func (s *CardService) Add(input AddCardInput) (*model.Card, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, tackerr.InvalidField("title", "cannot be empty")
	}

	defer s.locks.Lock(input.BoardName)()
	cfg, err := s.boardStore.Get(input.BoardName)
	if err != nil {
		return nil, err
	}
	if len(cfg.Lists) == 0 {
		return nil, tackerr.InvalidField("board", "has no lists")
	}

	listID := input.ListID
	if listID == "" {
		listID = cfg.Lists[0].ID
	}
	if _, ok := cfg.List(listID); !ok {
		return nil, tackerr.ListNotFound(listID, input.BoardName)
	}

	now := util.NowMillis()
	card := &model.Card{
		ID:              id.Generate(id.Card),
		Title:           title,
		Description:     input.Description,
		Assignees:       input.Assignees,
		Labels:          input.Labels,
		DueAtMillis:     input.DueAtMillis,
		CreatedAtMillis: now,
		UpdatedAtMillis: now,
	}
	if err := s.cardStore.Create(input.BoardName, card); err != nil {
		return nil, err
	}

	cfg.InsertCard(card.ID, listID, input.Position)
	if err := s.boardStore.Update(cfg); err != nil {
		// Don't leave an orphaned card file behind.
		_ = s.cardStore.Delete(input.BoardName, card.ID)
		return nil, err
	}

	card.ListID = listID
	return card, nil
}

// Get returns a card with its ListID populated.
func (s *CardService) Get(boardName, cardID string) (*model.Card, error) {
	card, err := s.cardStore.Get(boardName, cardID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.boardStore.Get(boardName)
	if err != nil {
		return nil, err
	}
	card.ListID = cfg.CardList(cardID)
	return card, nil
}

// ListCards returns the cards of one list in list order. Card IDs in the
// config without a card file are skipped.
func (s *CardService) ListCards(boardName, listID string) ([]*model.Card, error) {
	cfg, err := s.boardStore.Get(boardName)
	if err != nil {
		return nil, err
	}
	l, ok := cfg.List(listID)
	if !ok {
		return nil, tackerr.ListNotFound(listID, boardName)
	}

	cards := make([]*model.Card, 0, len(l.CardIDs))
	for _, cardID := range l.CardIDs {
		card, err := s.cardStore.Get(boardName, cardID)
		if err != nil {
			if tackerr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		card.ListID = listID
		cards = append(cards, card)
	}
	return cards, nil
}

// ListAll returns every card on the board grouped by list, in board order.
func (s *CardService) ListAll(boardName string) (map[string][]*model.Card, error) {
	cfg, err := s.boardStore.Get(boardName)
	if err != nil {
		return nil, err
	}

	all, err := s.cardStore.List(boardName)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Card, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}

	out := make(map[string][]*model.Card, len(cfg.Lists))
	for _, l := range cfg.Lists {
		cards := make([]*model.Card, 0, len(l.CardIDs))
		for _, cardID := range l.CardIDs {
			if c, ok := byID[cardID]; ok {
				c.ListID = l.ID
				cards = append(cards, c)
			}
		}
		out[l.ID] = cards
	}
	return out, nil
}

// Move relocates a card to toListID at position, where position is the
// card's final index (-1 or past the end appends). fromListID must name the
// list the card is currently in; a mismatch means the caller acted on stale
// state and yields a ConflictError.
func (s *CardService) Move(boardName, cardID, fromListID, toListID string, position int) error {
	defer s.locks.Lock(boardName)()
	cfg, err := s.boardStore.Get(boardName)
	if err != nil {
		return err
	}
	if _, ok := cfg.List(toListID); !ok {
		return tackerr.ListNotFound(toListID, boardName)
	}

	current := cfg.CardList(cardID)
	if current == "" {
		return tackerr.CardNotFound(cardID)
	}
	if fromListID != "" && fromListID != current {
		return tackerr.StaleMove(cardID, fromListID, current)
	}

	cfg.MoveCard(cardID, toListID, position)
	return s.boardStore.Update(cfg)
}

// Edit applies changes specified in the input to an existing card.
func (s *CardService) Edit(input EditCardInput) (*model.Card, error) {
	card, err := s.Get(input.BoardName, input.CardID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, tackerr.InvalidField("title", "cannot be empty")
		}
		card.Title = title
	}
	if input.Description != nil {
		card.Description = *input.Description
	}
	if input.Progress != nil {
		if *input.Progress < 0 || *input.Progress > 100 {
			return nil, tackerr.InvalidField("progress", "must be between 0 and 100")
		}
		card.Progress = *input.Progress
	}
	if input.DueAtMillis != nil {
		card.DueAtMillis = *input.DueAtMillis
	}
	if input.Assignees != nil {
		card.Assignees = dedup(input.Assignees)
	}
	if input.Labels != nil {
		card.Labels = dedup(input.Labels)
	}

	card.UpdatedAtMillis = util.NowMillis()
	if err := s.cardStore.Update(input.BoardName, card); err != nil {
		return nil, err
	}
	return card, nil
}

// Delete removes a card from its list and deletes the card file.
func (s *CardService) Delete(boardName, cardID string) error {
	defer s.locks.Lock(boardName)()
	cfg, err := s.boardStore.Get(boardName)
	if err != nil {
		return err
	}

	if err := s.cardStore.Delete(boardName, cardID); err != nil {
		return err
	}
	if cfg.RemoveCard(cardID) != "" {
		return s.boardStore.Update(cfg)
	}
	return nil
}

func dedup(vals []string) []string {
	seen := make(map[string]bool, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
