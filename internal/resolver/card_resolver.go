package resolver

import (
	"fmt"
	"strings"

	tackerr "github.com/amterp/tack/internal/errors"
	"github.com/amterp/tack/internal/id"
	"github.com/amterp/tack/internal/model"
)

// CardLookup is the subset of the card service the resolver needs.
type CardLookup interface {
	Get(boardName, cardID string) (*model.Card, error)
	ListAll(boardName string) (map[string][]*model.Card, error)
}

// CardResolver finds a card by ID or title.
type CardResolver struct {
	cards CardLookup
}

// NewCardResolver creates a new card resolver.
func NewCardResolver(cards CardLookup) *CardResolver {
	return &CardResolver{cards: cards}
}

// Resolve tries an exact ID first, then a case-insensitive title match.
// A title shared by several cards is rejected with their IDs.
func (r *CardResolver) Resolve(boardName, idOrTitle string) (*model.Card, error) {
	if id.WellFormed(idOrTitle) {
		card, err := r.cards.Get(boardName, idOrTitle)
		if err == nil {
			return card, nil
		}
		if !tackerr.IsNotFound(err) {
			return nil, err
		}
	}

	all, err := r.cards.ListAll(boardName)
	if err != nil {
		return nil, err
	}
	var matches []*model.Card
	for _, cards := range all {
		for _, c := range cards {
			if strings.EqualFold(c.Title, idOrTitle) {
				matches = append(matches, c)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, tackerr.CardNotFound(idOrTitle)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, c := range matches {
			ids[i] = c.ID
		}
		return nil, tackerr.InvalidField("card", fmt.Sprintf("%q matches %d cards (%s); use an ID", idOrTitle, len(matches), strings.Join(ids, ", ")))
	}
}
