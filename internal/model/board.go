package model

// BoardConfig is a board as stored in config.toml. The order of Lists is the
// board's list order and each List's CardIDs is that list's card order.
type BoardConfig struct {
	TackSchema string `toml:"tack_schema" json:"tack_schema"`
	ID         string `toml:"id" json:"id"`
	Name       string `toml:"name" json:"name"`
	Lists      []List `toml:"lists" json:"lists"`
}

// List is an ordered collection of card IDs. A card ID appears in at most
// one list of a board.
type List struct {
	ID      string   `toml:"id" json:"id"`
	Title   string   `toml:"title" json:"title"`
	Color   string   `toml:"color,omitempty" json:"color,omitempty"`
	CardIDs []string `toml:"card_ids,omitempty" json:"card_ids,omitempty"`
}

// DefaultLists returns the lists a new board starts with, minus IDs.
func DefaultLists() []List {
	return []List{
		{Title: "To Do", Color: listPalette[0]},
		{Title: "Doing", Color: listPalette[1]},
		{Title: "Done", Color: listPalette[3]},
	}
}

// ListIDs returns the board's list order.
func (b *BoardConfig) ListIDs() []string {
	ids := make([]string, len(b.Lists))
	for i, l := range b.Lists {
		ids[i] = l.ID
	}
	return ids
}

// ListIndex returns the position of the list with the given ID, or -1.
func (b *BoardConfig) ListIndex(listID string) int {
	for i, l := range b.Lists {
		if l.ID == listID {
			return i
		}
	}
	return -1
}

// List returns the list with the given ID.
func (b *BoardConfig) List(listID string) (*List, bool) {
	idx := b.ListIndex(listID)
	if idx < 0 {
		return nil, false
	}
	return &b.Lists[idx], true
}

// HasListTitle reports whether a list already uses the given title.
func (b *BoardConfig) HasListTitle(title string) bool {
	for _, l := range b.Lists {
		if l.Title == title {
			return true
		}
	}
	return false
}

// CardList returns the ID of the list holding the card, or "".
func (b *BoardConfig) CardList(cardID string) string {
	for _, l := range b.Lists {
		for _, id := range l.CardIDs {
			if id == cardID {
				return l.ID
			}
		}
	}
	return ""
}

// InsertCard puts a card ID into a list at position. A negative or
// out-of-range position appends. Returns false if the list doesn't exist.
func (b *BoardConfig) InsertCard(cardID, listID string, position int) bool {
	l, ok := b.List(listID)
	if !ok {
		return false
	}
	l.CardIDs = InsertAt(l.CardIDs, cardID, position)
	return true
}

// RemoveCard drops the card ID from whichever list holds it and returns
// that list's ID, or "" if no list did.
func (b *BoardConfig) RemoveCard(cardID string) string {
	for i := range b.Lists {
		if idx := indexOf(b.Lists[i].CardIDs, cardID); idx >= 0 {
			b.Lists[i].CardIDs = RemoveAt(b.Lists[i].CardIDs, idx)
			return b.Lists[i].ID
		}
	}
	return ""
}

// MoveCard removes the card from its current list and inserts it into
// listID at position, where position is the card's final index.
func (b *BoardConfig) MoveCard(cardID, listID string, position int) bool {
	if _, ok := b.List(listID); !ok {
		return false
	}
	b.RemoveCard(cardID)
	return b.InsertCard(cardID, listID, position)
}

// MoveList moves a list to the given final index. Out-of-range indices are
// clamped. Returns false if the list doesn't exist.
func (b *BoardConfig) MoveList(listID string, position int) bool {
	from := b.ListIndex(listID)
	if from < 0 {
		return false
	}
	b.Lists = Move(b.Lists, from, position)
	return true
}
