package dnd

import "github.com/amterp/tack/internal/model"

// Splice helpers used inside SetCards updaters. They never mutate their
// input and tolerate a list that changed since the gesture started: the
// card is located by index first and by ID as a fallback.

func locate(cards []model.Card, cardID string, hint int) int {
	if hint >= 0 && hint < len(cards) && cards[hint].ID == cardID {
		return hint
	}
	for i, c := range cards {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// ReorderCard moves cardID to final index to (NoIndex = last). It returns
// the new sequence and the card's final index, or -1 if the card isn't in
// the list.
func ReorderCard(cards []model.Card, cardID string, from, to int) ([]model.Card, int) {
	at := locate(cards, cardID, from)
	if at < 0 {
		return model.Clone(cards), -1
	}
	if to == NoIndex || to >= len(cards) {
		to = len(cards) - 1
	}
	if to < 0 {
		to = 0
	}
	return model.Move(cards, at, to), to
}

// RemoveCard drops cardID from the sequence.
func RemoveCard(cards []model.Card, cardID string, at int) []model.Card {
	idx := locate(cards, cardID, at)
	if idx < 0 {
		return model.Clone(cards)
	}
	return model.RemoveAt(cards, idx)
}

// InsertCard places card at index at (NoIndex or past the end appends).
// Any existing copy of the card is removed first so IDs stay unique. It
// returns the new sequence and the card's final index.
func InsertCard(cards []model.Card, card model.Card, at int) ([]model.Card, int) {
	base := cards
	if idx := locate(cards, card.ID, NoIndex); idx >= 0 {
		base = model.RemoveAt(cards, idx)
		if at > idx {
			at--
		}
	}
	out := model.InsertAt(base, card, at)
	if at < 0 || at >= len(base) {
		return out, len(out) - 1
	}
	return out, at
}

// ReorderIDs moves id to final index to (NoIndex = last) within ids.
func ReorderIDs(ids []string, id string, from, to int) ([]string, int) {
	at := -1
	if from >= 0 && from < len(ids) && ids[from] == id {
		at = from
	} else {
		for i, v := range ids {
			if v == id {
				at = i
				break
			}
		}
	}
	if at < 0 {
		return model.Clone(ids), -1
	}
	if to == NoIndex || to >= len(ids) {
		to = len(ids) - 1
	}
	if to < 0 {
		to = 0
	}
	return model.Move(ids, at, to), to
}
