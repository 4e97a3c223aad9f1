package dnd

import (
	"fmt"

	"github.com/amterp/tack/internal/model"
)

// DragEnd describes a finished gesture. DestinationContainerID is empty
// when the pointer was released outside every drop target.
type DragEnd struct {
	Kind                   Kind
	ItemID                 string
	OriginContainerID      string
	OriginIndex            int
	DestinationContainerID string
	DestinationIndex       int
	IsDestinationSlot      bool
	Card                   model.Card // dragged card payload, card gestures only
}

// Action is what a drop turns into.
type Action int

const (
	ActionCancel Action = iota
	ActionNoop
	ActionReorderCards // card moved within its list
	ActionMoveCard     // card moved to another list
	ActionReorderLists
)

func (a Action) String() string {
	switch a {
	case ActionCancel:
		return "cancel"
	case ActionNoop:
		return "noop"
	case ActionReorderCards:
		return "reorder-cards"
	case ActionMoveCard:
		return "move-card"
	case ActionReorderLists:
		return "reorder-lists"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Plan is a resolved drop. ToIndex is the item's final index in To, or
// NoIndex to place it last.
type Plan struct {
	Action    Action
	Kind      Kind
	ItemID    string
	From      string
	FromIndex int
	To        string
	ToIndex   int
	Card      model.Card
}

// Resolve turns a gesture end into a Plan. It is pure: no list is read or
// mutated.
//
// Indices use final-position semantics. Dropping on the card at index i of
// the same list leaves the dragged card at index i. Dropping on a list's
// slot, or anywhere in a list without an index, places the card last.
func Resolve(e DragEnd) Plan {
	p := Plan{
		Action:    ActionCancel,
		Kind:      e.Kind,
		ItemID:    e.ItemID,
		From:      e.OriginContainerID,
		FromIndex: e.OriginIndex,
		To:        e.DestinationContainerID,
		ToIndex:   NoIndex,
		Card:      e.Card,
	}
	if e.ItemID == "" || e.DestinationContainerID == "" || e.OriginContainerID == "" {
		return p
	}

	switch e.Kind {
	case KindList:
		// Lists only move within their board.
		if e.DestinationContainerID != e.OriginContainerID {
			return p
		}
		if !e.IsDestinationSlot && e.DestinationIndex >= 0 {
			p.ToIndex = e.DestinationIndex
		}
		if p.ToIndex == e.OriginIndex {
			p.Action = ActionNoop
			return p
		}
		p.Action = ActionReorderLists
		return p

	case KindCard:
		if e.DestinationContainerID != e.OriginContainerID {
			if !e.IsDestinationSlot && e.DestinationIndex >= 0 {
				p.ToIndex = e.DestinationIndex
			}
			p.Action = ActionMoveCard
			return p
		}

		switch {
		case e.IsDestinationSlot && e.DestinationIndex > 0:
			// The slot sits after Count cards; the last final index is
			// Count-1 once the dragged card is lifted out.
			p.ToIndex = e.DestinationIndex - 1
		case !e.IsDestinationSlot && e.DestinationIndex >= 0:
			p.ToIndex = e.DestinationIndex
		}
		if p.ToIndex == e.OriginIndex {
			p.Action = ActionNoop
			return p
		}
		p.Action = ActionReorderCards
		return p
	}

	return p
}
