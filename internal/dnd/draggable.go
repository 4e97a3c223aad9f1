package dnd

import "github.com/amterp/tack/internal/model"

// Kind is the type of entity a gesture drags.
type Kind int

const (
	KindCard Kind = iota + 1
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindCard:
		return "card"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// NoIndex marks an absent index, e.g. a drop with no specific position.
const NoIndex = -1

// Draggable is the metadata a card carries while it can be dragged. Its ID
// is the card ID so the drag layer can track it across re-renders. It never
// mutates any list; the payload only feeds the drag preview and the
// destination insert.
type Draggable struct {
	Card   model.Card
	ListID string
	Index  int
}

// NewDraggable wraps a card at index within listID.
func NewDraggable(card model.Card, listID string, index int) Draggable {
	return Draggable{Card: card, ListID: listID, Index: index}
}

// ID is the stable draggable identifier.
func (d Draggable) ID() string {
	return d.Card.ID
}

// Start begins a card gesture from this draggable.
func (d Draggable) Start() *Session {
	return &Session{
		kind:   KindCard,
		itemID: d.Card.ID,
		origin: Target{ContainerID: d.ListID, Index: d.Index},
		card:   d.Card,
		hover:  Target{ContainerID: d.ListID, Index: d.Index},
	}
}

// ListHandle is the drag handle of a whole list. Lists are dragged within
// the board, so the board is their container.
type ListHandle struct {
	ListID  string
	BoardID string
	Index   int
}

// Start begins a list gesture from this handle.
func (h ListHandle) Start() *Session {
	return &Session{
		kind:   KindList,
		itemID: h.ListID,
		origin: Target{ContainerID: h.BoardID, Index: h.Index},
		hover:  Target{ContainerID: h.BoardID, Index: h.Index},
	}
}
