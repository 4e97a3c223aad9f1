package board

import (
	"github.com/amterp/tack/internal/dnd"
	"github.com/amterp/tack/internal/model"
)

// CardsFetchedMsg carries the result of a list's RefetchCards.
type CardsFetchedMsg struct {
	ListID string
	Cards  []model.Card
	Err    error
}

// ListOrderFetchedMsg carries the board's authoritative list order.
type ListOrderFetchedMsg struct {
	Lists []model.List
	Err   error
}

// LoadedMsg is the result of the initial board load.
type LoadedMsg struct {
	Lists []model.List
	Cards map[string][]model.Card
	Err   error
}

// PersistResultMsg reports how a gesture's persistence call went.
type PersistResultMsg struct {
	Gesture   uint64
	Plan      dnd.Plan
	Touched   []string // list IDs whose local state the gesture changed
	PrevOrder []string // list order before a list reorder
	Err       error
}

// RemoteChangeMsg asks the board to refetch after a change made elsewhere.
// No ListIDs means the whole board.
type RemoteChangeMsg struct {
	ListIDs []string
}

type noticeExpiredMsg struct {
	seq int
}
