package board

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amterp/tack/internal/dnd"
	"github.com/amterp/tack/internal/model"
)

// List owns the card order of one list on screen. The board reaches it only
// through the Coordinator while it is mounted.
type List struct {
	id    string
	title string
	color string
	cards []model.Card

	fetcher CardFetcher
	ctx     context.Context

	coord      *Coordinator
	unregister func()

	loading  bool
	fetchErr error
}

// NewList creates an unmounted list. ctx bounds its fetches.
func NewList(ctx context.Context, l model.List, fetcher CardFetcher) *List {
	return &List{
		id:      l.ID,
		title:   l.Title,
		color:   l.Color,
		fetcher: fetcher,
		ctx:     ctx,
	}
}

func (l *List) ID() string    { return l.id }
func (l *List) Title() string { return l.title }
func (l *List) Color() string { return l.color }

// Loading reports whether a fetch is in flight.
func (l *List) Loading() bool { return l.loading }

// FetchErr is the error of the most recent failed fetch, cleared on success.
func (l *List) FetchErr() error { return l.fetchErr }

// Cards returns a copy of the current card sequence.
func (l *List) Cards() []model.Card {
	return model.Clone(l.cards)
}

// Len returns the number of cards.
func (l *List) Len() int { return len(l.cards) }

// Mounted reports whether the list is registered with a coordinator.
func (l *List) Mounted() bool { return l.unregister != nil }

// Mount registers the list's API with coord. Mounting again with the same
// coordinator is a no-op; mounting with another one moves the registration.
func (l *List) Mount(coord *Coordinator) {
	if l.unregister != nil && l.coord == coord {
		return
	}
	l.Unmount()
	l.coord = coord
	l.unregister = coord.Register(l.id, ListAPI{
		SetCards:     l.SetCards,
		RefetchCards: l.RefetchCards,
	})
}

// Unmount removes the list's registration.
func (l *List) Unmount() {
	if l.unregister == nil {
		return
	}
	l.unregister()
	l.unregister = nil
	l.coord = nil
}

// SetCards replaces the card sequence with update(current). The result is
// normalized: duplicate IDs are dropped and every card's ListID is set to
// this list.
func (l *List) SetCards(update CardsUpdater) {
	next := update(l.Cards())
	seen := make(map[string]bool, len(next))
	out := make([]model.Card, 0, len(next))
	for _, c := range next {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		c.ListID = l.id
		out = append(out, c)
	}
	l.cards = out
}

// RefetchCards asks the server for this list's card order. The returned
// command yields a CardsFetchedMsg that Update applies.
func (l *List) RefetchCards() tea.Cmd {
	l.loading = true
	ctx, fetcher, id := l.ctx, l.fetcher, l.id
	return func() tea.Msg {
		cards, err := fetcher.FetchCards(ctx, id)
		return CardsFetchedMsg{ListID: id, Cards: cards, Err: err}
	}
}

// Update applies messages addressed to this list.
func (l *List) Update(msg tea.Msg) {
	switch msg := msg.(type) {
	case CardsFetchedMsg:
		if msg.ListID != l.id {
			return
		}
		l.loading = false
		if msg.Err != nil {
			l.fetchErr = msg.Err
			return
		}
		l.fetchErr = nil
		l.SetCards(Replace(msg.Cards))
	}
}

// Item is one row of a rendered list: a draggable card or the trailing
// drop slot.
type Item struct {
	Card *dnd.Draggable
	Slot *dnd.DropSlot
}

// Items lays the list out for rendering: one draggable per card followed by
// exactly one drop slot. s is the active gesture, or nil.
func (l *List) Items(s *dnd.Session) []Item {
	items := make([]Item, 0, len(l.cards)+1)
	for i, c := range l.cards {
		d := dnd.NewDraggable(c, l.id, i)
		items = append(items, Item{Card: &d})
	}
	slot := dnd.NewDropSlot(l.id, len(l.cards), s)
	items = append(items, Item{Slot: &slot})
	return items
}

func (l *List) setMeta(m model.List) {
	l.title = m.Title
	l.color = m.Color
}
