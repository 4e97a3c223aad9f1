package board

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	tackerr "github.com/amterp/tack/internal/errors"
	"github.com/amterp/tack/internal/model"
)

// CardsUpdater computes a list's next card sequence from its current one.
type CardsUpdater func(prev []model.Card) []model.Card

// Replace returns an updater that discards the current sequence.
func Replace(cards []model.Card) CardsUpdater {
	next := model.Clone(cards)
	return func([]model.Card) []model.Card { return next }
}

// ListAPI is what a mounted list exposes to the board's drag handler.
type ListAPI struct {
	SetCards     func(CardsUpdater)
	RefetchCards func() tea.Cmd
}

type registration struct {
	api ListAPI
}

// Coordinator maps list IDs to the mutation API of the mounted list with
// that ID. It lives exactly as long as one mounted board and holds no card
// data. Lists register on mount and unregister on unmount; the board never
// clears it in bulk.
type Coordinator struct {
	mu      sync.Mutex
	entries map[string]*registration
	closed  bool
}

func NewCoordinator() *Coordinator {
	return &Coordinator{entries: make(map[string]*registration)}
}

func (c *Coordinator) mustBeOpen() {
	if c == nil || c.closed {
		panic(tackerr.ErrNoBoardContext)
	}
}

// Register stores api under listID, replacing any earlier registration for
// the same ID. The returned func removes this registration only; calling it
// after a newer Register for the same ID leaves the newer one in place.
func (c *Coordinator) Register(listID string, api ListAPI) (unregister func()) {
	if c == nil {
		panic(tackerr.ErrNoBoardContext)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mustBeOpen()

	reg := &registration{api: api}
	c.entries[listID] = reg

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.entries[listID] == reg {
			delete(c.entries, listID)
		}
	}
}

// API returns the registered API for listID.
func (c *Coordinator) API(listID string) (ListAPI, bool) {
	if c == nil {
		panic(tackerr.ErrNoBoardContext)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mustBeOpen()

	reg, ok := c.entries[listID]
	if !ok {
		return ListAPI{}, false
	}
	return reg.api, true
}

// Len returns the number of registered lists.
func (c *Coordinator) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close marks the end of the board's lifetime. Further Register or API
// calls panic with ErrNoBoardContext; unregister funcs stay safe to call.
func (c *Coordinator) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
