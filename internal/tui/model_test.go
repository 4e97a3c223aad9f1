package tui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amterp/tack/internal/api"
	"github.com/amterp/tack/internal/board"
	"github.com/amterp/tack/internal/client"
	"github.com/amterp/tack/internal/model"
)

// memPersister applies calls to in-memory state.
type memPersister struct {
	mu    sync.Mutex
	lists []model.List
	cards map[string][]model.Card
	calls []string
}

func newMemPersister(order []string, cards map[string][]string) *memPersister {
	p := &memPersister{cards: make(map[string][]model.Card)}
	for _, id := range order {
		p.lists = append(p.lists, model.List{ID: id, Title: "List " + id})
		for _, cid := range cards[id] {
			p.cards[id] = append(p.cards[id], model.Card{ID: cid, Title: "Card " + cid, ListID: id})
		}
	}
	return p
}

func (p *memPersister) FetchListOrder(context.Context) ([]model.List, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.List(nil), p.lists...), nil
}

func (p *memPersister) FetchCards(_ context.Context, listID string) ([]model.Card, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Card(nil), p.cards[listID]...), nil
}

func (p *memPersister) ReorderCard(_ context.Context, cardID, from, to string, toIndex int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, fmt.Sprintf("card %s %s->%s @%d", cardID, from, to, toIndex))
	var moved model.Card
	for i, c := range p.cards[from] {
		if c.ID == cardID {
			moved = c
			p.cards[from] = model.RemoveAt(p.cards[from], i)
			break
		}
	}
	moved.ListID = to
	p.cards[to] = model.InsertAt(p.cards[to], moved, toIndex)
	return nil
}

func (p *memPersister) ReorderList(_ context.Context, listID string, toIndex int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, fmt.Sprintf("list %s @%d", listID, toIndex))
	for i, l := range p.lists {
		if l.ID == listID {
			p.lists = model.Move(p.lists, i, toIndex)
			break
		}
	}
	return nil
}

func (p *memPersister) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

// drain runs cmd and everything it leads to through m.
func drain(m *Model, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		_, next := m.Update(msg)
		queue = append(queue, next)
	}
}

func newTestModel(t *testing.T, p *memPersister) *Model {
	t.Helper()
	b := board.New("b_test", p, board.WithNoticeTTL(0), board.WithLogger(quietLogger()))
	m := New(b, "main", WithLogger(quietLogger()))
	t.Cleanup(m.Close)
	drain(m, m.Init())
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	require.False(t, b.Loading())
	return m
}

func keys(m *Model, ks ...string) {
	for _, k := range ks {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := m.Update(msg)
		drain(m, cmd)
	}
}

func mouse(m *Model, action tea.MouseAction, x, y int) {
	_, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
	drain(m, cmd)
}

func cardsOf(m *Model, listID string) []string {
	l, ok := m.board.List(listID)
	if !ok {
		return nil
	}
	return model.CardIDs(l.Cards())
}

func twoLists() *memPersister {
	return newMemPersister([]string{"A", "B"}, map[string][]string{"A": {"c1", "c2", "c3"}})
}

// ============================================================================
// Keyboard gestures
// ============================================================================

func TestModel_KeyboardReorderWithinList(t *testing.T) {
	p := twoLists()
	m := newTestModel(t, p)

	keys(m, " ", "j", "j", "enter")

	assert.Equal(t, []string{"c2", "c3", "c1"}, cardsOf(m, "A"))
	assert.Equal(t, []string{"card c1 A->A @2"}, p.Calls())
	assert.Nil(t, m.Dragging())
	assert.Equal(t, 2, m.focusCard, "focus follows the dropped card")
}

func TestModel_KeyboardMoveToEmptyList(t *testing.T) {
	p := twoLists()
	m := newTestModel(t, p)

	keys(m, "j", " ", "l")
	require.NotNil(t, m.Dragging())
	assert.True(t, m.Dragging().IsOverSlot("B"))

	keys(m, "enter")

	assert.Equal(t, []string{"c1", "c3"}, cardsOf(m, "A"))
	assert.Equal(t, []string{"c2"}, cardsOf(m, "B"))
	assert.Equal(t, []string{"card c2 A->B @0"}, p.Calls())
	assert.Equal(t, 1, m.focusList)
}

func TestModel_KeyboardCancel(t *testing.T) {
	p := twoLists()
	m := newTestModel(t, p)

	keys(m, " ", "l", "esc")

	assert.Nil(t, m.Dragging())
	assert.Equal(t, []string{"c1", "c2", "c3"}, cardsOf(m, "A"))
	assert.Empty(t, p.Calls())
}

func TestModel_KeyboardListReorder(t *testing.T) {
	p := twoLists()
	m := newTestModel(t, p)

	keys(m, "L", "l", "l", "enter")

	assert.Equal(t, []string{"B", "A"}, m.board.Order())
	assert.Equal(t, []string{"list A @1"}, p.Calls())
	assert.Equal(t, 1, m.focusList)
}

func TestModel_DropInPlaceSendsNothing(t *testing.T) {
	p := twoLists()
	m := newTestModel(t, p)

	keys(m, " ", "enter")

	assert.Empty(t, p.Calls())
}

// ============================================================================
// Mouse gestures
// ============================================================================

func TestModel_MouseDragToOtherList(t *testing.T) {
	p := twoLists()
	m := newTestModel(t, p)

	x, y := cardCell(0, 0)
	mouse(m, tea.MouseActionPress, x, y)
	require.NotNil(t, m.Dragging())

	x, y = cardCell(1, 0)
	mouse(m, tea.MouseActionMotion, x, y)
	assert.True(t, m.Dragging().IsOverSlot("B"))
	assert.Contains(t, m.View(), "drop here")

	mouse(m, tea.MouseActionRelease, x, y)

	assert.Equal(t, []string{"c2", "c3"}, cardsOf(m, "A"))
	assert.Equal(t, []string{"c1"}, cardsOf(m, "B"))
	assert.Equal(t, []string{"card c1 A->B @0"}, p.Calls())
}

func TestModel_MouseReleaseOutsideCancels(t *testing.T) {
	p := twoLists()
	m := newTestModel(t, p)

	x, y := cardCell(0, 0)
	mouse(m, tea.MouseActionPress, x, y)
	mouse(m, tea.MouseActionMotion, columnWidth, y)
	mouse(m, tea.MouseActionRelease, columnWidth, y)

	assert.Nil(t, m.Dragging())
	assert.Empty(t, p.Calls())
	assert.Equal(t, []string{"c1", "c2", "c3"}, cardsOf(m, "A"))
}

func TestModel_MouseDragListByTitle(t *testing.T) {
	p := twoLists()
	m := newTestModel(t, p)

	mouse(m, tea.MouseActionPress, columnPitch+1, boardTop)
	mouse(m, tea.MouseActionRelease, 1, boardTop+4)

	assert.Equal(t, []string{"B", "A"}, m.board.Order())
	assert.Equal(t, []string{"list B @0"}, p.Calls())
}

func TestModel_ClickWithoutMotionIsNoop(t *testing.T) {
	p := twoLists()
	m := newTestModel(t, p)

	x, y := cardCell(0, 1)
	mouse(m, tea.MouseActionPress, x, y)
	mouse(m, tea.MouseActionRelease, x, y)

	assert.Empty(t, p.Calls())
	assert.Equal(t, 1, m.focusCard)
}

// ============================================================================
// Remote changes
// ============================================================================

func TestModel_RemoteChange(t *testing.T) {
	m := newTestModel(t, twoLists())

	change, ok := m.remoteChange(client.Event{Kind: api.FileChangeKindCard, CardID: "c2"})
	assert.True(t, ok)
	assert.Equal(t, []string{"A"}, change.ListIDs)

	_, ok = m.remoteChange(client.Event{Kind: api.FileChangeKindCard, CardID: "c_unknown"})
	assert.False(t, ok)

	change, ok = m.remoteChange(client.Event{Kind: api.FileChangeKindBoard})
	assert.True(t, ok)
	assert.Empty(t, change.ListIDs)
}

func TestModel_RemoteEventRefetches(t *testing.T) {
	p := twoLists()
	m := newTestModel(t, p)

	p.mu.Lock()
	p.cards["A"] = []model.Card{{ID: "c3", Title: "Card c3"}, {ID: "c1", Title: "Card c1"}, {ID: "c2", Title: "Card c2"}}
	p.mu.Unlock()

	_, cmd := m.Update(board.RemoteChangeMsg{ListIDs: []string{"A"}})
	drain(m, cmd)

	assert.Equal(t, []string{"c3", "c1", "c2"}, cardsOf(m, "A"))
}

func TestModel_ClosedStreamWithoutSourceStaysQuiet(t *testing.T) {
	m := newTestModel(t, twoLists())
	_, cmd := m.Update(subscriptionClosedMsg{})
	assert.Nil(t, cmd)
}

// ============================================================================
// View
// ============================================================================

func TestModel_View(t *testing.T) {
	m := newTestModel(t, twoLists())

	v := m.View()
	assert.Contains(t, v, "main")
	assert.Contains(t, v, "List A (3)")
	assert.Contains(t, v, "List B (0)")
	assert.Contains(t, v, "Card c2")
	assert.Contains(t, v, "(empty)")
}

func TestModel_QuitUnmounts(t *testing.T) {
	m := newTestModel(t, twoLists())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	require.NotNil(t, cmd)
	assert.False(t, m.board.Mounted())
	assert.Empty(t, m.View())
}
