package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amterp/tack/internal/dnd"
	"github.com/amterp/tack/internal/model"
)

func cardsOf(ids ...string) []model.Card {
	out := make([]model.Card, len(ids))
	for i, id := range ids {
		out[i] = model.Card{ID: id}
	}
	return out
}

func idsOf(cards []model.Card) []string {
	return model.CardIDs(cards)
}

func TestList_SetCardsNormalizes(t *testing.T) {
	l := NewList(context.Background(), model.List{ID: "A", Title: "To Do"}, nil)

	l.SetCards(Replace(cardsOf("c1", "c2", "c1")))
	assert.Equal(t, []string{"c1", "c2"}, idsOf(l.Cards()))
	for _, c := range l.Cards() {
		assert.Equal(t, "A", c.ListID)
	}

	l.SetCards(func(prev []model.Card) []model.Card {
		return append(prev, model.Card{ID: "c3", ListID: "elsewhere"})
	})
	assert.Equal(t, []string{"c1", "c2", "c3"}, idsOf(l.Cards()))
	assert.Equal(t, "A", l.Cards()[2].ListID)
}

func TestList_CardsIsACopy(t *testing.T) {
	l := NewList(context.Background(), model.List{ID: "A"}, nil)
	l.SetCards(Replace(cardsOf("c1")))
	got := l.Cards()
	got[0].ID = "changed"
	assert.Equal(t, []string{"c1"}, idsOf(l.Cards()))
}

func TestList_MountLifecycle(t *testing.T) {
	c := NewCoordinator()
	l := NewList(context.Background(), model.List{ID: "A"}, nil)

	l.Mount(c)
	l.Mount(c)
	assert.True(t, l.Mounted())
	assert.Equal(t, 1, c.Len())

	api, ok := c.API("A")
	require.True(t, ok)
	api.SetCards(Replace(cardsOf("c9")))
	assert.Equal(t, []string{"c9"}, idsOf(l.Cards()))

	l.Unmount()
	assert.False(t, l.Mounted())
	assert.Equal(t, 0, c.Len())
	l.Unmount()
}

func TestList_RefetchReplacesState(t *testing.T) {
	s := newFakeServer(map[string][]string{"A": {"c2", "c1"}}, "A")
	l := NewList(context.Background(), model.List{ID: "A"}, s)
	l.SetCards(Replace(cardsOf("c1", "c2", "stale")))

	cmd := l.RefetchCards()
	assert.True(t, l.Loading())
	l.Update(cmd())

	assert.False(t, l.Loading())
	assert.Equal(t, []string{"c2", "c1"}, idsOf(l.Cards()))

	// Results for other lists are ignored.
	l.Update(CardsFetchedMsg{ListID: "B", Cards: cardsOf("x")})
	assert.Equal(t, []string{"c2", "c1"}, idsOf(l.Cards()))

	l.Update(CardsFetchedMsg{ListID: "A", Err: errBoom})
	assert.ErrorIs(t, l.FetchErr(), errBoom)
	assert.Equal(t, []string{"c2", "c1"}, idsOf(l.Cards()), "failed fetch keeps local state")
}

func TestList_ItemsEndWithOneSlot(t *testing.T) {
	l := NewList(context.Background(), model.List{ID: "A"}, nil)

	items := l.Items(nil)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Slot)
	assert.Equal(t, 0, items[0].Slot.Count)
	assert.Equal(t, dnd.SlotID("A"), items[0].Slot.ID())

	l.SetCards(Replace(cardsOf("c1", "c2")))
	s := dnd.NewDraggable(model.Card{ID: "c7"}, "B", 0).Start()
	s.HoverOver(dnd.DropSlot{ListID: "A", Count: 2}.Target())

	items = l.Items(s)
	require.Len(t, items, 3)
	assert.Equal(t, "c1", items[0].Card.ID())
	assert.Equal(t, 1, items[1].Card.Index)
	assert.Equal(t, "A", items[1].Card.ListID)
	require.NotNil(t, items[2].Slot)
	assert.True(t, items[2].Slot.Hovered)
	assert.Equal(t, 2, items[2].Slot.Count)
}
