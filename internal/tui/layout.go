package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/amterp/tack/internal/board"
)

// Screen geometry. Every list is a fixed-width column and every card one
// row, so hit-testing is arithmetic on these constants.
const (
	columnWidth = 26
	columnGap   = 2
	columnPitch = columnWidth + columnGap

	boardTop     = 2 // header line + blank line
	cardsTop     = 2 // list title + rule, relative to boardTop
	footerHeight = 3
)

type hitKind int

const (
	hitNone hitKind = iota
	hitTitle
	hitCard
	hitSlot
)

// hit is what lies under a screen cell.
type hit struct {
	kind   hitKind
	list   int // index into the board order
	listID string
	card   int // card index for hitCard; card count for hitSlot
}

type column struct {
	id    string
	count int
}

// layout is a snapshot of the rendered geometry.
type layout struct {
	columns []column
	height  int
}

func newLayout(lists []*board.List, height int) layout {
	cols := make([]column, len(lists))
	for i, l := range lists {
		cols[i] = column{id: l.ID(), count: l.Len()}
	}
	return layout{columns: cols, height: height}
}

// visibleRows is how many card rows fit on screen, slot included.
func (l layout) visibleRows() int {
	if l.height <= 0 {
		return 1 << 16
	}
	return max(1, l.height-boardTop-cardsTop-footerHeight)
}

// hit maps a screen cell to a list title, a card or a list's drop slot.
// Everything below a list's last card belongs to its slot.
func (l layout) hit(x, y int) hit {
	if x < 0 || y < boardTop {
		return hit{kind: hitNone}
	}
	idx := x / columnPitch
	if idx >= len(l.columns) || x%columnPitch >= columnWidth {
		return hit{kind: hitNone}
	}
	if l.height > 0 && y >= l.height-footerHeight {
		return hit{kind: hitNone}
	}

	col := l.columns[idx]
	row := y - boardTop
	if row < cardsTop {
		return hit{kind: hitTitle, list: idx, listID: col.id}
	}
	card := row - cardsTop
	if card < col.count {
		return hit{kind: hitCard, list: idx, listID: col.id, card: card}
	}
	return hit{kind: hitSlot, list: idx, listID: col.id, card: col.count}
}

// cardCell returns the screen cell of a card, for tests and tooling.
func cardCell(list, card int) (x, y int) {
	return list*columnPitch + 1, boardTop + cardsTop + card
}

// truncate shortens s to fit width cells.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
