package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/amterp/tack/internal/api"
	"github.com/amterp/tack/internal/board"
	"github.com/amterp/tack/internal/client"
	"github.com/amterp/tack/internal/dnd"
)

const resubscribeDelay = 2 * time.Second

// EventSource streams remote changes to the board being shown.
type EventSource interface {
	Subscribe(ctx context.Context) (<-chan client.Event, error)
}

type subscribedMsg struct {
	events <-chan client.Event
}

type remoteEventMsg struct {
	event  client.Event
	events <-chan client.Event
}

type subscriptionClosedMsg struct {
	err error
}

type resubscribeMsg struct{}

// Model is the bubbletea model of the board screen. It owns the active
// gesture and turns keys and mouse events into hover updates; the board
// applies the drops.
type Model struct {
	board  *board.Board
	name   string
	events EventSource
	keys   KeyMap
	help   help.Model
	log    *log.Entry

	ctx    context.Context
	cancel context.CancelFunc

	width, height int
	focusList     int
	focusCard     int
	drag          *dnd.Session
	quitting      bool
}

// Option configures a Model.
type Option func(*Model)

// WithEvents makes the model refetch when events reports remote changes.
func WithEvents(src EventSource) Option {
	return func(m *Model) { m.events = src }
}

// WithKeyMap replaces the default bindings.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// WithLogger routes the model's logs to logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) { m.log = logger.WithField("component", "tui") }
}

// New creates the model for b. name is shown in the header.
func New(b *board.Board, name string, opts ...Option) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		board:  b,
		name:   name,
		keys:   DefaultKeyMap,
		help:   help.New(),
		log:    log.StandardLogger().WithField("component", "tui"),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.board.Load(), m.subscribe())
}

// Close stops the event stream and unmounts the board.
func (m *Model) Close() {
	m.quitting = true
	m.cancel()
	m.board.Unmount()
}

// Dragging returns the active gesture, or nil.
func (m *Model) Dragging() *dnd.Session {
	if !m.drag.Active() {
		return nil
	}
	return m.drag
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case subscribedMsg:
		m.log.Debug("subscribed to board changes")
		return m, waitForEvent(msg.events)

	case remoteEventMsg:
		var cmd tea.Cmd
		if change, ok := m.remoteChange(msg.event); ok {
			cmd = m.board.Update(change)
		}
		return m, tea.Batch(cmd, waitForEvent(msg.events))

	case subscriptionClosedMsg:
		if m.quitting || m.events == nil {
			return m, nil
		}
		if msg.err != nil {
			m.log.WithError(msg.err).Debug("change stream unavailable")
		}
		return m, tea.Tick(resubscribeDelay, func(time.Time) tea.Msg { return resubscribeMsg{} })

	case resubscribeMsg:
		// Changes may have been missed while disconnected.
		return m, tea.Batch(m.subscribe(), m.board.Refresh())
	}

	cmd := m.board.Update(msg)
	m.clampFocus()
	return m, cmd
}

func (m *Model) subscribe() tea.Cmd {
	if m.events == nil || m.quitting {
		return nil
	}
	ctx, src := m.ctx, m.events
	return func() tea.Msg {
		ch, err := src.Subscribe(ctx)
		if err != nil {
			return subscriptionClosedMsg{err: err}
		}
		return subscribedMsg{events: ch}
	}
}

func waitForEvent(ch <-chan client.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return subscriptionClosedMsg{}
		}
		return remoteEventMsg{event: ev, events: ch}
	}
}

// remoteChange maps a change event to the lists that need a refetch. A
// card we don't show is ignored; its board config change follows anyway.
func (m *Model) remoteChange(ev client.Event) (board.RemoteChangeMsg, bool) {
	if ev.Kind != api.FileChangeKindCard || ev.CardID == "" {
		return board.RemoteChangeMsg{}, true
	}
	for _, l := range m.board.Lists() {
		for _, c := range l.Cards() {
			if c.ID == ev.CardID {
				return board.RemoteChangeMsg{ListIDs: []string{l.ID()}}, true
			}
		}
	}
	return board.RemoteChangeMsg{}, false
}

// ============================================================================
// Keyboard
// ============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.drag.Active() {
		return m.handleDragKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.Left):
		m.focusList--
	case key.Matches(msg, m.keys.Right):
		m.focusList++
	case key.Matches(msg, m.keys.Up):
		m.focusCard--
	case key.Matches(msg, m.keys.Down):
		m.focusCard++
	case key.Matches(msg, m.keys.LiftCard):
		m.liftCard(m.focusList, m.focusCard)
	case key.Matches(msg, m.keys.LiftList):
		m.liftList(m.focusList)
	case key.Matches(msg, m.keys.Refresh):
		m.board.DismissNotice()
		return m.board.Refresh()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Cancel):
		m.board.DismissNotice()
	}
	m.clampFocus()
	return nil
}

func (m *Model) handleDragKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.drag.Cancel()
		m.drag = nil
		m.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		cmd := m.board.HandleDragEnd(m.drag.Cancel())
		m.drag = nil
		return cmd
	case key.Matches(msg, m.keys.Drop), key.Matches(msg, m.keys.LiftCard):
		return m.drop()
	}

	if m.drag.Kind() == dnd.KindList {
		m.stepListHover(msg)
	} else {
		m.stepCardHover(msg)
	}
	return nil
}

// stepCardHover moves the hover target of a card gesture one step. Moving
// past a list's last card reaches its drop slot.
func (m *Model) stepCardHover(msg tea.KeyMsg) {
	lists := m.board.Lists()
	hover := m.drag.Hover()
	li := indexOfList(lists, hover.ContainerID)
	if li < 0 {
		li = indexOfList(lists, m.drag.Origin().ContainerID)
		if li < 0 {
			return
		}
		hover = dnd.Target{ContainerID: lists[li].ID(), Index: 0}
	}
	idx := hover.Index

	switch {
	case key.Matches(msg, m.keys.Up):
		idx--
	case key.Matches(msg, m.keys.Down):
		idx++
	case key.Matches(msg, m.keys.Left):
		li--
	case key.Matches(msg, m.keys.Right):
		li++
	default:
		return
	}
	li = clamp(li, 0, len(lists)-1)
	m.hoverCard(lists[li], idx)
}

func (m *Model) stepListHover(msg tea.KeyMsg) {
	hover := m.drag.Hover()
	idx := hover.Index
	if !hover.Valid() {
		idx = m.drag.Origin().Index
	}
	switch {
	case key.Matches(msg, m.keys.Left):
		idx--
	case key.Matches(msg, m.keys.Right):
		idx++
	default:
		return
	}
	idx = clamp(idx, 0, len(m.board.Order())-1)
	m.drag.HoverOver(dnd.Target{ContainerID: m.board.ID(), Index: idx})
}

// hoverCard points the card gesture at position idx of l, or at l's slot
// when idx is past its last card.
func (m *Model) hoverCard(l *board.List, idx int) {
	idx = max(idx, 0)
	if idx >= l.Len() {
		slot := dnd.NewDropSlot(l.ID(), l.Len(), m.drag)
		m.drag.HoverOver(slot.Target())
		return
	}
	m.drag.HoverOver(dnd.Target{ContainerID: l.ID(), Index: idx})
}

// ============================================================================
// Mouse
// ============================================================================

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	h := m.layout().hit(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.drag.Active() {
			return nil
		}
		switch h.kind {
		case hitCard:
			m.focusList, m.focusCard = h.list, h.card
			m.liftCard(h.list, h.card)
		case hitTitle:
			m.focusList = h.list
			m.liftList(h.list)
		}
		return nil

	case tea.MouseActionMotion:
		if m.drag.Active() {
			m.hoverAt(h)
		}
		return nil

	case tea.MouseActionRelease:
		if !m.drag.Active() {
			return nil
		}
		m.hoverAt(h)
		return m.drop()
	}
	return nil
}

// hoverAt points the active gesture at whatever lies under the pointer.
func (m *Model) hoverAt(h hit) {
	if h.kind == hitNone {
		m.drag.Leave()
		return
	}
	if m.drag.Kind() == dnd.KindList {
		m.drag.HoverOver(dnd.Target{ContainerID: m.board.ID(), Index: h.list})
		return
	}

	l, ok := m.board.List(h.listID)
	if !ok {
		m.drag.Leave()
		return
	}
	switch h.kind {
	case hitTitle:
		m.hoverCard(l, 0)
	case hitSlot:
		slot := dnd.NewDropSlot(l.ID(), l.Len(), m.drag)
		m.drag.HoverOver(slot.Target())
	default:
		m.hoverCard(l, h.card)
	}
}

// ============================================================================
// Gestures
// ============================================================================

func (m *Model) liftCard(list, card int) {
	lists := m.board.Lists()
	if list < 0 || list >= len(lists) {
		return
	}
	items := lists[list].Items(nil)
	if card < 0 || card >= len(items) || items[card].Card == nil {
		return
	}
	m.drag = items[card].Card.Start()
	m.log.WithField("card", m.drag.ItemID()).Debug("drag started")
}

func (m *Model) liftList(list int) {
	lists := m.board.Lists()
	if list < 0 || list >= len(lists) {
		return
	}
	h := dnd.ListHandle{ListID: lists[list].ID(), BoardID: m.board.ID(), Index: list}
	m.drag = h.Start()
	m.log.WithField("list", m.drag.ItemID()).Debug("drag started")
}

// drop ends the active gesture and moves focus to where the item landed.
func (m *Model) drop() tea.Cmd {
	s := m.drag
	m.drag = nil
	hover := s.Hover()
	cmd := m.board.HandleDragEnd(s.End())

	if !hover.Valid() {
		return cmd
	}
	if s.Kind() == dnd.KindList {
		m.focusList = indexOfList(m.board.Lists(), s.ItemID())
	} else {
		lists := m.board.Lists()
		if li := indexOfList(lists, hover.ContainerID); li >= 0 {
			m.focusList = li
			m.focusCard = indexOfCard(lists[li], s.ItemID())
		}
	}
	m.clampFocus()
	return cmd
}

func (m *Model) clampFocus() {
	lists := m.board.Lists()
	if len(lists) == 0 {
		m.focusList, m.focusCard = 0, 0
		return
	}
	m.focusList = clamp(m.focusList, 0, len(lists)-1)
	m.focusCard = clamp(m.focusCard, 0, max(lists[m.focusList].Len()-1, 0))
}

func (m *Model) layout() layout {
	return newLayout(m.board.Lists(), m.height)
}

// ============================================================================
// View
// ============================================================================

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	lists := m.board.Lists()
	switch {
	case m.board.Loading() && len(lists) == 0:
		b.WriteString(styleMuted.Render("Loading…"))
	case m.board.LoadErr() != nil && len(lists) == 0:
		b.WriteString(m.loadErrorView())
	case len(lists) == 0:
		b.WriteString(styleMuted.Render("No lists yet. Add one with 'tack list add'."))
	default:
		b.WriteString(m.columnsView(lists))
	}

	b.WriteString("\n\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	if m.drag.Active() {
		b.WriteString(m.help.View(dragHelp{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m *Model) header() string {
	h := styleHeader.Render(m.name)
	if m.board.Loading() {
		h += styleMuted.Render("  loading…")
	}
	return h
}

func (m *Model) loadErrorView() string {
	err := m.board.LoadErr()
	if client.IsUnavailable(err) {
		return styleNotice.Render("Couldn't reach the tack server. Is 'tack serve' running? Press r to retry.")
	}
	return styleNotice.Render("Couldn't load board: " + err.Error())
}

func (m *Model) statusLine() string {
	if n := m.board.Notice(); n != "" {
		return styleNotice.Render(n)
	}
	if m.drag.Active() {
		if m.drag.Kind() == dnd.KindList {
			return styleMuted.Render("Moving list " + m.drag.ItemID())
		}
		return styleMuted.Render(fmt.Sprintf("Moving %q", m.drag.Preview().Title))
	}
	return ""
}

func (m *Model) columnsView(lists []*board.List) string {
	rows := m.layout().visibleRows()
	gap := strings.Repeat(" ", columnGap)

	cols := make([]string, 0, len(lists)*2)
	for i, l := range lists {
		if i > 0 {
			cols = append(cols, gap)
		}
		cols = append(cols, styleColumn.Render(m.columnView(i, l, rows)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m *Model) columnView(idx int, l *board.List, rows int) string {
	s := m.Dragging()
	listHovered := s != nil && s.Kind() == dnd.KindList && s.Hover().Index == idx
	listDragged := s != nil && s.Kind() == dnd.KindList && s.ItemID() == l.ID()

	title := fmt.Sprintf("%s (%d)", l.Title(), l.Len())
	if l.Loading() {
		title += " ⟳"
	}
	title = truncate(title, columnWidth)
	switch {
	case listDragged:
		title = styleGhost.Render(title)
	case listHovered:
		title = styleDrop.Render("▸ " + truncate(title, columnWidth-2))
	default:
		title = titleStyle(l.Color(), idx == m.focusList && s == nil).Render(title)
	}

	lines := []string{title, styleMuted.Render(strings.Repeat("─", columnWidth))}
	for _, item := range l.Items(s) {
		if len(lines)-cardsTop >= rows {
			break
		}
		if item.Slot != nil {
			lines = append(lines, m.slotView(*item.Slot, s))
			continue
		}
		lines = append(lines, m.cardView(idx, *item.Card, s))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) cardView(listIdx int, d dnd.Draggable, s *dnd.Session) string {
	text := truncate(d.Card.Title, columnWidth-2)
	if s != nil && s.Kind() == dnd.KindCard {
		hover := s.Hover()
		switch {
		case s.ItemID() == d.ID():
			return styleGhost.Render("  " + text)
		case !hover.Slot && hover.ContainerID == d.ListID && hover.Index == d.Index:
			return styleDrop.Render("▸ ") + text
		}
		return "  " + text
	}
	if listIdx == m.focusList && d.Index == m.focusCard {
		return styleFocused.Render("▌ " + text)
	}
	return "  " + text
}

func (m *Model) slotView(slot dnd.DropSlot, s *dnd.Session) string {
	switch {
	case slot.Hovered:
		return styleDrop.Render("▸ drop here")
	case s != nil && s.Kind() == dnd.KindCard:
		return styleMuted.Render("  ·")
	case slot.Count == 0:
		return styleMuted.Render("  (empty)")
	default:
		return ""
	}
}

func indexOfList(lists []*board.List, id string) int {
	for i, l := range lists {
		if l.ID() == id {
			return i
		}
	}
	return -1
}

func indexOfCard(l *board.List, id string) int {
	for i, c := range l.Cards() {
		if c.ID == id {
			return i
		}
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
