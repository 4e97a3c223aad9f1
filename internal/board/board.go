package board

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/amterp/tack/internal/dnd"
	tackerr "github.com/amterp/tack/internal/errors"
	"github.com/amterp/tack/internal/model"
)

const (
	defaultNoticeTTL = 4 * time.Second
	loadConcurrency  = 4
)

// Board owns the list order of one board and the lifetime of its
// Coordinator. Card order is owned by the Lists; the board only reaches
// them through the coordinator when a drag ends or a rollback is needed.
//
// All methods must be called from the bubbletea update loop. Network work
// runs in the returned commands.
type Board struct {
	id        string
	persister Persister

	coord  *Coordinator
	ctx    context.Context
	cancel context.CancelFunc

	lists map[string]*List
	order []string

	loading bool
	loadErr error

	notice    string
	noticeSeq int
	noticeTTL time.Duration

	gestures uint64
	log      *log.Entry
}

// Option configures a Board.
type Option func(*Board)

// WithNoticeTTL sets how long notices stay visible. Zero keeps them until
// the next notice or DismissNotice.
func WithNoticeTTL(d time.Duration) Option {
	return func(b *Board) { b.noticeTTL = d }
}

// WithLogger routes the board's logs to logger.
func WithLogger(logger *log.Logger) Option {
	return func(b *Board) { b.log = logger.WithField("board", b.id) }
}

// New creates an unmounted board backed by p.
func New(id string, p Persister, opts ...Option) *Board {
	b := &Board{
		id:        id,
		persister: p,
		lists:     make(map[string]*List),
		noticeTTL: defaultNoticeTTL,
		log:       log.StandardLogger().WithField("board", id),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Board) ID() string { return b.id }

// Mounted reports whether the board is between Mount and Unmount.
func (b *Board) Mounted() bool { return b.coord != nil }

// Mount starts the board's lifetime with a fresh coordinator.
func (b *Board) Mount() {
	if b.Mounted() {
		return
	}
	b.ctx, b.cancel = context.WithCancel(context.Background())
	b.coord = NewCoordinator()
}

// Unmount unmounts every list, closes the coordinator and cancels
// in-flight requests. Results that arrive afterwards are dropped.
func (b *Board) Unmount() {
	if !b.Mounted() {
		return
	}
	for _, l := range b.lists {
		l.Unmount()
	}
	b.lists = make(map[string]*List)
	b.order = nil
	b.coord.Close()
	b.coord = nil
	b.cancel()
}

// Coordinator returns the registry of the mounted board, or nil.
func (b *Board) Coordinator() *Coordinator { return b.coord }

// Order returns the list IDs in board order.
func (b *Board) Order() []string {
	return model.Clone(b.order)
}

// Lists returns the mounted lists in board order.
func (b *Board) Lists() []*List {
	out := make([]*List, 0, len(b.order))
	for _, id := range b.order {
		if l, ok := b.lists[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

// List returns the mounted list with the given ID.
func (b *Board) List(id string) (*List, bool) {
	l, ok := b.lists[id]
	return l, ok
}

// Loading reports whether the initial load is in flight.
func (b *Board) Loading() bool { return b.loading }

// LoadErr is the error of a failed initial load.
func (b *Board) LoadErr() error { return b.loadErr }

// Notice is the current user-visible message, or "".
func (b *Board) Notice() string { return b.notice }

func (b *Board) DismissNotice() {
	b.notice = ""
	b.noticeSeq++
}

// Load mounts the board and fetches its lists and their cards.
func (b *Board) Load() tea.Cmd {
	b.Mount()
	b.loading = true
	ctx, p := b.ctx, b.persister
	return func() tea.Msg {
		lists, err := p.FetchListOrder(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}

		var mu sync.Mutex
		cards := make(map[string][]model.Card, len(lists))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(loadConcurrency)
		for _, l := range lists {
			listID := l.ID
			g.Go(func() error {
				cs, err := p.FetchCards(gctx, listID)
				if err != nil {
					return fmt.Errorf("fetch cards of %s: %w", listID, err)
				}
				mu.Lock()
				cards[listID] = cs
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return LoadedMsg{Err: err}
		}
		return LoadedMsg{Lists: lists, Cards: cards}
	}
}

// Refresh refetches the given lists, or the list order and every list when
// none are given.
func (b *Board) Refresh(listIDs ...string) tea.Cmd {
	if !b.Mounted() {
		return nil
	}
	if len(listIDs) == 0 {
		cmds := []tea.Cmd{b.refetchListOrder()}
		for _, l := range b.Lists() {
			cmds = append(cmds, l.RefetchCards())
		}
		return tea.Batch(cmds...)
	}

	var cmds []tea.Cmd
	for _, id := range listIDs {
		if api, ok := b.coord.API(id); ok {
			cmds = append(cmds, api.RefetchCards())
		}
	}
	return tea.Batch(cmds...)
}

// HandleDragEnd applies a finished gesture. Local state changes happen
// before it returns; the returned command persists them. Errors never
// escape: they end up as a rollback plus a notice.
func (b *Board) HandleDragEnd(e dnd.DragEnd) tea.Cmd {
	if !b.Mounted() {
		return nil
	}

	plan := dnd.Resolve(e)
	b.gestures++
	entry := b.log.WithFields(log.Fields{
		"gesture": b.gestures,
		"kind":    plan.Kind.String(),
		"item":    plan.ItemID,
		"action":  plan.Action.String(),
	})

	switch plan.Action {
	case dnd.ActionReorderLists:
		return b.reorderLists(plan, entry)
	case dnd.ActionReorderCards:
		return b.reorderCards(plan, entry)
	case dnd.ActionMoveCard:
		return b.moveCard(plan, entry)
	default:
		entry.Debug("drop needs no change")
		return nil
	}
}

func (b *Board) reorderLists(plan dnd.Plan, entry *log.Entry) tea.Cmd {
	prev := b.Order()
	next, final := dnd.ReorderIDs(prev, plan.ItemID, plan.FromIndex, plan.ToIndex)
	if final < 0 || slices.Equal(next, prev) {
		entry.Debug("list order unchanged")
		return nil
	}
	b.order = next

	p := b.persister
	return b.persist(plan, nil, prev, entry, func(ctx context.Context) error {
		return p.ReorderList(ctx, plan.ItemID, final)
	})
}

func (b *Board) reorderCards(plan dnd.Plan, entry *log.Entry) tea.Cmd {
	api, ok := b.coord.API(plan.From)
	if !ok {
		entry.WithField("list", plan.From).Debug("list not mounted, skipping")
		return nil
	}

	final := -1
	api.SetCards(func(prev []model.Card) []model.Card {
		next, f := dnd.ReorderCard(prev, plan.ItemID, plan.FromIndex, plan.ToIndex)
		final = f
		return next
	})
	if final < 0 {
		entry.Debug("card no longer in list")
		return nil
	}

	p := b.persister
	return b.persist(plan, []string{plan.From}, nil, entry, func(ctx context.Context) error {
		return p.ReorderCard(ctx, plan.ItemID, plan.From, plan.From, final)
	})
}

func (b *Board) moveCard(plan dnd.Plan, entry *log.Entry) tea.Cmd {
	dest, ok := b.coord.API(plan.To)
	if !ok {
		// Removing from the origin alone would show the card nowhere.
		entry.WithField("list", plan.To).Debug("destination not mounted, cancelling")
		return nil
	}

	card := plan.Card
	var touched []string
	if origin, ok := b.coord.API(plan.From); ok {
		origin.SetCards(func(prev []model.Card) []model.Card {
			for _, c := range prev {
				if c.ID == plan.ItemID {
					card = c
					break
				}
			}
			return dnd.RemoveCard(prev, plan.ItemID, plan.FromIndex)
		})
		touched = append(touched, plan.From)
	} else {
		entry.WithField("list", plan.From).Debug("origin not mounted, skipping removal")
	}
	if card.ID != plan.ItemID {
		entry.Debug("no payload for dragged card, cancelling")
		return nil
	}

	final := -1
	dest.SetCards(func(prev []model.Card) []model.Card {
		next, f := dnd.InsertCard(prev, card, plan.ToIndex)
		final = f
		return next
	})
	touched = append(touched, plan.To)

	p := b.persister
	return b.persist(plan, touched, nil, entry, func(ctx context.Context) error {
		return p.ReorderCard(ctx, plan.ItemID, plan.From, plan.To, final)
	})
}

func (b *Board) persist(plan dnd.Plan, touched, prevOrder []string, entry *log.Entry, call func(context.Context) error) tea.Cmd {
	gesture := b.gestures
	ctx := b.ctx
	entry.Debug("applied locally, persisting")
	return func() tea.Msg {
		return PersistResultMsg{
			Gesture:   gesture,
			Plan:      plan,
			Touched:   touched,
			PrevOrder: prevOrder,
			Err:       call(ctx),
		}
	}
}

// Update handles the board's messages. Messages arriving after Unmount are
// dropped.
func (b *Board) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(noticeExpiredMsg); !ok && !b.Mounted() {
		return nil
	}

	switch msg := msg.(type) {
	case LoadedMsg:
		b.loading = false
		if msg.Err != nil {
			b.loadErr = msg.Err
			b.log.WithError(msg.Err).Error("failed to load board")
			return b.setNotice("Couldn't load board: " + msg.Err.Error())
		}
		b.loadErr = nil
		b.reconcile(msg.Lists)
		for _, l := range b.Lists() {
			l.SetCards(Replace(msg.Cards[l.ID()]))
		}
		return nil

	case CardsFetchedMsg:
		l, ok := b.lists[msg.ListID]
		if !ok {
			return nil
		}
		l.Update(msg)
		if msg.Err != nil {
			b.log.WithError(msg.Err).WithField("list", msg.ListID).Warn("failed to refetch list")
			return b.setNotice(fmt.Sprintf("Couldn't refresh %q", l.Title()))
		}
		return nil

	case ListOrderFetchedMsg:
		if msg.Err != nil {
			b.log.WithError(msg.Err).Warn("failed to refetch list order")
			return b.setNotice("Couldn't refresh the board")
		}
		var cmds []tea.Cmd
		for _, id := range b.reconcile(msg.Lists) {
			cmds = append(cmds, b.lists[id].RefetchCards())
		}
		return tea.Batch(cmds...)

	case PersistResultMsg:
		return b.handlePersistResult(msg)

	case RemoteChangeMsg:
		return b.Refresh(msg.ListIDs...)

	case noticeExpiredMsg:
		if msg.seq == b.noticeSeq {
			b.notice = ""
		}
	}
	return nil
}

func (b *Board) handlePersistResult(msg PersistResultMsg) tea.Cmd {
	entry := b.log.WithFields(log.Fields{
		"gesture": msg.Gesture,
		"item":    msg.Plan.ItemID,
		"action":  msg.Plan.Action.String(),
	})
	if msg.Err == nil {
		entry.Debug("persisted")
		return nil
	}
	entry.WithError(msg.Err).Warn("persist failed, restoring server order")

	var cmds []tea.Cmd
	if msg.Plan.Kind == dnd.KindList {
		if msg.PrevOrder != nil {
			b.order = b.knownOrder(msg.PrevOrder)
		}
		cmds = append(cmds, b.refetchListOrder())
	} else {
		for _, id := range msg.Touched {
			api, ok := b.coord.API(id)
			if !ok {
				continue
			}
			cmds = append(cmds, api.RefetchCards())
		}
	}

	text := "Couldn't save your move; restored the saved order"
	if tackerr.IsConflict(msg.Err) || tackerr.IsNotFound(msg.Err) {
		text = "Board changed elsewhere; reloaded"
	}
	cmds = append(cmds, b.setNotice(text))
	return tea.Batch(cmds...)
}

func (b *Board) refetchListOrder() tea.Cmd {
	ctx, p := b.ctx, b.persister
	return func() tea.Msg {
		lists, err := p.FetchListOrder(ctx)
		return ListOrderFetchedMsg{Lists: lists, Err: err}
	}
}

// reconcile makes the mounted lists match lists: new ones are created and
// mounted, missing ones unmounted, titles refreshed. It returns the IDs of
// newly mounted lists.
func (b *Board) reconcile(lists []model.List) []string {
	var added []string
	keep := make(map[string]bool, len(lists))
	order := make([]string, 0, len(lists))
	for _, m := range lists {
		if keep[m.ID] {
			continue
		}
		l, ok := b.lists[m.ID]
		if !ok {
			l = NewList(b.ctx, m, b.persister)
			b.lists[m.ID] = l
			added = append(added, m.ID)
		} else {
			l.setMeta(m)
		}
		l.Mount(b.coord)
		keep[m.ID] = true
		order = append(order, m.ID)
	}
	for id, l := range b.lists {
		if !keep[id] {
			l.Unmount()
			delete(b.lists, id)
		}
	}
	b.order = order
	return added
}

// knownOrder restricts ids to mounted lists and appends any mounted list
// ids doesn't mention.
func (b *Board) knownOrder(ids []string) []string {
	out := make([]string, 0, len(b.lists))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := b.lists[id]; ok && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	for _, id := range b.order {
		if !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	return out
}

func (b *Board) setNotice(text string) tea.Cmd {
	b.notice = text
	b.noticeSeq++
	if b.noticeTTL <= 0 {
		return nil
	}
	seq := b.noticeSeq
	return tea.Tick(b.noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}
