package service

import (
	"reflect"
	"sync"
	"testing"

	tackerr "github.com/amterp/tack/internal/errors"
	"github.com/amterp/tack/internal/model"
	"github.com/amterp/tack/internal/store"
)

// testCardStore implements store.CardStore in memory.
type testCardStore struct {
	mu    sync.Mutex
	cards map[string]map[string]*model.Card // board -> cardID -> card
}

func newTestCardStore() *testCardStore {
	return &testCardStore{cards: make(map[string]map[string]*model.Card)}
}

func (m *testCardStore) Create(boardName string, card *model.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cards[boardName] == nil {
		m.cards[boardName] = make(map[string]*model.Card)
	}
	cp := *card
	cp.ListID = ""
	m.cards[boardName][card.ID] = &cp
	return nil
}

func (m *testCardStore) Get(boardName, cardID string) (*model.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if card, ok := m.cards[boardName][cardID]; ok {
		cp := *card
		return &cp, nil
	}
	return nil, tackerr.CardNotFound(cardID)
}

func (m *testCardStore) Update(boardName string, card *model.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[boardName][card.ID]; !ok {
		return tackerr.CardNotFound(card.ID)
	}
	cp := *card
	cp.ListID = ""
	m.cards[boardName][card.ID] = &cp
	return nil
}

func (m *testCardStore) Delete(boardName, cardID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[boardName][cardID]; ok {
		delete(m.cards[boardName], cardID)
		return nil
	}
	return tackerr.CardNotFound(cardID)
}

func (m *testCardStore) List(boardName string) ([]*model.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var cards []*model.Card
	for _, card := range m.cards[boardName] {
		cp := *card
		cards = append(cards, &cp)
	}
	return cards, nil
}

var _ store.CardStore = (*testCardStore)(nil)

// testBoardStore implements store.BoardStore in memory. Get hands out deep
// copies so services must Update to persist changes.
type testBoardStore struct {
	mu     sync.Mutex
	boards map[string]*model.BoardConfig
}

func newTestBoardStore() *testBoardStore {
	return &testBoardStore{boards: make(map[string]*model.BoardConfig)}
}

func copyBoard(cfg *model.BoardConfig) *model.BoardConfig {
	cp := *cfg
	cp.Lists = make([]model.List, len(cfg.Lists))
	for i, l := range cfg.Lists {
		l.CardIDs = append([]string(nil), l.CardIDs...)
		cp.Lists[i] = l
	}
	return &cp
}

func (m *testBoardStore) addBoard(cfg *model.BoardConfig) {
	m.boards[cfg.Name] = copyBoard(cfg)
}

func (m *testBoardStore) Create(cfg *model.BoardConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[cfg.Name]; ok {
		return tackerr.BoardAlreadyExists(cfg.Name)
	}
	m.boards[cfg.Name] = copyBoard(cfg)
	return nil
}

func (m *testBoardStore) Get(boardName string) (*model.BoardConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cfg, ok := m.boards[boardName]; ok {
		return copyBoard(cfg), nil
	}
	return nil, tackerr.BoardNotFound(boardName)
}

func (m *testBoardStore) Update(cfg *model.BoardConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[cfg.Name]; !ok {
		return tackerr.BoardNotFound(cfg.Name)
	}
	m.boards[cfg.Name] = copyBoard(cfg)
	return nil
}

func (m *testBoardStore) Delete(boardName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[boardName]; !ok {
		return tackerr.BoardNotFound(boardName)
	}
	delete(m.boards, boardName)
	return nil
}

func (m *testBoardStore) List() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := []string{}
	for name := range m.boards {
		names = append(names, name)
	}
	return names, nil
}

func (m *testBoardStore) Exists(boardName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.boards[boardName]
	return ok
}

var _ store.BoardStore = (*testBoardStore)(nil)

// setupCardService returns a service over a board "main" with lists A and
// B. A holds c1, c2; B holds c3.
func setupCardService(t *testing.T) (*CardService, *testBoardStore, *testCardStore) {
	t.Helper()
	boardStore := newTestBoardStore()
	cardStore := newTestCardStore()

	boardStore.addBoard(&model.BoardConfig{
		ID:   "b_main",
		Name: "main",
		Lists: []model.List{
			{ID: "A", Title: "To Do", CardIDs: []string{"c1", "c2"}},
			{ID: "B", Title: "Done", CardIDs: []string{"c3"}},
		},
	})
	for _, id := range []string{"c1", "c2", "c3"} {
		_ = cardStore.Create("main", &model.Card{ID: id, Title: "card " + id})
	}

	return NewCardService(cardStore, boardStore, NewBoardLocks()), boardStore, cardStore
}

func listCardIDs(t *testing.T, bs *testBoardStore, listID string) []string {
	t.Helper()
	cfg, err := bs.Get("main")
	if err != nil {
		t.Fatalf("Get board: %v", err)
	}
	l, ok := cfg.List(listID)
	if !ok {
		t.Fatalf("list %s missing", listID)
	}
	if l.CardIDs == nil {
		return []string{}
	}
	return l.CardIDs
}

// ============================================================================
// Add / Get / ListCards
// ============================================================================

func TestCardService_Add_DefaultsToFirstList(t *testing.T) {
	service, boardStore, _ := setupCardService(t)

	card, err := service.Add(AddCardInput{BoardName: "main", Title: "  New card ", Position: -1})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if card.Title != "New card" {
		t.Errorf("expected trimmed title, got %q", card.Title)
	}
	if card.ListID != "A" {
		t.Errorf("expected ListID A, got %q", card.ListID)
	}
	ids := listCardIDs(t, boardStore, "A")
	if ids[len(ids)-1] != card.ID {
		t.Errorf("expected card appended to A, got %v", ids)
	}
}

func TestCardService_Add_AtPosition(t *testing.T) {
	service, boardStore, _ := setupCardService(t)

	card, err := service.Add(AddCardInput{BoardName: "main", ListID: "B", Title: "urgent", Position: 0})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got := listCardIDs(t, boardStore, "B"); !reflect.DeepEqual(got, []string{card.ID, "c3"}) {
		t.Errorf("B = %v", got)
	}
}

func TestCardService_Add_Validation(t *testing.T) {
	service, _, _ := setupCardService(t)

	if _, err := service.Add(AddCardInput{BoardName: "main", Title: "  "}); !tackerr.IsValidationError(err) {
		t.Errorf("expected validation error for empty title, got %v", err)
	}
	if _, err := service.Add(AddCardInput{BoardName: "main", ListID: "Z", Title: "x"}); !tackerr.IsNotFound(err) {
		t.Errorf("expected NotFound for unknown list, got %v", err)
	}
}

func TestCardService_ListCards_Ordered(t *testing.T) {
	service, _, cardStore := setupCardService(t)
	_ = cardStore.Delete("main", "c2") // dangling id in config is skipped

	cards, err := service.ListCards("main", "A")
	if err != nil {
		t.Fatalf("ListCards failed: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != "c1" {
		t.Fatalf("unexpected cards: %v", cards)
	}
	if cards[0].ListID != "A" {
		t.Errorf("expected ListID stamped, got %q", cards[0].ListID)
	}

	if _, err := service.ListCards("main", "nope"); !tackerr.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestCardService_ListAll(t *testing.T) {
	service, _, _ := setupCardService(t)

	all, err := service.ListAll("main")
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all["A"]) != 2 || all["A"][0].ID != "c1" || all["A"][1].ID != "c2" {
		t.Errorf("A = %v", all["A"])
	}
	if len(all["B"]) != 1 || all["B"][0].ListID != "B" {
		t.Errorf("B = %v", all["B"])
	}
}

// ============================================================================
// Move
// ============================================================================

func TestCardService_Move_WithinList(t *testing.T) {
	service, boardStore, _ := setupCardService(t)

	if err := service.Move("main", "c1", "A", "A", 1); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if got := listCardIDs(t, boardStore, "A"); !reflect.DeepEqual(got, []string{"c2", "c1"}) {
		t.Errorf("A = %v", got)
	}
}

func TestCardService_Move_AcrossLists(t *testing.T) {
	service, boardStore, _ := setupCardService(t)

	if err := service.Move("main", "c1", "A", "B", 0); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if got := listCardIDs(t, boardStore, "A"); !reflect.DeepEqual(got, []string{"c2"}) {
		t.Errorf("A = %v", got)
	}
	if got := listCardIDs(t, boardStore, "B"); !reflect.DeepEqual(got, []string{"c1", "c3"}) {
		t.Errorf("B = %v", got)
	}
}

func TestCardService_Move_AppendsPastEnd(t *testing.T) {
	service, boardStore, _ := setupCardService(t)

	if err := service.Move("main", "c2", "A", "B", 99); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if got := listCardIDs(t, boardStore, "B"); !reflect.DeepEqual(got, []string{"c3", "c2"}) {
		t.Errorf("B = %v", got)
	}
}

func TestCardService_Move_StaleOrigin(t *testing.T) {
	service, boardStore, _ := setupCardService(t)

	err := service.Move("main", "c3", "A", "A", 0)
	if !tackerr.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := listCardIDs(t, boardStore, "B"); !reflect.DeepEqual(got, []string{"c3"}) {
		t.Errorf("stale move must not change state, B = %v", got)
	}
}

func TestCardService_Move_Errors(t *testing.T) {
	service, _, _ := setupCardService(t)

	if err := service.Move("main", "ghost", "A", "B", 0); !tackerr.IsNotFound(err) {
		t.Errorf("expected NotFound for unknown card, got %v", err)
	}
	if err := service.Move("main", "c1", "A", "Z", 0); !tackerr.IsNotFound(err) {
		t.Errorf("expected NotFound for unknown list, got %v", err)
	}
	if err := service.Move("other", "c1", "A", "B", 0); !tackerr.IsNotFound(err) {
		t.Errorf("expected NotFound for unknown board, got %v", err)
	}
}

func TestCardService_Move_ConcurrentKeepsMembershipExclusive(t *testing.T) {
	service, boardStore, _ := setupCardService(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			to := "A"
			if i%2 == 0 {
				to = "B"
			}
			// Origin is unknown to the racing callers.
			_ = service.Move("main", "c1", "", to, 0)
		}(i)
	}
	wg.Wait()

	cfg, _ := boardStore.Get("main")
	seen := 0
	for _, l := range cfg.Lists {
		for _, id := range l.CardIDs {
			if id == "c1" {
				seen++
			}
		}
	}
	if seen != 1 {
		t.Errorf("c1 appears %d times across lists", seen)
	}
}

// ============================================================================
// Edit / Delete
// ============================================================================

func TestCardService_Edit(t *testing.T) {
	service, _, cardStore := setupCardService(t)

	title := "renamed"
	progress := 60
	card, err := service.Edit(EditCardInput{
		BoardName: "main",
		CardID:    "c1",
		Title:     &title,
		Progress:  &progress,
		Labels:    []string{"ops", "ops", " "},
	})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if card.ListID != "A" {
		t.Errorf("expected ListID A, got %q", card.ListID)
	}
	if !reflect.DeepEqual(card.Labels, []string{"ops"}) {
		t.Errorf("labels not deduped: %v", card.Labels)
	}

	stored, _ := cardStore.Get("main", "c1")
	if stored.Title != "renamed" || stored.Progress != 60 {
		t.Errorf("edit not persisted: %+v", stored)
	}

	bad := 140
	if _, err := service.Edit(EditCardInput{BoardName: "main", CardID: "c1", Progress: &bad}); !tackerr.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCardService_Delete(t *testing.T) {
	service, boardStore, cardStore := setupCardService(t)

	if err := service.Delete("main", "c1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := listCardIDs(t, boardStore, "A"); !reflect.DeepEqual(got, []string{"c2"}) {
		t.Errorf("A = %v", got)
	}
	if _, err := cardStore.Get("main", "c1"); !tackerr.IsNotFound(err) {
		t.Errorf("card file should be gone, got %v", err)
	}
	if err := service.Delete("main", "c1"); !tackerr.IsNotFound(err) {
		t.Errorf("expected NotFound deleting twice, got %v", err)
	}
}
