package service

import (
	"reflect"
	"testing"

	tackerr "github.com/amterp/tack/internal/errors"
	"github.com/amterp/tack/internal/model"
)

func setupBoardService(t *testing.T) (*BoardService, *testBoardStore, *testCardStore) {
	t.Helper()
	boardStore := newTestBoardStore()
	cardStore := newTestCardStore()
	boardStore.addBoard(&model.BoardConfig{
		ID:   "b_main",
		Name: "main",
		Lists: []model.List{
			{ID: "L1", Title: "To Do", CardIDs: []string{"c1"}},
			{ID: "L2", Title: "Doing"},
			{ID: "L3", Title: "Done"},
		},
	})
	_ = cardStore.Create("main", &model.Card{ID: "c1", Title: "one"})
	return NewBoardService(boardStore, cardStore, NewBoardLocks()), boardStore, cardStore
}

func listOrder(t *testing.T, bs *testBoardStore) []string {
	t.Helper()
	cfg, err := bs.Get("main")
	if err != nil {
		t.Fatal(err)
	}
	return cfg.ListIDs()
}

// ============================================================================
// Boards
// ============================================================================

func TestBoardService_Create(t *testing.T) {
	boardStore := newTestBoardStore()
	service := NewBoardService(boardStore, newTestCardStore(), nil)

	name, err := service.Create("Q3 Roadmap")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if name != "q3-roadmap" {
		t.Errorf("expected slug name, got %q", name)
	}

	cfg, err := boardStore.Get(name)
	if err != nil {
		t.Fatalf("Failed to get created board: %v", err)
	}
	if len(cfg.Lists) != 3 {
		t.Errorf("Expected 3 default lists, got %d", len(cfg.Lists))
	}
	for _, l := range cfg.Lists {
		if l.ID == "" {
			t.Error("Expected list IDs to be generated")
		}
	}
	if cfg.ID == "" {
		t.Error("Expected board ID to be generated")
	}

	if _, err := service.Create("q3 roadmap"); !tackerr.IsAlreadyExists(err) {
		t.Errorf("Expected AlreadyExists error, got %v", err)
	}
	if _, err := service.Create("!!!"); !tackerr.IsValidationError(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

// ============================================================================
// Lists
// ============================================================================

func TestBoardService_ReorderList(t *testing.T) {
	service, boardStore, _ := setupBoardService(t)

	if err := service.ReorderList("main", "L3", 0); err != nil {
		t.Fatalf("ReorderList failed: %v", err)
	}
	if got := listOrder(t, boardStore); !reflect.DeepEqual(got, []string{"L3", "L1", "L2"}) {
		t.Errorf("order = %v", got)
	}

	if err := service.ReorderList("main", "L1", 3); !tackerr.IsValidationError(err) {
		t.Errorf("expected validation error for out-of-range position, got %v", err)
	}
	if err := service.ReorderList("main", "nope", 0); !tackerr.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestBoardService_AddList(t *testing.T) {
	service, boardStore, _ := setupBoardService(t)

	l, err := service.AddList("main", "Review", 1)
	if err != nil {
		t.Fatalf("AddList failed: %v", err)
	}
	if got := listOrder(t, boardStore); !reflect.DeepEqual(got, []string{"L1", l.ID, "L2", "L3"}) {
		t.Errorf("order = %v", got)
	}
	if l.Color == "" {
		t.Error("expected a color to be assigned")
	}

	if _, err := service.AddList("main", "Review", -1); !tackerr.IsAlreadyExists(err) {
		t.Errorf("expected AlreadyExists, got %v", err)
	}
	if _, err := service.AddList("main", " ", -1); !tackerr.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestBoardService_RenameList(t *testing.T) {
	service, _, _ := setupBoardService(t)

	if err := service.RenameList("main", "L2", "In Progress"); err != nil {
		t.Fatalf("RenameList failed: %v", err)
	}
	l, err := service.FindList("main", "in progress")
	if err != nil {
		t.Fatalf("FindList by title failed: %v", err)
	}
	if l.ID != "L2" {
		t.Errorf("expected L2, got %s", l.ID)
	}
	if err := service.RenameList("main", "L1", "Done"); !tackerr.IsAlreadyExists(err) {
		t.Errorf("expected AlreadyExists, got %v", err)
	}
}

func TestBoardService_DeleteList(t *testing.T) {
	service, boardStore, cardStore := setupBoardService(t)

	n, err := service.DeleteList("main", "L1")
	if err != nil {
		t.Fatalf("DeleteList failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 card deleted, got %d", n)
	}
	if _, err := cardStore.Get("main", "c1"); !tackerr.IsNotFound(err) {
		t.Error("cards of a deleted list should be deleted")
	}
	if got := listOrder(t, boardStore); !reflect.DeepEqual(got, []string{"L2", "L3"}) {
		t.Errorf("order = %v", got)
	}

	_, _ = service.DeleteList("main", "L2")
	if _, err := service.DeleteList("main", "L3"); !tackerr.IsValidationError(err) {
		t.Errorf("expected error deleting last list, got %v", err)
	}
}

func TestBoardService_ListOrder(t *testing.T) {
	service, _, _ := setupBoardService(t)

	lists, err := service.ListOrder("main")
	if err != nil {
		t.Fatalf("ListOrder failed: %v", err)
	}
	if len(lists) != 3 || lists[0].Title != "To Do" {
		t.Errorf("unexpected lists: %+v", lists)
	}
	if _, err := service.ListOrder("ghost"); !tackerr.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}
