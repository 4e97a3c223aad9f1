package resolver

import (
	"errors"
	"sort"
	"testing"

	tackerr "github.com/amterp/tack/internal/errors"
	"github.com/amterp/tack/internal/model"
	"github.com/amterp/tack/internal/prompt"
	"github.com/amterp/tack/internal/store"
)

// mockBoardStore implements store.BoardStore for testing.
type mockBoardStore struct {
	boards map[string]*model.BoardConfig
	err    error
}

func newMockBoardStore(names ...string) *mockBoardStore {
	m := &mockBoardStore{boards: make(map[string]*model.BoardConfig)}
	for _, name := range names {
		m.boards[name] = &model.BoardConfig{ID: "b_" + name, Name: name}
	}
	return m
}

func (m *mockBoardStore) Create(*model.BoardConfig) error { return nil }
func (m *mockBoardStore) Update(*model.BoardConfig) error { return nil }
func (m *mockBoardStore) Delete(string) error             { return nil }

func (m *mockBoardStore) Get(boardName string) (*model.BoardConfig, error) {
	if cfg, ok := m.boards[boardName]; ok {
		return cfg, nil
	}
	return nil, tackerr.BoardNotFound(boardName)
}

func (m *mockBoardStore) List() ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	var names []string
	for name := range m.boards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *mockBoardStore) Exists(boardName string) bool {
	_, ok := m.boards[boardName]
	return ok
}

var _ store.BoardStore = (*mockBoardStore)(nil)

// mockPrompter records the offered choices and answers with result.
type mockPrompter struct {
	result  string
	err     error
	offered []prompt.Choice
}

func (m *mockPrompter) Select(_ string, choices []prompt.Choice) (string, error) {
	m.offered = choices
	return m.result, m.err
}

func (m *mockPrompter) Input(string, string) (string, error) { return "", nil }
func (m *mockPrompter) Confirm(string, bool) (bool, error)   { return false, nil }

var _ prompt.Prompter = (*mockPrompter)(nil)

// ============================================================================
// BoardResolver Tests
// ============================================================================

func TestBoardResolver_ExplicitBoard(t *testing.T) {
	r := NewBoardResolver(newMockBoardStore("main", "ops"), "", &prompt.NoopPrompter{})

	board, err := r.Resolve("ops", false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if board != "ops" {
		t.Errorf("expected 'ops', got %q", board)
	}
}

func TestBoardResolver_ExplicitBoardNotFound(t *testing.T) {
	r := NewBoardResolver(newMockBoardStore("main"), "", &prompt.NoopPrompter{})

	_, err := r.Resolve("missing", false)
	if !tackerr.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestBoardResolver_SingleBoard(t *testing.T) {
	r := NewBoardResolver(newMockBoardStore("main"), "other", &prompt.NoopPrompter{})

	board, err := r.Resolve("", false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if board != "main" {
		t.Errorf("expected 'main', got %q", board)
	}
}

func TestBoardResolver_NoBoards(t *testing.T) {
	r := NewBoardResolver(newMockBoardStore(), "", &prompt.NoopPrompter{})

	_, err := r.Resolve("", true)
	if !errors.Is(err, tackerr.ErrNotInitialized) {
		t.Errorf("expected not-initialized error, got %v", err)
	}
}

func TestBoardResolver_DefaultBoard(t *testing.T) {
	r := NewBoardResolver(newMockBoardStore("main", "ops"), "ops", &prompt.NoopPrompter{})

	board, err := r.Resolve("", false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if board != "ops" {
		t.Errorf("expected 'ops', got %q", board)
	}
}

func TestBoardResolver_StaleDefaultFallsThrough(t *testing.T) {
	r := NewBoardResolver(newMockBoardStore("main", "ops"), "deleted", &prompt.NoopPrompter{})

	_, err := r.Resolve("", false)
	if !tackerr.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestBoardResolver_Prompts(t *testing.T) {
	p := &mockPrompter{result: "ops"}
	r := NewBoardResolver(newMockBoardStore("main", "ops"), "", p)

	board, err := r.Resolve("", true)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if board != "ops" {
		t.Errorf("expected 'ops', got %q", board)
	}
	if len(p.offered) != 2 || p.offered[0].Value != "main" {
		t.Errorf("unexpected choices: %+v", p.offered)
	}
}

func TestBoardResolver_PromptError(t *testing.T) {
	p := &mockPrompter{err: errors.New("user aborted")}
	r := NewBoardResolver(newMockBoardStore("main", "ops"), "", p)

	if _, err := r.Resolve("", true); err == nil {
		t.Error("expected prompt error to propagate")
	}
}

func TestBoardResolver_ListError(t *testing.T) {
	s := newMockBoardStore("main")
	s.err = errors.New("disk gone")
	r := NewBoardResolver(s, "", &prompt.NoopPrompter{})

	if _, err := r.Resolve("", false); err == nil {
		t.Error("expected store error to propagate")
	}
}
