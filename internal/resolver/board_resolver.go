package resolver

import (
	tackerr "github.com/amterp/tack/internal/errors"
	"github.com/amterp/tack/internal/prompt"
	"github.com/amterp/tack/internal/store"
)

// BoardResolver handles board selection logic.
type BoardResolver struct {
	boardStore   store.BoardStore
	defaultBoard string
	prompter     prompt.Prompter
}

// NewBoardResolver creates a new board resolver. defaultBoard comes from
// the user's settings and may be empty.
func NewBoardResolver(boardStore store.BoardStore, defaultBoard string, prompter prompt.Prompter) *BoardResolver {
	return &BoardResolver{
		boardStore:   boardStore,
		defaultBoard: defaultBoard,
		prompter:     prompter,
	}
}

// Resolve picks the board a command acts on:
// 1. The explicit board, which must exist
// 2. The only board, if there is one
// 3. default_board from settings, if it exists
// 4. A prompt, when interactive
func (r *BoardResolver) Resolve(explicitBoard string, interactive bool) (string, error) {
	if explicitBoard != "" {
		if !r.boardStore.Exists(explicitBoard) {
			return "", tackerr.BoardNotFound(explicitBoard)
		}
		return explicitBoard, nil
	}

	boards, err := r.boardStore.List()
	if err != nil {
		return "", err
	}
	if len(boards) == 0 {
		return "", &tackerr.NotInitializedError{}
	}
	if len(boards) == 1 {
		return boards[0], nil
	}

	if r.defaultBoard != "" && r.boardStore.Exists(r.defaultBoard) {
		return r.defaultBoard, nil
	}

	if !interactive {
		return "", tackerr.InvalidField("board", "multiple boards exist; pass --board or set default_board in settings")
	}
	return r.prompter.Select("Select board", prompt.Choices(boards...))
}
