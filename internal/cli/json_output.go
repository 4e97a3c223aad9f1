package cli

import (
	"encoding/json"
	"fmt"

	"github.com/amterp/tack/internal/model"
)

// cardJson is a card as the CLI prints it. It drops the file schema
// version and adds the due date in readable form.
//
// SYNC WARNING: This struct must stay in sync with model.Card fields.
// See TestCardJsonFieldSync.
type cardJson struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Progress        int      `json:"progress"`
	DueAtMillis     int64    `json:"due_at_millis,omitempty"`
	Assignees       []string `json:"assignees"`
	Labels          []string `json:"labels"`
	CreatedAtMillis int64    `json:"created_at_millis"`
	UpdatedAtMillis int64    `json:"updated_at_millis"`
	ListID          string   `json:"list_id,omitempty"`
}

func cardToJson(c *model.Card) cardJson {
	return cardJson{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Progress:        c.Progress,
		DueAtMillis:     c.DueAtMillis,
		Assignees:       nonNil(c.Assignees),
		Labels:          nonNil(c.Labels),
		CreatedAtMillis: c.CreatedAtMillis,
		UpdatedAtMillis: c.UpdatedAtMillis,
		ListID:          c.ListID,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// CardOutput wraps a single card for JSON output.
type CardOutput struct {
	Card cardJson `json:"card"`
}

// NewCardOutput creates a CardOutput from a model.Card.
func NewCardOutput(card *model.Card) CardOutput {
	return CardOutput{Card: cardToJson(card)}
}

// listJson is one list of a board with its cards in order.
type listJson struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Color string     `json:"color,omitempty"`
	Cards []cardJson `json:"cards"`
}

// BoardOutput is a whole board for JSON output.
type BoardOutput struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Lists []listJson `json:"lists"`
}

// NewBoardOutput builds a BoardOutput in board order. Lists and cards are
// always arrays, never null.
func NewBoardOutput(cfg *model.BoardConfig, cards map[string][]*model.Card) BoardOutput {
	out := BoardOutput{ID: cfg.ID, Name: cfg.Name, Lists: make([]listJson, 0, len(cfg.Lists))}
	for _, l := range cfg.Lists {
		lj := listJson{ID: l.ID, Title: l.Title, Color: l.Color, Cards: make([]cardJson, 0, len(cards[l.ID]))}
		for _, c := range cards[l.ID] {
			lj.Cards = append(lj.Cards, cardToJson(c))
		}
		out.Lists = append(out.Lists, lj)
	}
	return out
}

// BoardsOutput wraps a list of board names for JSON output.
type BoardsOutput struct {
	Boards []string `json:"boards"`
}

// NewBoardsOutput creates a BoardsOutput from board names.
// Always returns an empty array (not null) when there are no boards.
func NewBoardsOutput(boards []string) BoardsOutput {
	return BoardsOutput{Boards: nonNil(boards)}
}

// printJson marshals the value as indented JSON and prints it to stdout.
func printJson(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}
