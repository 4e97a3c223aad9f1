package model

import "time"

// Card is a unit of work stored as a JSON file. Which list it belongs to is
// recorded only in the board config; ListID is filled in by the service
// layer and carried over the wire but never written to the card file.
type Card struct {
	Version         int      `json:"_v"`
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Progress        int      `json:"progress,omitempty"` // 0-100
	DueAtMillis     int64    `json:"due_at_millis,omitempty"`
	Assignees       []string `json:"assignees,omitempty"`
	Labels          []string `json:"labels,omitempty"`
	CreatedAtMillis int64    `json:"created_at_millis"`
	UpdatedAtMillis int64    `json:"updated_at_millis"`

	ListID string `json:"list_id,omitempty"`
}

// Due returns the due date, or the zero time when none is set.
func (c *Card) Due() time.Time {
	if c.DueAtMillis == 0 {
		return time.Time{}
	}
	return time.UnixMilli(c.DueAtMillis)
}

// Overdue reports whether the card has a due date before now and isn't
// complete.
func (c *Card) Overdue(now time.Time) bool {
	return c.DueAtMillis != 0 && c.Progress < 100 && c.Due().Before(now)
}

// CardIDs extracts the ID sequence of cards.
func CardIDs(cards []Card) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}
