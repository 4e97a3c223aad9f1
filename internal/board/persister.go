package board

import (
	"context"

	"github.com/amterp/tack/internal/model"
)

// CardFetcher loads the authoritative card order of one list.
type CardFetcher interface {
	FetchCards(ctx context.Context, listID string) ([]model.Card, error)
}

// Persister is the server-side collaborator of a board. Positions are
// 0-based final indices.
type Persister interface {
	CardFetcher
	ReorderCard(ctx context.Context, cardID, fromListID, toListID string, toIndex int) error
	ReorderList(ctx context.Context, listID string, toIndex int) error
	// FetchListOrder returns the board's lists in order. CardIDs may be
	// empty; cards are fetched per list.
	FetchListOrder(ctx context.Context) ([]model.List, error)
}
