package store

import "github.com/amterp/tack/internal/model"

// CardStore handles card persistence.
type CardStore interface {
	Create(boardName string, card *model.Card) error
	Get(boardName, cardID string) (*model.Card, error)
	Update(boardName string, card *model.Card) error
	Delete(boardName, cardID string) error
	List(boardName string) ([]*model.Card, error)
}

// BoardStore handles board persistence. The board config carries list
// order and per-list card order.
type BoardStore interface {
	Create(config *model.BoardConfig) error
	Get(boardName string) (*model.BoardConfig, error)
	Update(config *model.BoardConfig) error
	Delete(boardName string) error
	List() ([]string, error) // board names
	Exists(boardName string) bool
}

// SettingsStore handles the user's settings file.
type SettingsStore interface {
	Load() (*model.Settings, error)
	Save(settings *model.Settings) error
}
