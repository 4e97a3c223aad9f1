package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the board's key bindings.
type KeyMap struct {
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	LiftCard key.Binding
	LiftList key.Binding
	Drop     key.Binding
	Cancel   key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap is the vim-flavoured default binding set.
var DefaultKeyMap = KeyMap{
	Left:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "left")),
	Right:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "right")),
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	LiftCard: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "move card")),
	LiftList: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "move list")),
	Drop:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
	Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.LiftCard, k.LiftList, k.Refresh, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.LiftCard, k.LiftList, k.Drop, k.Cancel},
		{k.Refresh, k.Help, k.Quit},
	}
}

// dragHelp is shown while a gesture is in progress.
type dragHelp struct{ k KeyMap }

func (d dragHelp) ShortHelp() []key.Binding {
	return []key.Binding{d.k.Left, d.k.Right, d.k.Up, d.k.Down, d.k.Drop, d.k.Cancel}
}

func (d dragHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{d.ShortHelp()}
}
