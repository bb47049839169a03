package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	NudgeUp   key.Binding
	NudgeDown key.Binding
	Indent    key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	Search    key.Binding
	Copy      key.Binding
	DarkMode  key.Binding
	RTL       key.Binding
	Cancel    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NudgeUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		NudgeDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Indent:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "indent")),
		ZoomIn:    key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("backspace", "h"), key.WithHelp("bksp", "zoom out")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		DarkMode:  key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "dark mode")),
		RTL:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rtl")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Copy, k.NudgeUp, k.NudgeDown, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.ZoomIn, k.ZoomOut},
		{k.NudgeUp, k.NudgeDown, k.Indent},
		{k.Search, k.Copy, k.Cancel},
		{k.DarkMode, k.RTL, k.Help, k.Quit},
	}
}
