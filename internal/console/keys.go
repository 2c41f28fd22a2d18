package console

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
)

type keyMap struct {
	PrevUser     key.Binding
	NextUser     key.Binding
	ToggleOrder  key.Binding
	ToggleHidden key.Binding
	Select       key.Binding
	MarkReviewed key.Binding
	MarkOpen     key.Binding
	MarkAll      key.Binding
	Refresh      key.Binding
	Quit         key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		PrevUser:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev user")),
		NextUser:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next user")),
		ToggleOrder:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "flip order")),
		ToggleHidden: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hide reviewed")),
		Select:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		MarkReviewed: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "mark reviewed")),
		MarkOpen:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "mark unreviewed")),
		MarkAll:      key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "review all shown")),
		Refresh:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevUser, k.NextUser, k.Select, k.MarkReviewed, k.MarkOpen, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevUser, k.NextUser, k.ToggleOrder, k.ToggleHidden},
		{k.Select, k.MarkReviewed, k.MarkOpen, k.MarkAll},
		{k.Refresh, k.Quit},
	}
}

// tableKeys keeps row navigation but frees the letters the console uses
// (the table defaults bind space, u and d).
func tableKeys() table.KeyMap {
	return table.KeyMap{
		LineUp:       key.NewBinding(key.WithKeys("up", "k")),
		LineDown:     key.NewBinding(key.WithKeys("down", "j")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		GotoTop:      key.NewBinding(key.WithKeys("home", "g")),
		GotoBottom:   key.NewBinding(key.WithKeys("end", "G")),
	}
}
