package state

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings of the signal view.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Edit        key.Binding
	Check       key.Binding
	Filter      key.Binding
	Add         key.Binding
	Remove      key.Binding
	Copy        key.Binding
	Undo        key.Binding
	Redo        key.Binding
	Save        key.Binding
	StepForward key.Binding
	StepBack    key.Binding
	Play        key.Binding
	RangeUp     key.Binding
	RangeDown   key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Toggle:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand")),
		Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Check:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Remove:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Undo:        key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Redo:        key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "redo")),
		Save:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		StepForward: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "+1s")),
		StepBack:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "-1s")),
		Play:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play/pause")),
		RangeUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "range")),
		RangeDown:   key.NewBinding(key.WithKeys("-")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Toggle, k.Edit, k.Filter, k.Add, k.Remove, k.Undo, k.Redo, k.Save, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.Toggle, k.Edit, k.Check},
		{k.Filter, k.Add, k.Remove, k.Copy},
		{k.Undo, k.Redo, k.Save},
		{k.StepForward, k.StepBack, k.Play, k.RangeUp, k.Quit},
	}
}
