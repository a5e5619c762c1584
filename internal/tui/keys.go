package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Prev       key.Binding
	Next       key.Binding
	Complete   key.Binding
	Uncomplete key.Binding
	Edit       key.Binding
	AddSet     key.Binding
	RemoveSet  key.Binding
	Toggle     key.Binding
	ExtendRest key.Binding
	SkipRest   key.Binding
	Submit     key.Binding
	Save       key.Binding
	Discard    key.Binding
	Suspend    key.Binding
	Quit       key.Binding
	Help       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev set")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next set")),
		Prev:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev exercise")),
		Next:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next exercise")),
		Complete:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "complete set")),
		Uncomplete: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "reopen set")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit reps/weight")),
		AddSet:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add set")),
		RemoveSet:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove set")),
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		ExtendRest: key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "rest +30s")),
		SkipRest:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "skip rest")),
		Submit:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "submit")),
		Save:       key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "pause & leave")),
		Discard:    key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "discard")),
		Suspend:    key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "suspend")),
		Quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "leave (keeps running)")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Complete, k.Edit, k.Toggle, k.Submit, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Prev, k.Next},
		{k.Complete, k.Uncomplete, k.Edit, k.AddSet, k.RemoveSet},
		{k.Toggle, k.ExtendRest, k.SkipRest, k.Suspend},
		{k.Submit, k.Save, k.Discard, k.Quit, k.Help},
	}
}
