package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up      key.Binding
	down    key.Binding
	left    key.Binding
	right   key.Binding
	enter   key.Binding
	esc     key.Binding
	tab     key.Binding
	backtab key.Binding
	quit    key.Binding
	logout  key.Binding
	newOp   key.Binding
	sync    key.Binding
	retry   key.Binding
	cancel  key.Binding
	clear   key.Binding
	copy    key.Binding
}

var keys = keyMap{
	up:      key.NewBinding(key.WithKeys("up", "k")),
	down:    key.NewBinding(key.WithKeys("down", "j")),
	left:    key.NewBinding(key.WithKeys("left", "h")),
	right:   key.NewBinding(key.WithKeys("right", "l")),
	enter:   key.NewBinding(key.WithKeys("enter")),
	esc:     key.NewBinding(key.WithKeys("esc")),
	tab:     key.NewBinding(key.WithKeys("tab")),
	backtab: key.NewBinding(key.WithKeys("shift+tab")),
	quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
	logout:  key.NewBinding(key.WithKeys("L")),
	newOp:   key.NewBinding(key.WithKeys("a")),
	sync:    key.NewBinding(key.WithKeys("s")),
	retry:   key.NewBinding(key.WithKeys("r")),
	cancel:  key.NewBinding(key.WithKeys("ctrl+d")),
	clear:   key.NewBinding(key.WithKeys("X")),
	copy:    key.NewBinding(key.WithKeys("c")),
}
