package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"

	"github.com/zappabad/dexwars/internal/economy"
	"github.com/zappabad/dexwars/tui/panels"
)

// keyMap holds the model level bindings. status selects which of them the
// help bar shows.
type keyMap struct {
	status economy.Status

	Days      []key.Binding
	NextPanel key.Binding
	PrevPanel key.Binding
	Panels    key.Binding
	Travel    key.Binding
	Share     key.Binding
	NewRun    key.Binding
	Abandon   key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func newKeyMap(dayOptions []int) keyMap {
	k := keyMap{
		NextPanel: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		PrevPanel: key.NewBinding(key.WithKeys("shift+tab")),
		Panels:    key.NewBinding(key.WithKeys("f1", "f2", "f3", "f4"), key.WithHelp("F1-F4", "panels")),
		Travel:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "travel")),
		Share:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "share")),
		NewRun:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new run")),
		Abandon:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "abandon run")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
	for i, days := range dayOptions {
		n := strconv.Itoa(i + 1)
		k.Days = append(k.Days, key.NewBinding(key.WithKeys(n), key.WithHelp(n, strconv.Itoa(days)+" days")))
	}
	return k
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	switch k.status {
	case economy.StatusStart:
		return append(append([]key.Binding{}, k.Days...), k.Quit)
	case economy.StatusGameOver:
		return []key.Binding{k.Share, k.NewRun, k.Quit}
	}
	return []key.Binding{
		k.NextPanel, k.Panels,
		panels.BuyKey, panels.SellKey, panels.RepayKey, k.Travel,
		k.Abandon, k.Quit,
	}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
