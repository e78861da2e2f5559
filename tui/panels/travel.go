package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/game"
	"github.com/zappabad/dexwars/tui/styles"
)

// TravelPanel lists the venues and sends the player to one of them.
// Typing filters the list by name, network or perk.
type TravelPanel struct {
	venues   []catalog.Venue
	filtered []catalog.Venue
	search   textinput.Model

	snap          game.Snapshot
	selectedIndex int
	focused       bool
	width         int
	height        int
}

// NewTravelPanel creates a new travel panel.
func NewTravelPanel(venues []catalog.Venue) *TravelPanel {
	search := textinput.New()
	search.Placeholder = "Search venue..."
	search.Width = 18
	search.CharLimit = 20

	return &TravelPanel{
		venues:   venues,
		filtered: venues,
		search:   search,
	}
}

// Init initializes the panel.
func (p *TravelPanel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the panel.
func (p *TravelPanel) Update(msg tea.Msg) (*TravelPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
			}
			return p, nil
		case key.Matches(msg, key.NewBinding(key.WithKeys("down"))):
			if p.selectedIndex < len(p.filtered)-1 {
				p.selectedIndex++
			}
			return p, nil
		case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
			p.search.SetValue("")
			p.filter("")
			return p, nil
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if v, ok := p.Selected(); ok && p.CanTravelTo(v.ID) {
				p.search.SetValue("")
				p.filter("")
				return p, emit(TravelMsg{Venue: v.ID})
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	p.filter(p.search.Value())
	return p, cmd
}

// CanTravelTo reports whether a travel to the venue would do anything.
func (p *TravelPanel) CanTravelTo(id catalog.VenueID) bool {
	return !p.snap.Traveling && id != p.snap.Player.VenueID
}

func (p *TravelPanel) filter(query string) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		p.filtered = p.venues
	} else {
		p.filtered = p.filtered[:0:0]
		for _, v := range p.venues {
			hay := strings.ToLower(v.Name + " " + v.Network + " " + v.Specialty)
			if strings.Contains(hay, query) {
				p.filtered = append(p.filtered, v)
			}
		}
	}
	if p.selectedIndex >= len(p.filtered) {
		p.selectedIndex = max(len(p.filtered)-1, 0)
	}
}

// View renders the panel.
func (p *TravelPanel) View() string {
	var content strings.Builder

	inputStyle := styles.InputStyle
	if p.focused {
		inputStyle = styles.FocusedInputStyle
		p.search.Focus()
	} else {
		p.search.Blur()
	}
	content.WriteString(inputStyle.Render(p.search.View()))
	content.WriteString("\n")

	if len(p.filtered) == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("No venue matches"))
	}

	query := p.search.Value()
	for i, v := range p.filtered {
		marker := "  "
		if v.ID == p.snap.Player.VenueID {
			marker = "● "
		}
		name := styles.VenueStyle(v.Color).Render(highlightMatch(v.Name, query))
		row := fmt.Sprintf("%s%s %s %s", marker, v.Icon, name,
			styles.TimeStyle.Render("["+v.Network+"]"))

		if i == p.selectedIndex && p.focused {
			row = styles.SelectedRowStyle.Render(row)
		} else if !p.CanTravelTo(v.ID) {
			row = styles.DisabledRowStyle.Render(row)
		}
		content.WriteString(row)
		content.WriteString("\n")
		if v.Specialty != "" {
			content.WriteString("     " + styles.LabelStyle.Render(v.Specialty) + "\n")
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("🧭 Travel", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// highlightMatch emphasises the first case-insensitive occurrence of query.
func highlightMatch(s, query string) string {
	if query == "" {
		return s
	}
	i := strings.Index(strings.ToLower(s), strings.ToLower(query))
	if i < 0 {
		return s
	}
	j := i + len(query)
	return s[:i] + styles.DropdownMatchStyle.Render(s[i:j]) + s[j:]
}

// SetFocus sets the focus state of the panel.
func (p *TravelPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *TravelPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSnapshot sets the state to display.
func (p *TravelPanel) SetSnapshot(snap game.Snapshot) {
	p.snap = snap
}

// Selected returns the highlighted venue.
func (p *TravelPanel) Selected() (catalog.Venue, bool) {
	if p.selectedIndex >= 0 && p.selectedIndex < len(p.filtered) {
		return p.filtered[p.selectedIndex], true
	}
	return catalog.Venue{}, false
}

// TravelMsg asks the model to move the player to a venue.
type TravelMsg struct {
	Venue catalog.VenueID
}
