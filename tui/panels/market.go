package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/economy"
	"github.com/zappabad/dexwars/internal/game"
	"github.com/zappabad/dexwars/tui/styles"
)

// BuyKey and SellKey trade the highlighted asset.
var (
	BuyKey  = key.NewBinding(key.WithKeys("b", "enter"), key.WithHelp("b", "buy max"))
	SellKey = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sell all"))
)

// MarketPanel shows the price board at the current venue.
type MarketPanel struct {
	assets        []catalog.Asset
	snap          game.Snapshot
	venue         catalog.Venue
	selectedIndex int
	focused       bool
	width         int
	height        int
}

// NewMarketPanel creates a new market panel.
func NewMarketPanel(assets []catalog.Asset) *MarketPanel {
	return &MarketPanel{assets: assets}
}

// Init initializes the panel.
func (p *MarketPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *MarketPanel) Update(msg tea.Msg) (*MarketPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.assets)-1 {
				p.selectedIndex++
			}
		case key.Matches(msg, BuyKey):
			if a, ok := p.Selected(); ok && p.CanBuy(a.ID) {
				return p, emit(BuyMsg{Asset: a.ID})
			}
		case key.Matches(msg, SellKey):
			if a, ok := p.Selected(); ok && p.snap.Player.Inventory[a.ID] > 0 && !p.snap.Traveling {
				return p, emit(SellMsg{Asset: a.ID})
			}
		}
	}
	return p, nil
}

// CanBuy reports whether a single unit of the asset is affordable here.
func (p *MarketPanel) CanBuy(id catalog.AssetID) bool {
	price, ok := p.snap.Market.Prices[id]
	if !ok {
		return false
	}
	return p.snap.CanBuy(p.venue.BuyPrice(price))
}

// quote renders the venue's buy and sell price for one asset, with the
// venue modifier applied.
func (p *MarketPanel) quote(id catalog.AssetID) string {
	price, ok := p.snap.Market.Prices[id]
	if !ok {
		return ""
	}
	buy := styles.BuyStyle.Render("buy " + economy.FormatPrice(p.venue.BuyPrice(price)))
	sell := styles.SellStyle.Render("sell " + economy.FormatPrice(p.venue.SellPrice(price)))
	return buy + "  " + sell
}

// View renders the panel.
func (p *MarketPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%-6s %-11s %14s %8s %12s", "Coin", "Name", "Price", "24h", "Held")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	for i, a := range p.assets {
		price, priced := p.snap.Market.Prices[a.ID]
		priceStr := "-"
		if priced {
			priceStr = economy.FormatPrice(price)
		}

		change := fmt.Sprintf("%8s", "")
		if pct, ok := p.snap.PriceChange(a.ID); ok {
			arrow, style := "▲", styles.PriceUpStyle
			switch {
			case pct < 0:
				arrow, style = "▼", styles.PriceDownStyle
				pct = -pct
			case pct == 0:
				arrow, style = "=", styles.PriceFlatStyle
			}
			change = style.Render(fmt.Sprintf("%s%6.1f%%", arrow, pct))
		}

		held := ""
		if n := p.snap.Player.Inventory[a.ID]; n > 0 {
			held = economy.FormatUnits(n)
		}

		name := a.Name
		if len(name) > 11 {
			name = name[:11]
		}
		row := fmt.Sprintf("%-6s %-11s %14s ", a.Symbol(), name, priceStr)

		style := styles.RowStyle
		if !p.CanBuy(a.ID) {
			style = styles.DisabledRowStyle
		}
		if i == p.selectedIndex && p.focused {
			style = styles.SelectedRowStyle
		}
		line := style.Render(row) + change + styles.SizeStyle.Render(fmt.Sprintf(" %12s", held))
		content.WriteString(line)
		if i < len(p.assets)-1 {
			content.WriteString("\n")
		}
	}

	if a, ok := p.Selected(); ok && p.focused {
		content.WriteString("\n\n")
		content.WriteString(styles.LabelStyle.Render(a.Description))
		if quote := p.quote(a.ID); quote != "" {
			content.WriteString("\n")
			content.WriteString(quote)
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := "📈 Market"
	if p.venue.Name != "" {
		title += " @ " + styles.VenueStyle(p.venue.Color).Render(p.venue.Name)
	}
	panel := lipgloss.JoinVertical(lipgloss.Left, styles.RenderTitle(title, p.focused), content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *MarketPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *MarketPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSnapshot sets the state to display and the venue it is priced at.
func (p *MarketPanel) SetSnapshot(snap game.Snapshot, venue catalog.Venue) {
	p.snap = snap
	p.venue = venue
}

// Selected returns the highlighted asset.
func (p *MarketPanel) Selected() (catalog.Asset, bool) {
	if p.selectedIndex >= 0 && p.selectedIndex < len(p.assets) {
		return p.assets[p.selectedIndex], true
	}
	return catalog.Asset{}, false
}

// BuyMsg asks the model to buy as much of an asset as cash allows.
type BuyMsg struct {
	Asset catalog.AssetID
}

// SellMsg asks the model to sell a whole position.
type SellMsg struct {
	Asset catalog.AssetID
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
