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

// RepayKey pays down the debt from the wallet panel.
var RepayKey = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "pay whale"))

// PortfolioPanel shows the wallet, the debt and the OpSec meter.
type PortfolioPanel struct {
	cat     *catalog.Catalog
	snap    game.Snapshot
	focused bool
	width   int
	height  int
}

// NewPortfolioPanel creates a new portfolio panel.
func NewPortfolioPanel(cat *catalog.Catalog) *PortfolioPanel {
	return &PortfolioPanel{cat: cat}
}

// Init initializes the panel.
func (p *PortfolioPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *PortfolioPanel) Update(msg tea.Msg) (*PortfolioPanel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && p.focused && key.Matches(msg, RepayKey) && p.snap.CanRepay() {
		return p, emit(RepayMsg{})
	}
	return p, nil
}

// View renders the panel.
func (p *PortfolioPanel) View() string {
	var content strings.Builder
	pl := p.snap.Player

	line := func(label, value string, style lipgloss.Style) {
		content.WriteString(styles.LabelStyle.Render(fmt.Sprintf("%-10s", label)))
		content.WriteString(style.Render(value))
		content.WriteString("\n")
	}

	line("Day", fmt.Sprintf("%d / %d", pl.Day, pl.MaxDays), styles.RowStyle)
	line("Cash", economy.FormatMoney(pl.Cash), lipgloss.NewStyle().Foreground(styles.CashColor))
	line("Debt", economy.FormatMoney(pl.Debt), lipgloss.NewStyle().Foreground(styles.DebtColor))

	used, capacity := p.snap.WalletUsage()
	wallet := economy.FormatUnits(used) + " units"
	if capacity > 0 {
		wallet += " / " + economy.FormatUnits(capacity)
	}
	line("Holdings", wallet, lipgloss.NewStyle().Foreground(styles.HoldingColor))
	line("Net worth", economy.FormatMoney(p.snap.NetWorth()), styles.BigNumberStyle)

	content.WriteString(styles.LabelStyle.Render(fmt.Sprintf("%-10s", "OpSec")))
	content.WriteString(styles.Meter(pl.Health, p.cat.Balance.MaxHealth, 20))
	content.WriteString(fmt.Sprintf(" %d%%\n", pl.Health))

	if len(pl.Inventory) > 0 {
		content.WriteString("\n")
		content.WriteString(styles.HeaderStyle.Render("Bags"))
		for _, a := range p.cat.Assets {
			n := pl.Inventory[a.ID]
			if n == 0 {
				continue
			}
			value := float64(n) * p.snap.Market.Prices[a.ID]
			content.WriteString(fmt.Sprintf("\n%-6s %14s %14s", a.Symbol(),
				styles.SizeStyle.Render(economy.FormatUnits(n)),
				styles.PriceStyle.Render(economy.FormatMoney(value))))
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(styles.HeaderStyle.Render("Terminal"))
	for _, h := range pl.History {
		content.WriteString("\n")
		content.WriteString(styles.TimeStyle.Render("> ") + h)
	}

	if p.focused && p.snap.CanRepay() {
		content.WriteString("\n\n")
		content.WriteString(styles.ButtonStyle.Render("r  Pay the whale"))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("💼 Wallet", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *PortfolioPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *PortfolioPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSnapshot sets the state to display.
func (p *PortfolioPanel) SetSnapshot(snap game.Snapshot) {
	p.snap = snap
}

// RepayMsg asks the model to pay down the debt.
type RepayMsg struct{}
