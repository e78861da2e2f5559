package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/economy"
	"github.com/zappabad/dexwars/internal/game"
	"github.com/zappabad/dexwars/tui/panels"
	"github.com/zappabad/dexwars/tui/styles"
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusMarket PanelFocus = iota
	FocusPortfolio
	FocusTravel
	FocusNews

	panelCount
)

// Model is the main TUI application model.
type Model struct {
	ctx  context.Context
	game *game.Game
	cat  *catalog.Catalog
	log  zerolog.Logger

	snap        game.Snapshot
	traveling   bool
	travelingTo string
	shareURL    string
	pageURL     string

	// Panels
	marketPanel    *panels.MarketPanel
	portfolioPanel *panels.PortfolioPanel
	travelPanel    *panels.TravelPanel
	newsPanel      *panels.NewsPanel

	spinner spinner.Model
	help    help.Model
	keys    keyMap

	// Focus management
	focusedPanel PanelFocus

	// Window dimensions
	width  int
	height int

	// Status
	statusMsg string
	ready     bool
}

// NewModel creates a new TUI model driving g. ctx bounds the narrative
// requests made on travel. pageURL, when set, is attached to share links.
func NewModel(ctx context.Context, g *game.Game, pageURL string, log zerolog.Logger) *Model {
	cat := g.Catalog()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(styles.AccentColor)

	m := &Model{
		ctx:            ctx,
		game:           g,
		cat:            cat,
		log:            log.With().Str("component", "tui").Logger(),
		pageURL:        pageURL,
		marketPanel:    panels.NewMarketPanel(cat.Assets),
		portfolioPanel: panels.NewPortfolioPanel(cat),
		travelPanel:    panels.NewTravelPanel(cat.Venues),
		newsPanel:      panels.NewNewsPanel(),
		spinner:        sp,
		help:           help.New(),
		keys:           newKeyMap(cat.Balance.DayOptions),
		focusedPanel:   FocusMarket,
	}
	m.setSnapshot(g.Snapshot())
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.marketPanel.Init(),
		m.portfolioPanel.Init(),
		m.travelPanel.Init(),
		m.newsPanel.Init(),
		m.listenNewsEvents(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

	case panels.NewsUpdateMsg:
		if msg.Reset {
			m.newsPanel.SetNews(nil)
		}
		if msg.Item.Headline != "" {
			m.newsPanel.AddNews(msg.Item)
		}
		cmds = append(cmds, m.listenNewsEvents())

	case panels.BuyMsg:
		cmds = append(cmds, m.perform(func() error {
			_, err := m.game.Buy(msg.Asset)
			return err
		}))

	case panels.SellMsg:
		cmds = append(cmds, m.perform(func() error {
			_, err := m.game.Sell(msg.Asset)
			return err
		}))

	case panels.RepayMsg:
		cmds = append(cmds, m.perform(func() error {
			_, err := m.game.RepayDebt()
			return err
		}))

	case panels.TravelMsg:
		cmds = append(cmds, m.travel(msg.Venue), m.spinner.Tick)

	case actionResultMsg:
		m.handleResult(msg)

	case travelResultMsg:
		m.traveling = false
		m.travelingTo = ""
		m.handleResult(actionResultMsg(msg))

	case spinner.TickMsg:
		if m.traveling {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	if m.snap.Status == economy.StatusPlaying {
		m.updateFocusedPanel(msg, &cmds)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes the keys owned by the model rather than a panel.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.Abandon):
		return m.perform(func() error {
			m.game.Reset()
			return nil
		}), true
	}

	switch m.snap.Status {
	case economy.StatusStart:
		for i, b := range m.keys.Days {
			if key.Matches(msg, b) {
				return m.start(m.cat.Balance.DayOptions[i]), true
			}
		}
		if key.Matches(msg, m.keys.Quit) {
			return tea.Quit, true
		}
		return nil, true

	case economy.StatusGameOver:
		switch {
		case key.Matches(msg, m.keys.Share):
			m.shareURL = game.ShareURL(m.snap.NetWorth(), m.pageURL)
			m.statusMsg = "Share link ready"
		case key.Matches(msg, m.keys.NewRun):
			return m.perform(func() error {
				m.game.Reset()
				return nil
			}), true
		case key.Matches(msg, m.keys.Quit):
			return tea.Quit, true
		}
		return nil, true
	}

	switch {
	case key.Matches(msg, m.keys.Quit) && m.focusedPanel != FocusTravel:
		return tea.Quit, true
	case key.Matches(msg, m.keys.NextPanel):
		m.cycleFocus(1)
		return nil, true
	case key.Matches(msg, m.keys.PrevPanel):
		m.cycleFocus(-1)
		return nil, true
	case key.Matches(msg, m.keys.Panels):
		n, _ := strconv.Atoi(strings.TrimPrefix(msg.String(), "f"))
		m.setFocus(PanelFocus(n - 1))
		return nil, true
	}
	return nil, false
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusMarket:
		m.marketPanel, cmd = m.marketPanel.Update(msg)
	case FocusPortfolio:
		m.portfolioPanel, cmd = m.portfolioPanel.Update(msg)
	case FocusTravel:
		m.travelPanel, cmd = m.travelPanel.Update(msg)
	case FocusNews:
		m.newsPanel, cmd = m.newsPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	bodyHeight := max(m.height-2, 10)

	var body string
	switch m.snap.Status {
	case economy.StatusStart:
		body = m.startView(bodyHeight)
	case economy.StatusGameOver:
		body = m.gameOverView(bodyHeight)
	default:
		body = m.playingView(bodyHeight)
	}

	k := m.keys
	k.status = m.snap.Status
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar(), m.help.View(k))
}

func (m *Model) playingView(height int) string {
	// Update focus states
	m.marketPanel.SetFocus(m.focusedPanel == FocusMarket)
	m.portfolioPanel.SetFocus(m.focusedPanel == FocusPortfolio)
	m.travelPanel.SetFocus(m.focusedPanel == FocusTravel)
	m.newsPanel.SetFocus(m.focusedPanel == FocusNews)

	// Layout:
	// ┌──────────────────────────┬─────────────────┐
	// │  Market                  │  Wallet         │
	// ├──────────────────────────┼─────────────────┤
	// │  News                    │  Travel         │
	// └──────────────────────────┴─────────────────┘

	leftWidth := m.width * 3 / 5
	rightWidth := m.width - leftWidth

	topHeight := height / 2
	bottomHeight := height - topHeight

	m.marketPanel.SetSize(leftWidth, topHeight)
	m.portfolioPanel.SetSize(rightWidth, topHeight)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.marketPanel.View(),
		m.portfolioPanel.View(),
	)

	m.newsPanel.SetSize(leftWidth, bottomHeight)
	m.travelPanel.SetSize(rightWidth, bottomHeight)
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.newsPanel.View(),
		m.travelPanel.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow)
}

func (m *Model) startView(height int) string {
	bal := m.cat.Balance
	start := m.cat.StartVenue()

	lines := []string{
		styles.BannerStyle.Render("D E X   W A R S"),
		"",
		styles.LabelStyle.Render("Buy low on one DEX, dump high on another, and outrun the whale."),
		styles.LabelStyle.Render(fmt.Sprintf("You start on %s with %s in cash and %s owed at %.0f%% a day.",
			start.Name,
			economy.FormatMoney(bal.StartingCash),
			economy.FormatMoney(bal.StartingDebt),
			(bal.InterestRate-1)*100)),
		"",
	}
	for i, days := range bal.DayOptions {
		lines = append(lines, styles.ButtonStyle.Render(fmt.Sprintf("%d  %s (%d days)", i+1, runName(i), days)), "")
	}

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, content)
}

func runName(i int) string {
	switch i {
	case 0:
		return "Sprint"
	case 1:
		return "Marathon"
	}
	return "Run " + strconv.Itoa(i+1)
}

func (m *Model) gameOverView(height int) string {
	pl := m.snap.Player

	lines := []string{
		styles.BannerStyle.Render("R U N   O V E R"),
		"",
		styles.LabelStyle.Render(fmt.Sprintf("Survived %d days", pl.MaxDays)),
		styles.BigNumberStyle.Render(economy.FormatMoney(m.snap.NetWorth())),
		styles.LabelStyle.Render(fmt.Sprintf("cash %s   debt %s   opsec %d%%",
			economy.FormatMoney(pl.Cash), economy.FormatMoney(pl.Debt), pl.Health)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			styles.ButtonStyle.Render("x  Share on X"), "  ",
			styles.ButtonStyle.Render("n  New run")),
	}
	if m.shareURL != "" {
		lines = append(lines, "", lipgloss.NewStyle().Width(max(m.width-8, 20)).Render(m.shareURL))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderStatusBar() string {
	var parts []string
	if m.traveling {
		parts = append(parts, m.spinner.View()+styles.StatusBarDescStyle.Render(" bridging to "+m.travelingTo))
	}
	if m.snap.RunID != "" {
		id := m.snap.RunID
		if len(id) > 8 {
			id = id[:8]
		}
		parts = append(parts, styles.StatusBarKeyStyle.Render("run")+styles.StatusBarDescStyle.Render(" "+id))
	}
	if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	}

	return styles.StatusBarStyle.Width(m.width).Render(strings.Join(parts, " │ "))
}

func (m *Model) setFocus(panel PanelFocus) {
	if panel >= 0 && panel < panelCount {
		m.focusedPanel = panel
	}
}

func (m *Model) cycleFocus(step int) {
	m.focusedPanel = (m.focusedPanel + PanelFocus(step) + panelCount) % panelCount
}

// setSnapshot hands a snapshot to every panel. A travel dispatched by this
// model counts as in flight until its result arrives.
func (m *Model) setSnapshot(snap game.Snapshot) {
	snap.Traveling = snap.Traveling || m.traveling
	m.snap = snap

	venue, _ := m.cat.Venue(snap.Player.VenueID)
	m.marketPanel.SetSnapshot(snap, venue)
	m.portfolioPanel.SetSnapshot(snap)
	m.travelPanel.SetSnapshot(snap)
}

func (m *Model) handleResult(msg actionResultMsg) {
	prev := m.snap.Status
	m.setSnapshot(m.game.Snapshot())

	l := m.log
	switch {
	case errors.Is(msg.err, game.ErrStaleTravel):
		m.statusMsg = "Travel discarded, the run was reset"
	case msg.err != nil:
		l.Debug().Err(msg.err).Msg("action rejected")
		m.statusMsg = "✗ " + msg.err.Error()
	case m.snap.Status == economy.StatusPlaying && len(m.snap.Player.History) > 0:
		m.statusMsg = m.snap.Player.History[0]
	default:
		m.statusMsg = ""
	}

	if m.snap.Status != prev {
		m.shareURL = ""
		m.focusedPanel = FocusMarket
	}
}

func (m *Model) start(days int) tea.Cmd {
	return m.perform(func() error {
		_, err := m.game.StartRun(days)
		return err
	})
}

func (m *Model) perform(op func() error) tea.Cmd {
	return func() tea.Msg {
		return actionResultMsg{err: op()}
	}
}

func (m *Model) travel(to catalog.VenueID) tea.Cmd {
	m.traveling = true
	m.travelingTo = string(to)
	if v, ok := m.cat.Venue(to); ok {
		m.travelingTo = v.Name
	}
	m.setSnapshot(m.snap)

	ctx := m.ctx
	return func() tea.Msg {
		_, err := m.game.Travel(ctx, to)
		return travelResultMsg{err: err}
	}
}

func (m *Model) listenNewsEvents() tea.Cmd {
	return func() tea.Msg {
		events := m.game.News.Events()
		ev, ok := <-events
		if !ok {
			return nil
		}
		return panels.NewsUpdateMsg{Item: ev.Item, Reset: ev.Reset}
	}
}

// actionResultMsg is sent after an engine operation completes.
type actionResultMsg struct {
	err error
}

// travelResultMsg is sent when a travel commits or is discarded.
type travelResultMsg actionResultMsg
