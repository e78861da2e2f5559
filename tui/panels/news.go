package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/dexwars/internal/news"
	"github.com/zappabad/dexwars/tui/styles"
)

// NewsPanel displays the news tape, newest day last.
type NewsPanel struct {
	news         []news.NewsItem
	scrollOffset int
	focused      bool
	width        int
	height       int
	maxItems     int
}

// NewNewsPanel creates a new news panel.
func NewNewsPanel() *NewsPanel {
	return &NewsPanel{
		maxItems: 50,
	}
}

// Init initializes the panel.
func (p *NewsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *NewsPanel) Update(msg tea.Msg) (*NewsPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.scrollOffset > 0 {
				p.scrollOffset--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.scrollOffset < len(p.lines())-1 {
				p.scrollOffset++
			}
		}
	}
	return p, nil
}

// lines flattens the tape into display lines, newest first.
func (p *NewsPanel) lines() []string {
	var out []string
	for i := len(p.news) - 1; i >= 0; i-- {
		item := p.news[i]

		style := styles.NewsNormalStyle
		switch {
		case item.Severity > 1:
			style = styles.NewsDangerStyle
		case item.Severity > 0 || item.Kind == news.KindEvent:
			style = styles.NewsImportantStyle
		}

		prefix := fmt.Sprintf("D%-2d", item.Day)
		if item.Venue != "" {
			prefix += " " + item.Venue
		}
		out = append(out, styles.TimeStyle.Render(prefix))

		wrap := lipgloss.NewStyle().Width(max(p.width-6, 10))
		for _, l := range strings.Split(item.Headline, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				out = append(out, style.Render(wrap.Render(l)))
			}
		}
	}
	return out
}

// View renders the panel.
func (p *NewsPanel) View() string {
	var content strings.Builder

	lines := p.lines()
	if len(lines) == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("No news yet"))
	} else {
		visible := max(p.height-4, 1)
		start := min(p.scrollOffset, len(lines)-1)
		end := min(start+visible, len(lines))
		content.WriteString(strings.Join(lines[start:end], "\n"))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📰 News", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *NewsPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *NewsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetNews replaces the news items.
func (p *NewsPanel) SetNews(items []news.NewsItem) {
	p.news = items
	p.scrollOffset = 0
}

// AddNews adds a news item to the panel.
func (p *NewsPanel) AddNews(item news.NewsItem) {
	p.news = append(p.news, item)
	if len(p.news) > p.maxItems {
		p.news = p.news[len(p.news)-p.maxItems:]
	}
	p.scrollOffset = 0
}

// NewsUpdateMsg is sent when the news tape changes.
type NewsUpdateMsg struct {
	Item  news.NewsItem
	Reset bool
}
