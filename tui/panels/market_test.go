package panels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/economy"
	"github.com/zappabad/dexwars/internal/game"
	"github.com/zappabad/dexwars/internal/pricing"
)

func marketAt(t *testing.T, venue catalog.VenueID) *MarketPanel {
	t.Helper()
	cat := catalog.Default()
	v, ok := cat.Venue(venue)
	require.True(t, ok)

	p := NewMarketPanel(cat.Assets)
	p.SetSize(90, 20)
	p.SetSnapshot(game.Snapshot{State: economy.State{
		Status: economy.StatusPlaying,
		Player: economy.Player{Cash: 100000, VenueID: venue, Day: 1, MaxDays: 30},
		Market: economy.Market{Prices: pricing.Prices{"btc": 65000}},
	}}, v)
	return p
}

func TestMarketQuotesVenuePrices(t *testing.T) {
	testCases := []struct {
		venue catalog.VenueID
		buy   string
		sell  string
	}{
		{"libertyswap", "buy $61,750", "sell $65,000"},
		{"uniswap", "buy $65,000", "sell $68,250"},
		{"traderjoe", "buy $65,000", "sell $65,000"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.venue), func(t *testing.T) {
			p := marketAt(t, tc.venue)
			p.SetFocus(true)

			view := p.View()
			assert.Contains(t, view, tc.buy)
			assert.Contains(t, view, tc.sell)
		})
	}
}

func TestMarketHidesQuoteWhenUnfocused(t *testing.T) {
	p := marketAt(t, "libertyswap")
	assert.NotContains(t, p.View(), "buy $61,750")
}
