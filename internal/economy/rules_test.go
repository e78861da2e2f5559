package economy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/entropy"
)

// startedRun returns rules that draw every price at its base and a fresh
// 30 day run at the first venue.
func startedRun(t *testing.T) (Rules, State) {
	t.Helper()
	r := NewRules(catalog.Default(), entropy.Constant(0.5))
	s, err := r.StartRun(r.Reset(), 30)
	require.NoError(t, err)
	return r, s
}

func at(s State, venue catalog.VenueID) State {
	s = s.Clone()
	s.Player.VenueID = venue
	return s
}

func TestResetDefaults(t *testing.T) {
	r := NewRules(catalog.Default(), entropy.Constant(0.5))
	s := r.Reset()

	assert.Equal(t, StatusStart, s.Status)
	assert.Equal(t, 5000.0, s.Player.Cash)
	assert.Equal(t, 5000.0, s.Player.Debt)
	assert.Equal(t, 1, s.Player.Day)
	assert.Equal(t, 30, s.Player.MaxDays)
	assert.Equal(t, 100, s.Player.Health)
	assert.Equal(t, []string{"Terminal initialized..."}, s.Player.History)
	assert.Empty(t, s.Market.Prices)
	assert.Equal(t, welcomeNews, s.Market.News)
}

func TestStartRun(t *testing.T) {
	r, s := startedRun(t)

	assert.Equal(t, StatusPlaying, s.Status)
	assert.Equal(t, 5000.0, s.Player.Cash)
	assert.Equal(t, 5000.0, s.Player.Debt)
	assert.Equal(t, 1, s.Player.Day)
	assert.Equal(t, 30, s.Player.MaxDays)
	assert.Equal(t, catalog.VenueID("uniswap"), s.Player.VenueID)
	assert.Empty(t, s.Player.Inventory)
	assert.Equal(t, []string{"Day 1: Connection established at Uniswap."}, s.Player.History)
	assert.Equal(t, openNews, s.Market.News)

	for _, a := range r.Catalog.Assets {
		assert.Contains(t, s.Market.Prices, a.ID)
	}
	assert.Equal(t, s.Market.Prices, s.Market.PrevPrices)
}

func TestStartRunRejects(t *testing.T) {
	r, s := startedRun(t)

	_, err := r.StartRun(s, 30)
	assert.ErrorIs(t, err, ErrAlreadyStarted)

	fresh := r.Reset()
	got, err := r.StartRun(fresh, 45)
	assert.ErrorIs(t, err, ErrInvalidDays)
	assert.Equal(t, StatusStart, got.Status)

	long, err := r.StartRun(fresh, 60)
	require.NoError(t, err)
	assert.Equal(t, 60, long.Player.MaxDays)
}

func TestBuyUnaffordableIsNoop(t *testing.T) {
	r, s := startedRun(t)

	got, err := r.Buy(s, "btc")
	assert.ErrorIs(t, err, ErrNothingToBuy)
	assert.Equal(t, s, got)
	assert.Equal(t, 5000.0, got.Player.Cash)
}

func TestBuySpendsMaxAffordable(t *testing.T) {
	r, s := startedRun(t)

	got, err := r.Buy(s, "eth")
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.Player.Inventory["eth"])
	assert.InDelta(t, 1500, got.Player.Cash, 1e-9)
	assert.Equal(t, "Bought 1 ETH", got.Player.History[0])
	assert.Empty(t, s.Player.Inventory, "input state is not mutated")

	again, err := r.Buy(got, "inc")
	require.NoError(t, err)
	assert.Equal(t, int64(100), again.Player.Inventory["inc"])
	assert.InDelta(t, 0, again.Player.Cash, 1e-9)
}

func TestBuyDiscountVenue(t *testing.T) {
	r, s := startedRun(t)
	s = at(s, "libertyswap")

	got, err := r.Buy(s, "hex")
	require.NoError(t, err)

	unit := 0.05 * 0.95
	want := int64(math.Floor(5000 / unit))
	assert.Equal(t, want, got.Player.Inventory["hex"])
	assert.InDelta(t, 5000-float64(want)*unit, got.Player.Cash, 1e-6)
	assert.GreaterOrEqual(t, got.Player.Cash, 0.0)
	assert.Equal(t, "Bought 105,263 HEX", got.Player.History[0])
}

func TestBuyRespectsWalletCapacity(t *testing.T) {
	r, s := startedRun(t)
	s.Player.WalletCapacity = 100
	s.Player.Inventory = Inventory{"inc": 40}

	got, err := r.Buy(s, "hex")
	require.NoError(t, err)
	assert.Equal(t, int64(60), got.Player.Inventory["hex"])
	assert.InDelta(t, 5000-60*0.05, got.Player.Cash, 1e-9)

	_, err = r.Buy(got, "pls")
	assert.ErrorIs(t, err, ErrNothingToBuy, "wallet is full")
}

func TestBuyWithoutPriceIsNoop(t *testing.T) {
	r, s := startedRun(t)

	got, err := r.Buy(s, "doge")
	assert.ErrorIs(t, err, ErrNoPrice)
	assert.Equal(t, s, got)
}

func TestBuyNeverDrivesCashNegative(t *testing.T) {
	cat := catalog.Default()
	r := NewRules(cat, entropy.NewRand(99))
	s, err := r.StartRun(r.Reset(), 60)
	require.NoError(t, err)

	venues := []catalog.VenueID{"libertyswap", "uniswap", "pulsex", "piteas"}
	for i := 0; i < 40; i++ {
		for _, a := range cat.Assets {
			before := s
			venue, _ := cat.Venue(before.Player.VenueID)
			unit := venue.BuyPrice(before.Market.Prices[a.ID])

			s, err = r.Buy(s, a.ID)
			want := math.Floor(before.Player.Cash / unit)
			if err == nil && want < float64(maxUnits) {
				bought := s.Player.Inventory[a.ID] - before.Player.Inventory[a.ID]
				assert.Equal(t, int64(want), bought)
			}
			require.GreaterOrEqual(t, s.Player.Cash, 0.0)

			s, _ = r.Sell(s, a.ID)
			require.NotContains(t, s.Player.Inventory, a.ID)
		}
		next := venues[i%len(venues)]
		if next == s.Player.VenueID {
			next = venues[(i+1)%len(venues)]
		}
		s, _, err = r.Travel(s, next, "")
		require.NoError(t, err)
	}
}

func TestSellLiquidatesWholePosition(t *testing.T) {
	r, s := startedRun(t)
	s.Player.Inventory = Inventory{"eth": 2, "sol": 3}

	got, err := r.Sell(s, "eth")
	require.NoError(t, err)

	_, held := got.Player.Inventory["eth"]
	assert.False(t, held, "sold entries are removed, not zeroed")
	assert.Equal(t, int64(3), got.Player.Inventory["sol"])
	// Uniswap pays a 5% bonus on sells.
	assert.InDelta(t, 5000+2*3500*1.05, got.Player.Cash, 1e-9)
	assert.Equal(t, "Sold 2 ETH", got.Player.History[0])
}

func TestSellWithoutBonus(t *testing.T) {
	r, s := startedRun(t)
	s = at(s, "pancakeswap")
	s.Player.Inventory = Inventory{"sol": 10}

	got, err := r.Sell(s, "sol")
	require.NoError(t, err)
	assert.InDelta(t, 5000+10*150, got.Player.Cash, 1e-9)
}

func TestSellNoops(t *testing.T) {
	r, s := startedRun(t)

	_, err := r.Sell(s, "eth")
	assert.ErrorIs(t, err, ErrNothingHeld)

	s.Player.Inventory = Inventory{"doge": 5}
	got, err := r.Sell(s, "doge")
	assert.ErrorIs(t, err, ErrNoPrice)
	assert.Equal(t, int64(5), got.Player.Inventory["doge"])
}

func TestRepayDebt(t *testing.T) {
	r, s := startedRun(t)

	s.Player.Cash = 2000
	partial, err := r.RepayDebt(s)
	require.NoError(t, err)
	assert.Equal(t, 0.0, partial.Player.Cash)
	assert.Equal(t, 3000.0, partial.Player.Debt)
	assert.Equal(t, "Paid Whale $2,000", partial.Player.History[0])

	s.Player.Cash = 8000
	full, err := r.RepayDebt(s)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, full.Player.Cash)
	assert.Equal(t, 0.0, full.Player.Debt)

	_, err = r.RepayDebt(full)
	assert.ErrorIs(t, err, ErrNoDebt)

	_, err = r.RepayDebt(partial)
	assert.ErrorIs(t, err, ErrNoCash)
}

func TestOperationsRequirePlaying(t *testing.T) {
	r := NewRules(catalog.Default(), entropy.Constant(0.5))
	s := r.Reset()

	_, err := r.Buy(s, "eth")
	assert.ErrorIs(t, err, ErrNotPlaying)
	_, err = r.Sell(s, "eth")
	assert.ErrorIs(t, err, ErrNotPlaying)
	_, err = r.RepayDebt(s)
	assert.ErrorIs(t, err, ErrNotPlaying)
	_, err = r.PlanTravel(s, "pulsex")
	assert.ErrorIs(t, err, ErrNotPlaying)
}

func TestHistoryIsBoundedNewestFirst(t *testing.T) {
	r, s := startedRun(t)
	s.Player.Cash = 1

	var err error
	for i := 0; i < 8; i++ {
		s.Player.Cash += 1
		s, err = r.RepayDebt(s)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(s.Player.History), 5)
	}
	require.Len(t, s.Player.History, 5)
	assert.Equal(t, "Paid Whale $1", s.Player.History[0])
	assert.Equal(t, 5000.0-2-7, s.Player.Debt)
}

func TestNetWorth(t *testing.T) {
	_, s := startedRun(t)
	s.Player.Cash = 1000
	s.Player.Debt = 400
	s.Player.Inventory = Inventory{"eth": 2, "inc": 10, "doge": 7}

	// doge has no price and counts as zero.
	assert.InDelta(t, 1000+2*3500+10*15-400, s.NetWorth(), 1e-9)
	assert.InDelta(t, 2*3500+10*15, s.HoldingsValue(), 1e-9)
}

func TestPriceChange(t *testing.T) {
	_, s := startedRun(t)

	_, ok := s.PriceChange("eth")
	assert.False(t, ok, "no delta on day one")

	s.Player.Day = 2
	s.Market.PrevPrices["eth"] = 3000
	s.Market.Prices["eth"] = 3300
	pct, ok := s.PriceChange("eth")
	require.True(t, ok)
	assert.InDelta(t, 10, pct, 1e-9)

	_, ok = s.PriceChange("doge")
	assert.False(t, ok)
}

func TestHeadroom(t *testing.T) {
	_, s := startedRun(t)

	_, limited := s.Headroom()
	assert.False(t, limited)

	s.Player.WalletCapacity = 10
	s.Player.Inventory = Inventory{"eth": 4}
	free, limited := s.Headroom()
	assert.True(t, limited)
	assert.Equal(t, int64(6), free)

	used, capacity := s.WalletUsage()
	assert.Equal(t, int64(4), used)
	assert.Equal(t, int64(10), capacity)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatUnits(1234567))
	assert.Equal(t, "$5,000", FormatMoney(5000))
	assert.Equal(t, "-$250", FormatMoney(-250))
	assert.Equal(t, "$3,500", FormatPrice(3500))
	assert.Equal(t, "$0.000012", FormatPrice(0.000012))
}
